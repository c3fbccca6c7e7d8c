//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package stream

import (
	"golang.org/x/sys/unix"
)

func fdAccess(fd uintptr) (Access, bool, error) {
	flags, err := unix.FcntlInt(fd, unix.F_GETFL, 0)
	if err != nil {
		return 0, false, err
	}
	appending := flags&unix.O_APPEND != 0
	switch flags & unix.O_ACCMODE {
	case unix.O_RDONLY:
		return AccessRead, appending, nil
	case unix.O_WRONLY:
		return AccessWrite, appending, nil
	}
	return AccessReadWrite, appending, nil
}

func dirAccessible(dir string) bool {
	return unix.Access(dir, unix.W_OK) == nil
}
