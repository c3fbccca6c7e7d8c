package stream_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impractical.co/upfile/stream"
)

func TestParseMode(t *testing.T) {
	t.Parallel()
	type testCase struct {
		readable bool
		writable bool
		flag     int
		err      error
	}
	cases := map[string]testCase{
		"r":   {readable: true, flag: os.O_RDONLY},
		"rb":  {readable: true, flag: os.O_RDONLY},
		"r+":  {readable: true, writable: true, flag: os.O_RDWR},
		"rw+": {readable: true, writable: true, flag: os.O_RDWR},
		"w":   {writable: true, flag: os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		"w+":  {readable: true, writable: true, flag: os.O_RDWR | os.O_CREATE | os.O_TRUNC},
		"a":   {writable: true, flag: os.O_WRONLY | os.O_CREATE | os.O_APPEND},
		"x":   {writable: true, flag: os.O_WRONLY | os.O_CREATE | os.O_EXCL},
		"c+":  {readable: true, writable: true, flag: os.O_RDWR | os.O_CREATE},
		"wt":  {writable: true, flag: os.O_WRONLY | os.O_CREATE | os.O_TRUNC},
		"":    {err: stream.ErrInvalidMode},
		"z":   {err: stream.ErrInvalidMode},
		"+r":  {err: stream.ErrInvalidMode},
	}
	for raw, tc := range cases {
		raw, tc := raw, tc
		t.Run("Mode="+raw, func(t *testing.T) {
			t.Parallel()
			mode, err := stream.ParseMode(raw)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.readable, mode.Access.Readable())
			assert.Equal(t, tc.writable, mode.Access.Writable())
			assert.Equal(t, tc.flag, mode.Flag)
			assert.Equal(t, raw, mode.String())
		})
	}
}

func TestFactoryOnMemoryFilesystem(t *testing.T) {
	t.Parallel()
	mem := memfs.New()
	require.NoError(t, mem.MkdirAll("/uploads", 0o755))
	factory := stream.NewFactory(mem)

	s, err := factory.FromPath("/uploads/a.txt", "w")
	require.NoError(t, err)
	_, err = s.Write([]byte("A string"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = factory.FromPath("/uploads/a.txt", "r")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.Equal(t, "A string", s.String())
	size, ok := s.Size()
	assert.True(t, ok)
	assert.EqualValues(t, 8, size)
}

func TestFromContent(t *testing.T) {
	t.Parallel()
	s, err := stream.NewOSFactory().FromContent([]byte("A string"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.True(t, s.Readable())
	assert.True(t, s.Writable())
	assert.True(t, s.Seekable())
	pos, err := s.Tell()
	require.NoError(t, err)
	assert.EqualValues(t, 0, pos)
	assert.Equal(t, "A string", s.String())
}

func TestDirWritable(t *testing.T) {
	t.Parallel()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		mem := memfs.New()
		require.NoError(t, mem.MkdirAll("/open", 0o755))
		require.NoError(t, mem.MkdirAll("/locked", 0o555))
		require.NoError(t, mem.MkdirAll("/parent", 0o755))
		f, err := mem.Create("/parent/file")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		factory := stream.NewFactory(mem)
		assert.True(t, factory.DirWritable("/open"))
		assert.False(t, factory.DirWritable("/locked"))
		assert.False(t, factory.DirWritable("/missing"))
		assert.False(t, factory.DirWritable("/parent/file"))
	})

	t.Run("native", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		factory := stream.NewOSFactory()
		assert.True(t, factory.DirWritable(dir))
		assert.False(t, factory.DirWritable(filepath.Join(dir, "missing")))

		file := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(file, nil, 0o600))
		assert.False(t, factory.DirWritable(file))
	})
}
