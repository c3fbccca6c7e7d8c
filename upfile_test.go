package upfile_test

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"impractical.co/upfile/stream"
	yall "yall.in"
	"yall.in/colour"
)

// Backend is a filesystem uploads can be moved into.
type Backend struct {
	Factory *stream.Factory
	// Dir is a writable directory on the backend.
	Dir string
	// Unwritable is a directory on the backend that can't be written to.
	Unwritable string
	// ReadFile returns the contents of a file on the backend.
	ReadFile func(path string) ([]byte, error)
	// Exists reports whether path exists on the backend.
	Exists func(path string) bool
}

type BackendFactory interface {
	NewBackend(ctx context.Context) (Backend, error)
	TeardownBackends() error
}

var factories []BackendFactory

type memoryFactory struct{}

func (memoryFactory) NewBackend(ctx context.Context) (Backend, error) {
	mem := memfs.New()
	if err := mem.MkdirAll("/uploads", 0o755); err != nil {
		return Backend{}, err
	}
	if err := mem.MkdirAll("/locked", 0o555); err != nil {
		return Backend{}, err
	}
	return Backend{
		Factory:    stream.NewFactory(mem),
		Dir:        "/uploads",
		Unwritable: "/locked",
		ReadFile: func(path string) ([]byte, error) {
			return util.ReadFile(mem, path)
		},
		Exists: func(path string) bool {
			_, err := mem.Stat(path)
			return err == nil
		},
	}, nil
}

func (memoryFactory) TeardownBackends() error {
	return nil
}

type osFactory struct {
	root string
}

func (f *osFactory) NewBackend(ctx context.Context) (Backend, error) {
	dir, err := os.MkdirTemp(f.root, "backend-")
	if err != nil {
		return Backend{}, err
	}
	// permission bits don't stop root, so use a directory that isn't there
	return Backend{
		Factory:    stream.NewOSFactory(),
		Dir:        dir,
		Unwritable: filepath.Join(dir, "missing"),
		ReadFile:   os.ReadFile,
		Exists: func(path string) bool {
			_, err := os.Stat(path)
			return err == nil
		},
	}, nil
}

func (f *osFactory) TeardownBackends() error {
	return os.RemoveAll(f.root)
}

func TestMain(m *testing.M) {
	flag.Parse()

	root, err := os.MkdirTemp("", "upfile-test-")
	if err != nil {
		log.Fatalf("Error creating test directory: %+v\n", err)
	}

	// set up our test backends
	factories = append(factories, memoryFactory{}, &osFactory{root: root})

	// run the tests
	result := m.Run()

	// tear down all the backends we created
	for _, factory := range factories {
		err := factory.TeardownBackends()
		if err != nil {
			log.Printf("Error cleaning up after %T: %+v\n", factory, err)
		}
	}

	// return the test result
	os.Exit(result)
}

func runTest(t *testing.T, f func(*testing.T, Backend, context.Context)) {
	t.Parallel()
	logger := yall.New(colour.New(os.Stdout, yall.Debug))
	for _, factory := range factories {
		factory := factory
		ctx := yall.InContext(context.Background(), logger)
		backend, err := factory.NewBackend(ctx)
		require.NoError(t, err, "creating backend from %T", factory)
		t.Run(fmt.Sprintf("Backend=%T", factory), func(t *testing.T) {
			t.Parallel()
			f(t, backend, ctx)
		})
	}
}

func target(b Backend, name string) string {
	return filepath.Join(b.Dir, name)
}
