package mirror

import (
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoval/remexec/pkg/config"
)

type fakeInfo struct {
	name string
	dir  bool
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() os.FileMode  { return 0 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() any           { return nil }

type fakeFS struct {
	cwd    string
	dirs   map[string][]string // directory -> child names
	files  map[string]bool
	modes  map[string]os.FileMode
	closed bool
}

func newFakeFS(cwd string, dirs map[string][]string, files []string) *fakeFS {
	fsys := &fakeFS{
		cwd:   cwd,
		dirs:  dirs,
		files: make(map[string]bool),
		modes: make(map[string]os.FileMode),
	}
	for _, file := range files {
		fsys.files[file] = true
	}
	return fsys
}

func (f *fakeFS) Getwd() (string, error) { return f.cwd, nil }

func (f *fakeFS) ReadDir(dir string) ([]os.FileInfo, error) {
	children, ok := f.dirs[dir]
	if !ok {
		return nil, os.ErrNotExist
	}
	infos := make([]os.FileInfo, 0, len(children))
	for _, name := range children {
		full := path.Join(dir, name)
		_, isDir := f.dirs[full]
		infos = append(infos, fakeInfo{name: name, dir: isDir})
	}
	return infos, nil
}

func (f *fakeFS) Chmod(p string, mode os.FileMode) error {
	f.modes[p] = mode
	return nil
}

func (f *fakeFS) Close() error {
	f.closed = true
	return nil
}

func TestNormalize(t *testing.T) {
	t.Run("forces_0644_files_and_0755_directories", func(t *testing.T) {
		fsys := newFakeFS("/home/builder", map[string][]string{
			"/home/builder/proj":     {"src", "Makefile"},
			"/home/builder/proj/src": {"main.c", "util.c"},
		}, []string{
			"/home/builder/proj/Makefile",
			"/home/builder/proj/src/main.c",
			"/home/builder/proj/src/util.c",
		})

		executor := NewExecutor(testResolved(), zerolog.Nop())
		executor.dial = func(*config.Resolved) (RemoteFS, error) { return fsys, nil }

		require.NoError(t, executor.Normalize(context.Background()))

		assert.Equal(t, os.FileMode(0o755), fsys.modes["/home/builder/proj"])
		assert.Equal(t, os.FileMode(0o755), fsys.modes["/home/builder/proj/src"])
		assert.Equal(t, os.FileMode(0o644), fsys.modes["/home/builder/proj/Makefile"])
		assert.Equal(t, os.FileMode(0o644), fsys.modes["/home/builder/proj/src/main.c"])
		assert.Equal(t, os.FileMode(0o644), fsys.modes["/home/builder/proj/src/util.c"])
		assert.True(t, fsys.closed)
	})

	t.Run("absolute_root_skips_home_resolution", func(t *testing.T) {
		fsys := newFakeFS("", map[string][]string{
			"/srv/proj": {},
		}, nil)

		cfg := testResolved()
		cfg.RootDirectory = "/srv/proj"
		executor := NewExecutor(cfg, zerolog.Nop())
		executor.dial = func(*config.Resolved) (RemoteFS, error) { return fsys, nil }

		require.NoError(t, executor.Normalize(context.Background()))
		assert.Equal(t, os.FileMode(0o755), fsys.modes["/srv/proj"])
	})

	t.Run("cancelled_context_stops_the_walk", func(t *testing.T) {
		fsys := newFakeFS("/home/builder", map[string][]string{
			"/home/builder/proj": {},
		}, nil)

		executor := NewExecutor(testResolved(), zerolog.Nop())
		executor.dial = func(*config.Resolved) (RemoteFS, error) { return fsys, nil }

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.Error(t, executor.Normalize(ctx))
	})
}
