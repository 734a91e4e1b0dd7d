package mirror

import (
	"context"
	"fmt"
	"os"
	"path"
)

// Corrective modes applied to every transferred path. Some synchronization
// backends widen permissions when the source filesystem has no mode bits to
// preserve; this pass undoes that.
const (
	normalFileMode os.FileMode = 0o644
	normalDirMode  os.FileMode = 0o755
)

// RemoteFS is the slice of a remote filesystem the normalization pass needs
type RemoteFS interface {
	Getwd() (string, error)
	ReadDir(path string) ([]os.FileInfo, error)
	Chmod(path string, mode os.FileMode) error
	Close() error
}

// Normalize forces file mode 0644 and directory mode 0755 on the whole
// destination tree
func (e *Executor) Normalize(ctx context.Context) error {
	fsys, err := e.dial(e.cfg)
	if err != nil {
		return err
	}
	defer fsys.Close()

	root := e.cfg.RootDirectory
	if !path.IsAbs(root) {
		// Relative roots live under the remote user's home directory
		home, err := fsys.Getwd()
		if err != nil {
			return fmt.Errorf("failed to resolve remote home: %w", err)
		}
		root = path.Join(home, root)
	}

	e.log.Debug().Str("root", root).Msg("normalizing permissions")
	return normalizeTree(ctx, fsys, root)
}

func normalizeTree(ctx context.Context, fsys RemoteFS, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := fsys.Chmod(dir, normalDirMode); err != nil {
		return fmt.Errorf("chmod %s: %w", dir, err)
	}

	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	for _, entry := range entries {
		full := path.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := normalizeTree(ctx, fsys, full); err != nil {
				return err
			}
			continue
		}
		if err := fsys.Chmod(full, normalFileMode); err != nil {
			return fmt.Errorf("chmod %s: %w", full, err)
		}
	}

	return nil
}
