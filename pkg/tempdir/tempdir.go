// Package tempdir provides request-scoped temporary directories
package tempdir

import (
	"fmt"
	"os"
)

// Func is run with the path of a freshly created directory
type Func func(dir string) error

// With creates a directory under root (os.TempDir when empty), runs fn
// and removes the directory with everything inside it once fn returns.
// The directory is removed on every exit path, including a panic in fn.
// A removal failure is returned only when fn itself succeeded.
func With(root, pattern string, fn Func) (err error) {
	dir, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}

	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			err = fmt.Errorf("failed to remove temp dir %s: %w", dir, rmErr)
		}
	}()

	return fn(dir)
}
