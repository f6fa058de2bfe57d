package layout

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// executableDir is where the running binary lives; layouts shipped next to it are found from any working directory.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}

	return filepath.Dir(exe)
}

// OpenPath opens path as given. A relative path that does not exist in the
// working directory is retried next to the executable.
func OpenPath(path string) (*os.File, error) {
	file, err := os.Open(path)
	if err == nil || filepath.IsAbs(path) || !errors.Is(err, fs.ErrNotExist) {
		if err != nil {
			return nil, fmt.Errorf("could not open file %s: %w", path, err)
		}

		slog.Debug("Opened file", "path", path)

		return file, nil
	}

	dir := executableDir()
	if dir == "" {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	fallback := filepath.Join(dir, path)
	slog.Debug("Retrying relative path next to the executable", "path", fallback)

	file, err = os.Open(fallback)
	if err != nil {
		return nil, fmt.Errorf("could not open file %s: %w", path, err)
	}

	return file, nil
}
