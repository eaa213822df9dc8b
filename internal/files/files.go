// Package files implements generic file tools missing from the standard library.
package files

import (
	"os"

	"github.com/pkg/errors"
)

// Exists returns true if file or directory exists.
func Exists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// WriteTemp stages the given contents into a fresh temporary file and returns its path.
// The caller owns the file and should os.Remove it when done.
//
// pattern follows os.CreateTemp conventions (a "*" is replaced by a random string).
func WriteTemp(contents []byte, pattern string) (string, error) {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", errors.Wrapf(err, "failed to create temporary file (pattern %q)", pattern)
	}
	tmpPath := tmpFile.Name()
	if _, err = tmpFile.Write(contents); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return "", errors.Wrapf(err, "failed to write %d bytes to temporary file %q", len(contents), tmpPath)
	}
	if err = tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", errors.Wrapf(err, "failed to close temporary file %q", tmpPath)
	}
	return tmpPath, nil
}
