// Package filex resolves local data directories.
package filex

import (
	"fmt"
	"os"

	"github.com/mitchellh/go-homedir"
)

// EnsureDir expands a leading "~" and creates the directory if needed.
// It returns the expanded path.
func EnsureDir(dir string) (string, error) {
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", fmt.Errorf("expand %s: %w", dir, err)
	}

	if err := os.MkdirAll(expanded, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", expanded, err)
	}

	return expanded, nil
}
