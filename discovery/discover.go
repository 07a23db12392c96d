// Package discovery finds convertible images under an input directory.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var ErrNotDirectory = errors.New("not a directory")

// Supported source extensions (lowercase, with leading dot).
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".heic": true,
	".heif": true,
	".png":  true,
	".bmp":  true,
}

// IsSupported reports whether name carries a supported extension, ignoring case.
func IsSupported(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Extensions returns the supported extensions, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(imageExtensions))
	for ext := range imageExtensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Discover walks root recursively and returns absolute paths of supported
// images, sorted so repeated runs dispatch in the same order.
func Discover(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve input dir: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat input dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input %s: %w", root, ErrNotDirectory)
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if IsSupported(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input dir: %w", err)
	}

	sort.Strings(files)
	return files, nil
}
