// Package naming maps discovered source images to their output paths.
package naming

import (
	"path/filepath"
	"strings"

	"github.com/imcgaunn/to-webp/models"
)

// OutputExt is the extension of every converted file.
const OutputExt = ".webp"

// OutputPath returns <outputDir>/<source basename without extension>.webp.
// It is a pure string function and never touches the filesystem.
//
//	OutputPath("photos/2024/IMG_0001.HEIC", "out") == "out/IMG_0001.webp"
func OutputPath(sourcePath, outputDir string) string {
	base := filepath.Base(sourcePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, base+OutputExt)
}

// Plan builds one task per source path, in input order.
func Plan(sources []string, outputDir string) []models.ImageTask {
	tasks := make([]models.ImageTask, 0, len(sources))
	for _, src := range sources {
		tasks = append(tasks, models.ImageTask{
			SourcePath:      src,
			DestinationPath: OutputPath(src, outputDir),
		})
	}
	return tasks
}
