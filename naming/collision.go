package naming

import (
	"sort"

	"github.com/imcgaunn/to-webp/models"
)

// Collisions returns the destination paths claimed by more than one task,
// mapped to the sorted source paths that claim them. Output is flattened into
// one directory, so a/x.png and b/x.jpg both land on out/x.webp.
func Collisions(tasks []models.ImageTask) map[string][]string {
	byDest := make(map[string][]string, len(tasks))
	for _, t := range tasks {
		byDest[t.DestinationPath] = append(byDest[t.DestinationPath], t.SourcePath)
	}

	collisions := make(map[string][]string)
	for dest, sources := range byDest {
		if len(sources) < 2 {
			continue
		}
		sort.Strings(sources)
		collisions[dest] = sources
	}
	return collisions
}
