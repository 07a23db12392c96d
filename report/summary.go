package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/imcgaunn/to-webp/models"
)

// WriteSummary prints the end-of-run summary: counts first, then one line per
// failed file.
//
//	converted 18/20 images (3.1 MiB); 2 failed:
//	  in/b.jpg: decode_error: unexpected EOF
func WriteSummary(w io.Writer, r models.BatchResult) {
	failures := r.Failures()

	fmt.Fprintf(w, "converted %d/%d images (%s)", r.Succeeded(), r.Total, FormatBytes(r.BytesWritten()))
	if len(failures) == 0 {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "; %d failed:\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(w, "  %s: %s: %s\n", f.Task.SourcePath, f.ErrorKind, f.ErrorDetail)
		}
	}
	fmt.Fprintf(w, "%d succeeded, %d failed\n", r.Succeeded(), r.Failed())
}

// WriteJSON writes r to path as indented JSON.
func WriteJSON(path string, r models.BatchResult) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB).
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 3; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), []string{"KiB", "MiB", "GiB", "TiB"}[exp])
}
