package batch

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// BuildArchive bundles the successful PDFs into one zip. Only fully
// produced byte slices reach this point, so the archive can never hold
// a partial entry.
func BuildArchive(items []GeneratedItem) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, item := range items {
		w, err := zw.Create(item.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %q: %w", item.Filename, err)
		}
		if _, err := w.Write(item.PDF); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %q: %w", item.Filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}
