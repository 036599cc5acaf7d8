// Package archive inspects decoded ZIP payloads.
package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// Info summarizes a ZIP archive.
type Info struct {
	Files            []string
	UncompressedSize uint64
}

// Inspect lists the entries of a ZIP archive held in memory.
func Inspect(data []byte) (Info, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("archive: open: %w", err)
	}

	info := Info{Files: make([]string, 0, len(zr.File))}
	for _, f := range zr.File {
		info.Files = append(info.Files, f.Name)
		info.UncompressedSize += f.UncompressedSize64
	}
	return info, nil
}

// Verify decompresses every entry, checking CRCs. A nil return means
// the archive is fully readable.
func Verify(data []byte) error {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("archive: open: %w", err)
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("archive: open entry %s: %w", f.Name, err)
		}
		_, err = io.Copy(io.Discard, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("archive: entry %s is corrupt: %w", f.Name, err)
		}
	}
	return nil
}
