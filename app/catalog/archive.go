package catalog

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Open returns a reader over the catalog's plain-text content. Zip
// containers (by suffix or magic) are opened in place: the single
// contained text entry is selected, preferring a ".txt"-like suffix
// and falling back to the largest entry. The caller owns the returned
// ReadCloser on every path.
func Open(path string) (io.ReadCloser, error) {
	isZip, err := isZipFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect catalog file: %w", err)
	}

	if !isZip {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog file: %w", err)
		}
		return f, nil
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open zip archive: %w", err)
	}

	entry, err := selectEntry(zr.File)
	if err != nil {
		zr.Close()
		return nil, err
	}

	rc, err := entry.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("failed to open zip entry %s: %w", entry.Name, err)
	}

	return &zipEntryReader{rc: rc, zr: zr}, nil
}

// selectEntry picks the catalog file inside the archive: the first
// ".txt" entry, else the largest non-directory entry.
func selectEntry(files []*zip.File) (*zip.File, error) {
	var largest *zip.File

	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			return f, nil
		}
		if largest == nil || f.UncompressedSize64 > largest.UncompressedSize64 {
			largest = f
		}
	}

	if largest == nil {
		return nil, fmt.Errorf("no suitable file found in zip archive")
	}
	return largest, nil
}

func isZipFile(path string) (bool, error) {
	if strings.HasSuffix(strings.ToLower(path), ".zip") {
		return true, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, 4)
	if _, err := io.ReadFull(f, magic); err != nil {
		// Too short to be a zip archive
		return false, nil
	}

	return string(magic) == "PK\x03\x04", nil
}

type zipEntryReader struct {
	rc io.ReadCloser
	zr *zip.ReadCloser
}

func (r *zipEntryReader) Read(p []byte) (int, error) {
	return r.rc.Read(p)
}

func (r *zipEntryReader) Close() error {
	entryErr := r.rc.Close()
	if err := r.zr.Close(); err != nil {
		return err
	}
	return entryErr
}
