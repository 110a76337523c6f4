// Package ingest scans the inbox directory for invoice documents.
package ingest

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "invoice-processing-service/pkg/errors"
)

// supportedExtensions is the document allow-list with the MIME type sent to
// the document-understanding provider.
var supportedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// MIMEType returns the provider MIME type for a document path, and whether
// the extension is on the allow-list.
func MIMEType(path string) (string, bool) {
	mime, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return mime, ok
}

// ListDocuments returns the absolute paths of all supported documents in
// dir, sorted by name for deterministic processing order. The directory is
// created when absent so a fresh deployment starts with an empty inbox
// instead of an error.
func ListDocuments(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.FileError(apperrors.CodeDirectoryError, dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.FileError(apperrors.CodeDirectoryError, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := MIMEType(entry.Name()); !ok {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	sort.Strings(files)
	return files, nil
}
