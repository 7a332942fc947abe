// Package extract pulls plain text out of source documents. PDFs are read
// per page; plain text and markdown files come back as a single page.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
)

// Page is one page of extracted text. Number is 1-based for paged formats
// and 0 for formats without pages.
type Page struct {
	Number int
	Text   string
}

// SupportedExtensions lists the file extensions the extractor accepts.
var SupportedExtensions = []string{".pdf", ".txt", ".md"}

// Supported reports whether the file extension is extractable.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// ExtractPages extracts the text of a document, one entry per page.
// Extraction failures are fatal to the document that raised them.
func ExtractPages(path string) ([]Page, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, eixoerrors.New(eixoerrors.ErrCodeFileNotFound,
				fmt.Sprintf("file not found: %s", path), err)
		}
		return nil, eixoerrors.ExtractionError(fmt.Sprintf("cannot access %s", path), err)
	}
	if info.IsDir() {
		return nil, eixoerrors.ExtractionError(fmt.Sprintf("%s is a directory", path), nil)
	}

	var pages []Page
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		pages, err = extractPDF(path)
	case ".txt", ".md":
		pages, err = extractPlain(path)
	default:
		return nil, eixoerrors.New(eixoerrors.ErrCodeInvalidFormat,
			fmt.Sprintf("unsupported file format: %s", filepath.Ext(path)), nil).
			WithSuggestion("supported formats: " + strings.Join(SupportedExtensions, ", "))
	}
	if err != nil {
		return nil, err
	}

	if !hasText(pages) {
		return nil, eixoerrors.New(eixoerrors.ErrCodeEmptyDocument,
			fmt.Sprintf("no extractable text in %s", path), nil)
	}

	return pages, nil
}

// extractPlain reads the whole file as a single unpaged entry.
func extractPlain(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eixoerrors.ExtractionError(fmt.Sprintf("failed to read %s", path), err)
	}
	return []Page{{Number: 0, Text: string(data)}}, nil
}

func hasText(pages []Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

// FindDocuments walks root and returns the supported files under it,
// sorted by path. Hidden directories are skipped.
func FindDocuments(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, eixoerrors.ExtractionError(fmt.Sprintf("failed to walk %s", root), err)
	}
	return paths, nil
}
