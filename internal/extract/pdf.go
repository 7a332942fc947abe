package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"

	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
)

// extractPDF extracts the text of each PDF page. Pages that fail to decode
// are skipped; the document fails only when nothing decodes.
func extractPDF(path string) (pages []Page, err error) {
	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = eixoerrors.New(eixoerrors.ErrCodeInvalidFormat,
				fmt.Sprintf("malformed PDF: %v", r), nil)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, eixoerrors.New(eixoerrors.ErrCodeInvalidFormat,
			fmt.Sprintf("failed to open PDF %s", path), err)
	}
	defer file.Close()

	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, Page{Number: i, Text: text})
	}

	return pages, nil
}
