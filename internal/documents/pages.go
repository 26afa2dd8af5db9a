package documents

import (
	"fmt"
	"strings"

	"github.com/Epistemic-Technology/quizbank/models"
)

// TextPages converts a document into per-page text. Plain text and markdown
// separate pages with form feeds; HTML sources are a single page. PDFs use
// their embedded text layer.
func TextPages(doc models.DocumentData) ([]string, error) {
	var pages []string
	switch doc.Type {
	case "txt", "md":
		pages = strings.Split(strings.ReplaceAll(string(doc.Data), "\r\n", "\n"), "\f")
	case "html":
		markdown, err := HTMLToMarkdown(doc.Data)
		if err != nil {
			return nil, err
		}
		pages = []string{markdown}
	case "zotero-snapshot":
		html, err := ExtractHTMLFromZip(doc.Data)
		if err != nil {
			return nil, err
		}
		markdown, err := HTMLToMarkdown(html)
		if err != nil {
			return nil, err
		}
		pages = []string{markdown}
	case "pdf":
		var err error
		pages, err = ExtractPDFPages(doc.Data)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDocument, doc.Type)
	}

	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return pages, nil
}
