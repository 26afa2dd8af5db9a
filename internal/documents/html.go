package documents

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

var mdConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
		table.NewTablePlugin(),
	),
)

// HTMLToMarkdown converts an HTML exam page to markdown, which keeps the
// emphasis and list markers the extractor expects from converted PDFs.
func HTMLToMarkdown(html []byte) (string, error) {
	markdown, err := mdConverter.ConvertString(string(html))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

func isHTMLName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	return ext == ".html" || ext == ".htm"
}

func isZoteroSnapshotZip(data []byte) bool {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range r.File {
		if isHTMLName(f.Name) {
			return true
		}
	}
	return false
}

// ExtractHTMLFromZip returns the main HTML file of a Zotero web snapshot,
// preferring index.html at any depth.
func ExtractHTMLFromZip(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open ZIP: %w", err)
	}

	var chosen *zip.File
	for _, f := range r.File {
		if !isHTMLName(f.Name) {
			continue
		}
		if strings.EqualFold(path.Base(f.Name), "index.html") {
			chosen = f
			break
		}
		if chosen == nil {
			chosen = f
		}
	}
	if chosen == nil {
		return nil, fmt.Errorf("no HTML file in ZIP: %w", ErrUnsupportedDocument)
	}

	rc, err := chosen.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
