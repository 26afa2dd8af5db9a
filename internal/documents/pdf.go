package documents

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/Epistemic-Technology/quizbank/models"
)

func readPdfContext(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	return api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
}

// SplitPdf splits a PDF document into individual single-page PDFs
func SplitPdf(doc models.DocumentData) (models.DocumentPages, error) {
	var pages models.DocumentPages
	pdfContext, err := readPdfContext(doc.Data)
	if err != nil {
		return pages, err
	}
	for pageNum := 1; pageNum <= pdfContext.PageCount; pageNum++ {
		pageReader, err := api.ExtractPage(pdfContext, pageNum)
		if err != nil {
			return pages, fmt.Errorf("failed to extract page %d: %w", pageNum, err)
		}
		pageData, err := io.ReadAll(pageReader)
		if err != nil {
			return pages, err
		}
		pages = append(pages, models.DocumentPageData(pageData))
	}
	return pages, nil
}

// PdfInfo reports the page count of a PDF and whether it carries image
// XObjects, which together with the text layer decide whether the pages
// need transcription.
func PdfInfo(data []byte) (pageCount int, hasImages bool, err error) {
	pdfContext, err := readPdfContext(data)
	if err != nil {
		return 0, false, err
	}
	return pdfContext.PageCount, detectImageStreams(pdfContext), nil
}

func detectImageStreams(ctx *model.Context) bool {
	if ctx.Optimize != nil {
		for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
			if len(pdfcpu.ImageObjNrs(ctx, pageNr)) > 0 {
				return true
			}
		}
	}
	for _, entry := range ctx.Table {
		if entry == nil || entry.Free || entry.Compressed {
			continue
		}
		sd, ok := entry.Object.(types.StreamDict)
		if !ok {
			continue
		}
		if subtype, found := sd.Find("Subtype"); found {
			if name, isName := subtype.(types.Name); isName && name == "Image" {
				return true
			}
		}
	}
	return false
}

// ExtractPDFPages returns the text layer of every page, in page order.
// Pages whose text cannot be decoded come back empty rather than failing the
// whole document.
func ExtractPDFPages(data []byte) ([]string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	count := reader.NumPage()
	if count == 0 {
		return nil, ErrNoPages
	}
	pages := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		pages = append(pages, pageText(reader, i))
	}
	return pages, nil
}

// pageText recovers from panics raised by malformed content streams.
func pageText(reader *pdf.Reader, n int) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	page := reader.Page(n)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
