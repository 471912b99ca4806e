package extract

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	rpdf "rsc.io/pdf"
)

// DocumentData is the structured field set pulled from one convocatoria
// document. Absent dates stay nil; absent strings stay empty.
type DocumentData struct {
	OpensOn           *time.Time
	ClosesOn          *time.Time
	Amount            string
	KeyRequirements   string
	RequiredDocuments string
}

// PDFText extracts plain text from PDF bytes. The parser panics on some
// malformed files, so failures of any shape are folded into the error
// return.
func PDFText(content []byte) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, fragment := range page.Content().Text {
			builder.WriteString(fragment.S)
			builder.WriteString(" ")
		}
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// FromPDF runs the full field extraction over a PDF document.
func FromPDF(content []byte) (DocumentData, error) {
	text, err := PDFText(content)
	if err != nil {
		return DocumentData{}, err
	}
	return FromText(text), nil
}

// FromText runs every extractor over a block of text.
func FromText(text string) DocumentData {
	var data DocumentData
	if t, ok := FindOpeningDate(text); ok {
		data.OpensOn = &t
	}
	if t, ok := FindDeadline(text); ok {
		data.ClosesOn = &t
	}
	data.Amount = Amount(text)
	data.KeyRequirements = Requirements(text)
	data.RequiredDocuments = Documents(text)
	return data
}
