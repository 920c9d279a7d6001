// Package delimited is the CSV-like format collaborator: one physical
// line is one logical record, split on a configured separator rune via
// encoding/csv so quoted fields containing the separator still parse
// correctly. A fresh csv.Reader runs over each line's text so the raw
// line stays available for diagnostics alongside the parsed tokens.
package delimited

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/tommysiu/beanio/formats"
)

// Reader reads delimiter-separated records, one physical line at a
// time, generalising DelimitedRecordReader.Read into a streaming
// Reader.
type Reader struct {
	scanner *bufio.Scanner
	comma   rune
	line    int
}

// NewReader builds a Reader over r using comma as the field separator.
func NewReader(r io.Reader, comma rune) *Reader {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanLines)
	return &Reader{scanner: s, comma: comma}
}

func (dr *Reader) Line() int { return dr.line }

// Read returns the next record's tokens and its raw source line.
func (dr *Reader) Read() ([]string, string, error) {
	if !dr.scanner.Scan() {
		if err := dr.scanner.Err(); err != nil {
			return nil, "", err
		}
		return nil, "", formats.ErrEOF
	}
	dr.line++
	raw := dr.scanner.Text()

	csvr := csv.NewReader(strings.NewReader(raw))
	csvr.Comma = dr.comma
	csvr.FieldsPerRecord = -1
	tokens, err := csvr.Read()
	if err != nil {
		return nil, raw, formats.NewMalformedLineError(dr.line, raw, err)
	}
	return tokens, raw, nil
}

// Writer writes delimiter-separated records using encoding/csv.
type Writer struct {
	csvw *csv.Writer
}

// NewWriter builds a Writer over w using comma as the field separator.
func NewWriter(w io.Writer, comma rune) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = comma
	return &Writer{csvw: cw}
}

func (dw *Writer) Write(tokens []string) error {
	return dw.csvw.Write(tokens)
}

func (dw *Writer) Flush() error {
	dw.csvw.Flush()
	return dw.csvw.Error()
}
