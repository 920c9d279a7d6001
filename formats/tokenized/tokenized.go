// Package tokenized is a generic token-delimited format collaborator: a
// plain strings.Split/Join separator format for inputs that are
// delimited but not CSV-quoted.
package tokenized

import (
	"bufio"
	"io"
	"strings"

	"github.com/tommysiu/beanio/formats"
)

// Reader reads separator-delimited records via strings.Split, one
// physical line per record.
type Reader struct {
	scanner   *bufio.Scanner
	separator string
	line      int
}

// NewReader builds a Reader over r using separator as the field
// delimiter.
func NewReader(r io.Reader, separator string) *Reader {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanLines)
	return &Reader{scanner: s, separator: separator}
}

func (tr *Reader) Line() int { return tr.line }

func (tr *Reader) Read() ([]string, string, error) {
	if !tr.scanner.Scan() {
		if err := tr.scanner.Err(); err != nil {
			return nil, "", err
		}
		return nil, "", formats.ErrEOF
	}
	tr.line++
	raw := tr.scanner.Text()
	return strings.Split(raw, tr.separator), raw, nil
}

// Writer writes separator-delimited records via strings.Join.
type Writer struct {
	separator string
	w         *bufio.Writer
}

// NewWriter builds a Writer over w using separator as the field
// delimiter.
func NewWriter(w io.Writer, separator string) *Writer {
	return &Writer{separator: separator, w: bufio.NewWriter(w)}
}

func (tw *Writer) Write(tokens []string) error {
	_, err := tw.w.WriteString(strings.Join(tokens, tw.separator) + "\n")
	return err
}

func (tw *Writer) Flush() error { return tw.w.Flush() }
