package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// delimiters are the sniffing candidates; earlier ones win ties.
var delimiters = []rune{',', ';', '\t', '|'}

// DelimitedReader reads CSV-like text whose delimiter is sniffed from the
// first line.
type DelimitedReader struct{}

// Extensions returns the file extensions handled by the reader.
func (d *DelimitedReader) Extensions() []string { return []string{"csv", "txt"} }

// Read decodes and parses r.
func (d *DelimitedReader) Read(r io.Reader, opts ReadOptions) ([][]string, error) {
	rows, _, err := ReadDelimited(r, opts.Encoding)
	return rows, err
}

// ReadDelimited decodes r from the named encoding, sniffs the delimiter and
// returns all records together with the delimiter used. Records may have
// differing field counts. Blank lines are kept as empty records so that
// record indexes match the line numbers of a report preamble.
func ReadDelimited(r io.Reader, encoding string) ([][]string, rune, error) {
	dec, err := decoder(encoding)
	if err != nil {
		return nil, 0, err
	}

	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s text: %w", encodingName(encoding), err)
	}

	delim, err := sniffData(data)
	if err != nil {
		return nil, 0, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var records [][]string
	next := 1 // line where the next record may start
	newlines := 0
	consumed := int64(0)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("reading delimited text: %w", err)
		}

		start, _ := cr.FieldPos(0)
		for ; next < start; next++ {
			records = append(records, []string{})
		}
		records = append(records, rec)

		off := cr.InputOffset()
		newlines += bytes.Count(data[consumed:off], []byte("\n"))
		consumed = off
		next = newlines + 1
	}
	return records, delim, nil
}

// sniffData runs Sniff on the first line that holds a candidate delimiter,
// skipping title lines above a table.
func sniffData(data []byte) (rune, error) {
	for len(data) > 0 {
		var line []byte
		line, data, _ = bytes.Cut(data, []byte("\n"))
		if d, err := Sniff(string(line)); err == nil {
			return d, nil
		}
	}
	return 0, ErrNoDelimiter
}

// Sniff picks the delimiter that occurs most often outside quotes in line.
func Sniff(line string) (rune, error) {
	counts := make(map[rune]int, len(delimiters))
	inQuotes := false
	for _, c := range line {
		if c == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[c]++
		}
	}

	var best rune
	bestCount := 0
	for _, d := range delimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}
	if bestCount == 0 {
		return 0, ErrNoDelimiter
	}
	return best, nil
}

// decoder returns a transformer that strips a byte order mark and decodes
// the named encoding to UTF-8.
func decoder(name string) (transform.Transformer, error) {
	switch encodingName(name) {
	case "utf8":
		return unicode.BOMOverride(unicode.UTF8.NewDecoder()), nil
	case "windows1251", "cp1251":
		return unicode.BOMOverride(charmap.Windows1251.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("%w: encoding %q", ErrUnsupportedFormat, name)
	}
}

func encodingName(name string) string {
	n := strings.ToLower(name)
	n = strings.NewReplacer("-", "", "_", "").Replace(n)
	if n == "" {
		return "utf8"
	}
	return n
}
