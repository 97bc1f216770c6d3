// Package schema locates the id and amount columns of a loosely formatted
// table. Registry exports put their header either on the first row or below
// a fixed report preamble, and name columns with one of several synonyms.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ErrSchemaNotFound is matched by *NotFoundError.
var ErrSchemaNotFound = errors.New("required columns not found")

// NotFoundError reports that no header row contained both required columns.
type NotFoundError struct {
	// Available lists every distinct column name seen across all attempted
	// header rows, in first-seen order.
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return ErrSchemaNotFound.Error() + "; available columns: none"
	}
	return fmt.Sprintf("%s; available columns: %s", ErrSchemaNotFound, strings.Join(e.Available, ", "))
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrSchemaNotFound
}

// Resolution is the validated column mapping for a table.
type Resolution struct {
	HeaderRow   int // zero-based row index of the header
	IDIndex     int
	AmountIndex int
	IDName      string
	AmountName  string
	Header      []string
}

// Resolve tries each header row offset in order and returns the first one
// whose header has both an id column and an amount column. Names are
// matched exactly after trimming surrounding whitespace; within each list
// the earlier name wins. Skipped and rejected offsets are logged at debug
// level.
func Resolve(rows [][]string, offsets []int, idNames, amountNames []string, log zerolog.Logger) (Resolution, error) {
	var seen []string
	seenSet := make(map[string]bool)

	for _, off := range offsets {
		if off < 0 || off >= len(rows) {
			log.Debug().Int("header_row", off).Int("rows", len(rows)).Msg("header row beyond table, skipped")
			continue
		}
		header := trimAll(rows[off])
		for _, name := range header {
			if name != "" && !seenSet[name] {
				seenSet[name] = true
				seen = append(seen, name)
			}
		}

		idName, idIdx := first(header, idNames)
		amountName, amountIdx := first(header, amountNames)
		if idIdx < 0 || amountIdx < 0 {
			log.Debug().
				Int("header_row", off).
				Strs("columns", header).
				Bool("id_found", idIdx >= 0).
				Bool("amount_found", amountIdx >= 0).
				Msg("header row rejected")
			continue
		}
		return Resolution{
			HeaderRow:   off,
			IDIndex:     idIdx,
			AmountIndex: amountIdx,
			IDName:      idName,
			AmountName:  amountName,
			Header:      header,
		}, nil
	}

	return Resolution{}, &NotFoundError{Available: seen}
}

// Rows returns the data rows that follow the resolved header.
func Rows(rows [][]string, res Resolution) [][]string {
	if res.HeaderRow+1 >= len(rows) {
		return nil
	}
	return rows[res.HeaderRow+1:]
}

// Lookup returns the index of the column called name in header, or -1.
func Lookup(header []string, name string) int {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

// Cell returns row[i], or "" when the row is shorter than i+1.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func first(header []string, names []string) (string, int) {
	for _, name := range names {
		if i := Lookup(header, name); i >= 0 {
			return name, i
		}
	}
	return "", -1
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}
	return out
}
