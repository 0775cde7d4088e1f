// Package table reads and writes the CSV datasets exchanged between pipeline
// stages. Rows are keyed by header name; cells are trimmed strings and the
// typed accessors treat blanks and malformed numbers as absent.
package table

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/amjd/pkg/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one record keyed by column name.
type Row map[string]string

// Table is a parsed CSV file.
type Table struct {
	Path   string
	Header []string
	Rows   []Row
}

// Column is a required column given as one name or a group of aliases,
// satisfied when any alias is present.
type Column []string

// Col builds a Column from its aliases.
func Col(aliases ...string) Column {
	return Column(aliases)
}

// String renders the alias group as "a|b|c".
func (c Column) String() string {
	return strings.Join(c, "|")
}

// Read parses a CSV file. A missing file yields *errors.SourceMissingError.
// A UTF-8 byte-order mark is stripped.
func Read(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // paths come from configuration
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &errors.SourceMissingError{Path: path}
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	t, err := Parse(f)
	if err != nil {
		return nil, errors.WrapParse("csv", path, err)
	}
	t.Path = path
	return t, nil
}

// Parse reads CSV from r. The first record is the header.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := &Table{Header: header}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			} else {
				row[name] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Has reports whether the header contains the column.
func (t *Table) Has(name string) bool {
	for _, h := range t.Header {
		if h == name {
			return true
		}
	}
	return false
}

// Require checks that every column group has at least one alias in the
// header. source names the dataset in the returned *errors.MissingColumnsError.
func (t *Table) Require(source string, cols ...Column) error {
	var missing []string
	for _, c := range cols {
		found := false
		for _, alias := range c {
			if t.Has(alias) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, c.String())
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &errors.MissingColumnsError{
		Source:  source,
		Path:    t.Path,
		Missing: missing,
		Found:   append([]string(nil), t.Header...),
	}
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Get returns the trimmed cell, or "" when the column is absent.
func (r Row) Get(col string) string {
	return r[col]
}

// First returns the first non-blank value among the aliases.
func (r Row) First(aliases ...string) string {
	for _, a := range aliases {
		if v := r[a]; v != "" {
			return v
		}
	}
	return ""
}

// String returns the cell as an optional string; blank is nil.
func (r Row) String(aliases ...string) *string {
	v := r.First(aliases...)
	if v == "" {
		return nil
	}
	return &v
}

// Float parses the first non-blank alias. Blank, malformed and NaN values are nil.
func (r Row) Float(aliases ...string) *float64 {
	return ParseFloat(r.First(aliases...))
}

// Int parses an integer the way the upstream sheets store them: "12", "12.0"
// and " 12 " are all 12. Malformed and fractional values ("12.7") are nil.
func (r Row) Int(aliases ...string) *int {
	f := ParseFloat(r.First(aliases...))
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil
	}
	n := int(*f)
	return &n
}

// Bool parses true/1/yes/y/t and false/0/no/n/f, case-insensitively.
// Anything else is nil.
func (r Row) Bool(aliases ...string) *bool {
	return ParseBool(r.First(aliases...))
}

// ParseFloat parses s, returning nil for blank, malformed or NaN input.
func ParseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return nil
	}
	return &f
}

// ParseBool parses the truthy and falsy spellings used in the datasets.
func ParseBool(s string) *bool {
	var v bool
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "t":
		v = true
	case "false", "0", "no", "n", "f":
		v = false
	default:
		return nil
	}
	return &v
}

// Extras returns header columns not in known, preserving header order.
func (t *Table) Extras(known ...string) []string {
	skip := make(map[string]bool, len(known))
	for _, k := range known {
		skip[k] = true
	}
	var out []string
	for _, h := range t.Header {
		if !skip[h] {
			out = append(out, h)
		}
	}
	return out
}

// Append adds another table's rows, widening the header as needed.
func (t *Table) Append(other *Table) {
	for _, h := range other.Header {
		if !t.Has(h) {
			t.Header = append(t.Header, h)
		}
	}
	t.Rows = append(t.Rows, other.Rows...)
}

// sortedPaths returns paths in lexical order.
func sortedPaths(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}
