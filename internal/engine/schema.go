package engine

import (
	"fmt"
	"strings"
)

// ColumnKind is the value kind a column holds across the whole dataset.
type ColumnKind uint8

const (
	ColumnText ColumnKind = iota
	ColumnNumeric
)

func (k ColumnKind) String() string {
	if k == ColumnNumeric {
		return "numeric"
	}
	return "text"
}

// Column describes one field of the dataset.
type Column struct {
	Name string
	ID   string // slug used for styling hooks and header identifiers
	Kind ColumnKind
}

// Schema is the ordered column list shared by every record of a dataset.
type Schema struct {
	Columns []Column
	index   map[string]int
}

// DeriveSchema takes column order from the first record and validates the
// rest against it. A column is numeric when every non-null value is a number
// or text that reads as one.
func DeriveSchema(records []Record) (Schema, error) {
	if len(records) == 0 {
		return Schema{index: map[string]int{}}, nil
	}

	names := records[0].Names()
	s := Schema{
		Columns: make([]Column, len(names)),
		index:   make(map[string]int, len(names)*2),
	}
	numeric := make([]bool, len(names))
	for i, name := range names {
		s.Columns[i] = Column{Name: name, ID: Slug(name)}
		s.index[name] = i
		numeric[i] = true
	}

	for ri, r := range records {
		if r.Len() != len(names) {
			return Schema{}, raggedError(ri, r, s)
		}
		for _, f := range r.fields {
			ci, ok := s.index[f.Name]
			if !ok {
				return Schema{}, fmt.Errorf("record %d: unexpected field %q: %w", ri, f.Name, ErrRaggedRecord)
			}
			if f.Value.kind == KindText {
				if _, ok := cellNumber(f.Value.text); !ok {
					numeric[ci] = false
				}
			}
		}
	}

	for i := range s.Columns {
		if numeric[i] {
			s.Columns[i].Kind = ColumnNumeric
		}
		// IDs resolve too, but never shadow a real column name.
		if _, taken := s.index[s.Columns[i].ID]; !taken {
			s.index[s.Columns[i].ID] = i
		}
	}
	return s, nil
}

func raggedError(ri int, r Record, s Schema) error {
	for _, c := range s.Columns {
		if _, ok := r.Get(c.Name); !ok {
			return fmt.Errorf("record %d: missing field %q: %w", ri, c.Name, ErrRaggedRecord)
		}
	}
	for _, name := range r.Names() {
		if _, ok := s.index[name]; !ok {
			return fmt.Errorf("record %d: unexpected field %q: %w", ri, name, ErrRaggedRecord)
		}
	}
	return fmt.Errorf("record %d: %d fields, want %d: %w", ri, r.Len(), len(s.Columns), ErrRaggedRecord)
}

// Lookup resolves a column by name, or by its ID.
func (s Schema) Lookup(nameOrID string) (Column, bool) {
	i, ok := s.index[nameOrID]
	if !ok {
		return Column{}, false
	}
	return s.Columns[i], true
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Slug lower-cases name and collapses every run of characters outside
// [a-z0-9] into a single "-", trimming separators at both ends.
func Slug(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}
