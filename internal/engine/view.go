package engine

import (
	"fmt"
	"sort"
	"strings"
)

// FilterState holds the user-controlled filter inputs. An empty field means
// no constraint.
type FilterState struct {
	Search       string `json:"search"`
	Manufacturer string `json:"manufacturer"`
	Platform     string `json:"platform"`
	Cores        string `json:"cores"`
}

// IsZero reports whether no filter is active.
func (f FilterState) IsZero() bool { return f == FilterState{} }

// Direction is the sort order of the active column.
type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc"/"ascending" and "desc"/"descending". Empty
// input is ascending.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("invalid sort direction %q", s)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// SortState names the active sort column. An empty Column keeps load order.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// Active reports whether a column is sorted.
func (s SortState) Active() bool { return s.Column != "" }

// Toggle returns the state after a header click on column: the same column
// flips direction, any other column starts ascending.
func (s SortState) Toggle(column string) SortState {
	if s.Column == column {
		if s.Direction == Ascending {
			return SortState{Column: column, Direction: Descending}
		}
		return SortState{Column: column, Direction: Ascending}
	}
	return SortState{Column: column, Direction: Ascending}
}

// View is the filtered and ordered subsequence of a dataset. It references
// dataset records by index and never copies them.
type View struct {
	dataset *Dataset
	indices []int
}

func (v View) Len() int { return len(v.indices) }

// At returns the i-th record of the view.
func (v View) At(i int) Record { return v.dataset.Records[v.indices[i]] }

// Index returns the dataset position of the i-th record of the view.
func (v View) Index(i int) int { return v.indices[i] }

// Indices returns a copy of the dataset positions in view order.
func (v View) Indices() []int {
	out := make([]int, len(v.indices))
	copy(out, v.indices)
	return out
}

// Records returns the view's records in order.
func (v View) Records() []Record {
	out := make([]Record, len(v.indices))
	for i, idx := range v.indices {
		out[i] = v.dataset.Records[idx]
	}
	return out
}

// Schema returns the schema of the underlying dataset, empty when nothing
// is loaded.
func (v View) Schema() Schema {
	if v.dataset == nil {
		return Schema{}
	}
	return v.dataset.Schema
}

// Bindings returns the role bindings of the underlying dataset.
func (v View) Bindings() Bindings {
	if v.dataset == nil {
		return DefaultBindings()
	}
	return v.dataset.Bindings
}

// Compute filters ds by f and orders the result by s. It depends on nothing
// but its arguments. A nil dataset yields an empty view.
func Compute(ds *Dataset, f FilterState, s SortState) View {
	if ds == nil {
		return View{}
	}

	b := ds.Bindings
	search := strings.ToLower(f.Search)
	indices := make([]int, 0, len(ds.Records))
	for i, r := range ds.Records {
		if search != "" && !strings.Contains(strings.ToLower(r.Value(b.Search).String()), search) {
			continue
		}
		if f.Manufacturer != "" && !StrictEqual(r.Value(b.Manufacturer), f.Manufacturer) {
			continue
		}
		if f.Platform != "" && !StrictEqual(r.Value(b.Platform), f.Platform) {
			continue
		}
		if f.Cores != "" && !LooseEqual(r.Value(b.Cores), f.Cores) {
			continue
		}
		indices = append(indices, i)
	}

	if s.Active() {
		column := s.Column
		if c, ok := ds.Schema.Lookup(column); ok {
			column = c.Name
		}
		sort.SliceStable(indices, func(i, j int) bool {
			cmp := Compare(ds.Records[indices[i]].Value(column), ds.Records[indices[j]].Value(column))
			if s.Direction == Descending {
				cmp = -cmp
			}
			return cmp < 0
		})
	}

	return View{dataset: ds, indices: indices}
}
