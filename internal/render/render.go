// Package render turns a computed view into a declarative table description
// and from there into HTML. Every function here is pure.
package render

import (
	"fmt"
	"strings"

	"cputable/internal/engine"
	"cputable/internal/models"
)

// DefaultEmptyMessage is shown in place of the table when no record matches.
const DefaultEmptyMessage = "No processors found."

// Options carry the presentation strings.
type Options struct {
	EmptyMessage string
	// CoresLabel formats a core-count option label; %s is the count.
	CoresLabel string
	Title      string
}

func DefaultOptions() Options {
	return Options{
		EmptyMessage: DefaultEmptyMessage,
		CoresLabel:   "%s cores",
		Title:        "Processors",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.EmptyMessage == "" {
		o.EmptyMessage = d.EmptyMessage
	}
	if o.CoresLabel == "" {
		o.CoresLabel = d.CoresLabel
	}
	if o.Title == "" {
		o.Title = d.Title
	}
	return o
}

// Table describes view as header and body rows. An empty view renders a
// single placeholder spanning every column and no header.
func Table(view engine.View, sort engine.SortState, opts Options) models.Table {
	opts = opts.withDefaults()
	schema := view.Schema()

	if view.Len() == 0 {
		span := len(schema.Columns)
		if span == 0 {
			span = 1
		}
		return models.Table{
			Columns:     []models.HeaderCell{},
			Rows:        []models.Row{},
			Placeholder: &models.Placeholder{Message: opts.EmptyMessage, ColSpan: span},
		}
	}

	header := make([]models.HeaderCell, len(schema.Columns))
	for i, c := range schema.Columns {
		header[i] = models.HeaderCell{Name: c.Name, ID: c.ID}
		if sort.Active() && sort.Column == c.Name {
			header[i].Sorted = sort.Direction.String()
		}
	}

	b := view.Bindings()
	rows := make([]models.Row, view.Len())
	for i := range rows {
		r := view.At(i)
		cells := make([]models.Cell, len(schema.Columns))
		for j, c := range schema.Columns {
			cells[j] = models.Cell{
				Column:       c.ID,
				Text:         r.Value(c.Name).String(),
				Manufacturer: c.Name == b.Manufacturer,
			}
		}
		rows[i] = models.Row{
			Index:        view.Index(i),
			Manufacturer: r.Value(b.Manufacturer).String(),
			Model:        r.Value(b.Search).String(),
			Cells:        cells,
		}
	}

	return models.Table{Columns: header, Rows: rows}
}

// FilterOptions converts dataset facets into drop-down entries.
func FilterOptions(f engine.Facets, opts Options) models.Options {
	opts = opts.withDefaults()
	return models.Options{
		Manufacturers: convert(f.Manufacturers, "%s"),
		Platforms:     convert(f.Platforms, "%s"),
		CoreCounts:    convert(f.CoreCounts, opts.CoresLabel),
	}
}

func convert(in []engine.Option, label string) []models.Option {
	out := make([]models.Option, len(in))
	for i, o := range in {
		out[i] = models.Option{Value: o.Value, Label: formatLabel(label, o.Label)}
	}
	return out
}

func formatLabel(format, value string) string {
	if !strings.Contains(format, "%") {
		return format
	}
	return fmt.Sprintf(format, value)
}

// Response describes the model's current view together with its state and
// filter options.
func Response(m *engine.ViewModel, opts Options) models.ViewResponse {
	view := m.View()
	return models.ViewResponse{
		State:   State(m.Filter(), m.Sort()),
		Total:   m.Dataset().Len(),
		Matches: view.Len(),
		Options: FilterOptions(m.Facets(), opts),
		Table:   Table(view, m.Sort(), opts),
	}
}

// State converts engine state to its wire form.
func State(f engine.FilterState, s engine.SortState) models.State {
	st := models.State{
		Search:       f.Search,
		Manufacturer: f.Manufacturer,
		Platform:     f.Platform,
		Cores:        f.Cores,
	}
	if s.Active() {
		st.SortColumn = s.Column
		st.SortDir = s.Direction.String()
	}
	return st
}

// ParseState is the inverse of State. The sort column is not checked
// against any schema.
func ParseState(st models.State) (engine.FilterState, engine.SortState, error) {
	f := engine.FilterState{
		Search:       st.Search,
		Manufacturer: st.Manufacturer,
		Platform:     st.Platform,
		Cores:        st.Cores,
	}
	dir, err := engine.ParseDirection(st.SortDir)
	if err != nil {
		return f, engine.SortState{}, err
	}
	return f, engine.SortState{Column: st.SortColumn, Direction: dir}, nil
}
