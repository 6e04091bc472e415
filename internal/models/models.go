package models

// Table is the declarative description of a rendered table. Hosts apply it
// to their own UI toolkit.
type Table struct {
	Columns     []HeaderCell `json:"columns"`
	Rows        []Row        `json:"rows"`
	Placeholder *Placeholder `json:"placeholder,omitempty"`
}

// HeaderCell is one column header.
type HeaderCell struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Sorted string `json:"sorted,omitempty"` // "asc", "desc" or empty
}

// Row is one body row. Index is the record's position in the dataset.
type Row struct {
	Index        int    `json:"index"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Cells        []Cell `json:"cells"`
}

type Cell struct {
	Column       string `json:"column"`
	Text         string `json:"text"`
	Manufacturer bool   `json:"manufacturer,omitempty"` // cell of the manufacturer column
}

// Placeholder replaces the whole table when nothing matches.
type Placeholder struct {
	Message string `json:"message"`
	ColSpan int    `json:"colspan"`
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Options struct {
	Manufacturers []Option `json:"manufacturers"`
	Platforms     []Option `json:"platforms"`
	CoreCounts    []Option `json:"core_counts"`
}

// State mirrors the filter and sort inputs on the wire.
type State struct {
	Search       string `json:"search"`
	Manufacturer string `json:"manufacturer"`
	Platform     string `json:"platform"`
	Cores        string `json:"cores"`
	SortColumn   string `json:"sort_column,omitempty"`
	SortDir      string `json:"sort_dir,omitempty"`
}

// Command is the wire form of one UI event.
type Command struct {
	Type   string `json:"type"` // set_search, set_filter, toggle_sort, reset
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Column string `json:"column,omitempty"`
}

type ViewRequest struct {
	State    State     `json:"state"`
	Commands []Command `json:"commands"`
}

type ViewResponse struct {
	State   State   `json:"state"`
	Total   int     `json:"total"`
	Matches int     `json:"matches"`
	Options Options `json:"options"`
	Table   Table   `json:"table"`
}
