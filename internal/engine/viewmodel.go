package engine

import (
	"fmt"
)

// Snapshot is what listeners receive after every recomputation.
type Snapshot struct {
	View   View
	Filter FilterState
	Sort   SortState
}

// ViewModel owns the dataset and the current filter and sort state of one
// table. It is not safe for concurrent use; the host owns it.
type ViewModel struct {
	bindings  Bindings
	dataset   *Dataset
	filter    FilterState
	sort      SortState
	view      View
	listeners []func(Snapshot)
}

// NewViewModel returns an empty view model. Until LoadDataset succeeds every
// mutation is a no-op and the view is empty.
func NewViewModel(b Bindings) *ViewModel {
	return &ViewModel{bindings: b.withDefaults()}
}

// FromDataset wraps an already validated dataset, e.g. one shared between
// requests.
func FromDataset(ds *Dataset) *ViewModel {
	m := &ViewModel{bindings: ds.Bindings, dataset: ds}
	m.view = Compute(ds, m.filter, m.sort)
	return m
}

// OnChange registers fn to run after every recomputation.
func (m *ViewModel) OnChange(fn func(Snapshot)) {
	m.listeners = append(m.listeners, fn)
}

// LoadDataset replaces the dataset, clears filter and sort state and
// recomputes the view.
func (m *ViewModel) LoadDataset(records []Record) error {
	ds, err := NewDataset(records, m.bindings)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	m.dataset = ds
	m.filter = FilterState{}
	m.sort = SortState{}
	m.refresh()
	return nil
}

// Loaded reports whether a dataset is present.
func (m *ViewModel) Loaded() bool { return m.dataset != nil }

func (m *ViewModel) Dataset() *Dataset   { return m.dataset }
func (m *ViewModel) Filter() FilterState { return m.filter }
func (m *ViewModel) Sort() SortState     { return m.sort }
func (m *ViewModel) View() View          { return m.view }

// Facets returns the filter option lists of the loaded dataset.
func (m *ViewModel) Facets() Facets {
	if m.dataset == nil {
		return Facets{}
	}
	return m.dataset.Facets
}

func (m *ViewModel) SetSearchText(text string) {
	m.setFilter(func(f *FilterState) { f.Search = text })
}

func (m *ViewModel) SetManufacturerFilter(value string) {
	m.setFilter(func(f *FilterState) { f.Manufacturer = value })
}

func (m *ViewModel) SetPlatformFilter(value string) {
	m.setFilter(func(f *FilterState) { f.Platform = value })
}

func (m *ViewModel) SetCoreCountFilter(value string) {
	m.setFilter(func(f *FilterState) { f.Cores = value })
}

func (m *ViewModel) setFilter(apply func(*FilterState)) {
	if m.dataset == nil {
		return
	}
	apply(&m.filter)
	m.refresh()
}

// ToggleSort applies a header click. The column may be named by field name
// or by its ID.
func (m *ViewModel) ToggleSort(column string) error {
	if m.dataset == nil {
		return nil
	}
	c, ok := m.dataset.Schema.Lookup(column)
	if !ok {
		return fmt.Errorf("sort by %q: %w", column, ErrUnknownColumn)
	}
	m.sort = m.sort.Toggle(c.Name)
	m.refresh()
	return nil
}

// ResetAll clears every filter and the sort.
func (m *ViewModel) ResetAll() {
	if m.dataset == nil {
		return
	}
	m.filter = FilterState{}
	m.sort = SortState{}
	m.refresh()
}

// Restore sets filter and sort state in one step, as when a host rebuilds
// the model from a request. The sort column must exist.
func (m *ViewModel) Restore(f FilterState, s SortState) error {
	if m.dataset == nil {
		return nil
	}
	if s.Active() {
		c, ok := m.dataset.Schema.Lookup(s.Column)
		if !ok {
			return fmt.Errorf("sort by %q: %w", s.Column, ErrUnknownColumn)
		}
		s.Column = c.Name
	}
	m.filter = f
	m.sort = s
	m.refresh()
	return nil
}

// ComputeView recomputes the view from the current state without
// notifying listeners.
func (m *ViewModel) ComputeView() View {
	return Compute(m.dataset, m.filter, m.sort)
}

func (m *ViewModel) refresh() {
	m.view = m.ComputeView()
	snap := Snapshot{View: m.view, Filter: m.filter, Sort: m.sort}
	for _, fn := range m.listeners {
		fn(snap)
	}
}
