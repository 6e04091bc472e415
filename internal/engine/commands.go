package engine

import (
	"fmt"
	"strings"
)

// FilterField selects one of the discrete filters.
type FilterField uint8

const (
	FilterManufacturer FilterField = iota
	FilterPlatform
	FilterCores
)

func (f FilterField) String() string {
	switch f {
	case FilterManufacturer:
		return "manufacturer"
	case FilterPlatform:
		return "platform"
	case FilterCores:
		return "cores"
	}
	return fmt.Sprintf("FilterField(%d)", uint8(f))
}

// ParseFilterField maps "manufacturer", "platform" and "cores" to their
// FilterField.
func ParseFilterField(s string) (FilterField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manufacturer":
		return FilterManufacturer, nil
	case "platform":
		return FilterPlatform, nil
	case "cores", "core_count", "corecount":
		return FilterCores, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownFilter)
}

// Command is one UI event, applied to a ViewModel with Dispatch.
type Command interface {
	apply(m *ViewModel) error
}

// SetSearch replaces the search text.
type SetSearch struct{ Text string }

// SetFilter replaces one discrete filter value. Empty clears it.
type SetFilter struct {
	Field FilterField
	Value string
}

// ToggleSort is a header click on Column.
type ToggleSort struct{ Column string }

// Reset clears every filter and the sort.
type Reset struct{}

func (c SetSearch) apply(m *ViewModel) error {
	m.SetSearchText(c.Text)
	return nil
}

func (c SetFilter) apply(m *ViewModel) error {
	switch c.Field {
	case FilterManufacturer:
		m.SetManufacturerFilter(c.Value)
	case FilterPlatform:
		m.SetPlatformFilter(c.Value)
	case FilterCores:
		m.SetCoreCountFilter(c.Value)
	default:
		return fmt.Errorf("%s: %w", c.Field, ErrUnknownFilter)
	}
	return nil
}

func (c ToggleSort) apply(m *ViewModel) error { return m.ToggleSort(c.Column) }

func (c Reset) apply(m *ViewModel) error {
	m.ResetAll()
	return nil
}

// Dispatch applies cmd to the model.
func (m *ViewModel) Dispatch(cmd Command) error {
	return cmd.apply(m)
}

// DispatchAll applies cmds in order and stops at the first error.
func (m *ViewModel) DispatchAll(cmds ...Command) error {
	for i, cmd := range cmds {
		if err := m.Dispatch(cmd); err != nil {
			return fmt.Errorf("command %d: %w", i, err)
		}
	}
	return nil
}
