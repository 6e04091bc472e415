// Package tui is a terminal host for the processor table. Key presses are
// forwarded to the view model as commands and the table is rebuilt from its
// change notifications.
package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/labstack/gommon/log"

	"cputable/internal/engine"
	"cputable/internal/models"
	"cputable/internal/render"
)

const maxColumnWidth = 32

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	emptyStyle  = lipgloss.NewStyle().Italic(true).Padding(1, 2)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
)

// Model is the bubbletea model wrapping one view model.
type Model struct {
	vm      *engine.ViewModel
	opts    render.Options
	options models.Options

	search    textinput.Model
	table     table.Model
	header    []models.HeaderCell
	empty     *models.Placeholder
	selected  int
	searching bool
	err       error
}

// New wires a terminal model to vm. vm must already hold a dataset.
func New(vm *engine.ViewModel, opts render.Options) *Model {
	ti := textinput.New()
	ti.Prompt = "Search: "
	ti.Placeholder = "model name"

	m := &Model{
		vm:      vm,
		opts:    opts,
		options: render.FilterOptions(vm.Facets(), opts),
		search:  ti,
		table:   table.New(table.WithFocused(true), table.WithHeight(15)),
	}
	vm.OnChange(m.sync)
	m.sync(engine.Snapshot{View: vm.View(), Filter: vm.Filter(), Sort: vm.Sort()})
	return m
}

// sync rebuilds the table from a fresh view.
func (m *Model) sync(s engine.Snapshot) {
	t := render.Table(s.View, s.Sort, m.opts)
	m.empty = t.Placeholder
	if len(t.Columns) > 0 {
		m.header = t.Columns
	}
	if m.selected >= len(m.header) {
		m.selected = 0
	}

	m.table.SetRows(nil)
	m.table.SetColumns(m.columns(s))
	rows := make([]table.Row, len(t.Rows))
	for i, r := range t.Rows {
		row := make(table.Row, len(r.Cells))
		for j, c := range r.Cells {
			row[j] = c.Text
		}
		rows[i] = row
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
	log.Debugf("tui: %d rows, filter=%+v sort=%s %s", len(rows), s.Filter, s.Sort.Column, s.Sort.Direction)
}

func (m *Model) columns(s engine.Snapshot) []table.Column {
	sort := s.Sort
	cols := make([]table.Column, len(m.header))
	for i, h := range m.header {
		title := h.Name
		if sort.Active() && sort.Column == h.Name {
			if sort.Direction == engine.Descending {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		if i == m.selected {
			title = "[" + title + "]"
		}
		cols[i] = table.Column{Title: title, Width: utf8.RuneCountInString(title)}
	}
	for _, r := range s.View.Records() {
		for i, h := range m.header {
			if w := utf8.RuneCountInString(r.Value(h.Name).String()); w > cols[i].Width {
				cols[i].Width = min(w, maxColumnWidth)
			}
		}
	}
	return cols
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.searching {
		return m.updateSearch(key)
	}

	m.err = nil
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "m":
		m.dispatch(engine.SetFilter{Field: engine.FilterManufacturer, Value: next(m.options.Manufacturers, m.vm.Filter().Manufacturer)})
	case "p":
		m.dispatch(engine.SetFilter{Field: engine.FilterPlatform, Value: next(m.options.Platforms, m.vm.Filter().Platform)})
	case "c":
		m.dispatch(engine.SetFilter{Field: engine.FilterCores, Value: next(m.options.CoreCounts, m.vm.Filter().Cores)})
	case "left", "h":
		m.moveSelection(-1)
	case "right", "l":
		m.moveSelection(1)
	case "s", "enter":
		if len(m.header) > 0 {
			m.dispatch(engine.ToggleSort{Column: m.header[m.selected].Name})
		}
	case "r":
		m.search.SetValue("")
		m.dispatch(engine.Reset{})
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(key)
	if v := m.search.Value(); v != m.vm.Filter().Search {
		m.dispatch(engine.SetSearch{Text: v})
	}
	return m, cmd
}

func (m *Model) dispatch(cmd engine.Command) {
	if err := m.vm.Dispatch(cmd); err != nil {
		log.Warnf("tui: %v", err)
		m.err = err
	}
}

func (m *Model) moveSelection(delta int) {
	if len(m.header) == 0 {
		return
	}
	m.selected = (m.selected + delta + len(m.header)) % len(m.header)
	m.sync(engine.Snapshot{View: m.vm.View(), Filter: m.vm.Filter(), Sort: m.vm.Sort()})
}

// next cycles through "" and every option value.
func next(opts []models.Option, current string) string {
	if current == "" {
		if len(opts) == 0 {
			return ""
		}
		return opts[0].Value
	}
	for i, o := range opts {
		if o.Value == current {
			if i+1 < len(opts) {
				return opts[i+1].Value
			}
			return ""
		}
	}
	return ""
}

func label(opts []models.Option, value string) string {
	if value == "" {
		return "any"
	}
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")

	f := m.vm.Filter()
	b.WriteString(statusStyle.Render(fmt.Sprintf("Manufacturer: %s | Platform: %s | Cores: %s | %d of %d",
		label(m.options.Manufacturers, f.Manufacturer),
		label(m.options.Platforms, f.Platform),
		label(m.options.CoreCounts, f.Cores),
		m.vm.View().Len(), m.vm.Dataset().Len(),
	)))
	b.WriteString("\n")

	if m.empty != nil {
		b.WriteString(emptyStyle.Render(m.empty.Message))
	} else {
		b.WriteString(m.table.View())
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("/ search • m/p/c cycle filters • ←/→ column • s sort • r reset • q quit"))
	return b.String()
}

// Run starts an interactive session on the terminal.
func Run(vm *engine.ViewModel, opts render.Options) error {
	_, err := tea.NewProgram(New(vm, opts), tea.WithAltScreen()).Run()
	return err
}
