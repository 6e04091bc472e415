package render

import (
	"fmt"
	"io"
	"net/url"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"cputable/internal/engine"
	"cputable/internal/models"
)

// Query parameter names shared by the page links and the web host.
const (
	ParamSearch       = "q"
	ParamManufacturer = "manufacturer"
	ParamPlatform     = "platform"
	ParamCores        = "cores"
	ParamSort         = "sort"
	ParamDir          = "dir"
)

// Query encodes state as URL query parameters, omitting empty values.
func Query(f engine.FilterState, s engine.SortState) url.Values {
	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set(ParamSearch, f.Search)
	set(ParamManufacturer, f.Manufacturer)
	set(ParamPlatform, f.Platform)
	set(ParamCores, f.Cores)
	if s.Active() {
		q.Set(ParamSort, s.Column)
		q.Set(ParamDir, s.Direction.String())
	}
	return q
}

// ParseQuery decodes parameters written by Query.
func ParseQuery(q url.Values) (engine.FilterState, engine.SortState, error) {
	return ParseState(models.State{
		Search:       q.Get(ParamSearch),
		Manufacturer: q.Get(ParamManufacturer),
		Platform:     q.Get(ParamPlatform),
		Cores:        q.Get(ParamCores),
		SortColumn:   q.Get(ParamSort),
		SortDir:      q.Get(ParamDir),
	})
}

// PageData is everything the full page shows.
type PageData struct {
	Title   string
	Filter  engine.FilterState
	Sort    engine.SortState
	Options models.Options
	Table   models.Table
	Total   int
	Matches int
}

// NewPageData collects the page contents for m's current state.
func NewPageData(m *engine.ViewModel, opts Options) PageData {
	opts = opts.withDefaults()
	view := m.View()
	return PageData{
		Title:   opts.Title,
		Filter:  m.Filter(),
		Sort:    m.Sort(),
		Options: FilterOptions(m.Facets(), opts),
		Table:   Table(view, m.Sort(), opts),
		Total:   m.Dataset().Len(),
		Matches: view.Len(),
	}
}

const pageStyle = `body{font-family:sans-serif;margin:2em}
#cpuTable{border-collapse:collapse;width:100%}
#cpuTable th,#cpuTable td{border:1px solid #ccc;padding:4px 8px;text-align:left}
#cpuTable th a{color:inherit;text-decoration:none}
.sorted-asc a::after{content:" \25B2"}
.sorted-desc a::after{content:" \25BC"}
.controls{display:flex;gap:1em;margin-bottom:1em;align-items:center}`

// Page builds a complete HTML document for d. Header cells link to the
// toggled sort state and the reset link drops every parameter.
func Page(d PageData) *html.Node {
	link := func(column string) string {
		return "?" + Query(d.Filter, d.Sort.Toggle(column)).Encode()
	}

	form := element(atom.Form, []string{"method", "get", "class", "controls"},
		element(atom.Input, []string{
			"type", "search",
			"id", "searchInput",
			"name", ParamSearch,
			"value", d.Filter.Search,
			"placeholder", "Search by model",
		}),
		selectNode("manufacturerFilter", ParamManufacturer, "All manufacturers", d.Options.Manufacturers, d.Filter.Manufacturer),
		selectNode("platformFilter", ParamPlatform, "All platforms", d.Options.Platforms, d.Filter.Platform),
		selectNode("coresFilter", ParamCores, "Any core count", d.Options.CoreCounts, d.Filter.Cores),
		sortInputs(d.Sort),
		element(atom.Button, []string{"type", "submit"}, text("Apply")),
		element(atom.A, []string{"id", "resetFilters", "href", "?"}, text("Reset")),
	)

	body := element(atom.Body, nil,
		element(atom.H1, nil, text(d.Title)),
		form,
		element(atom.P, []string{"class", "summary"}, text(fmt.Sprintf("%d of %d processors", d.Matches, d.Total))),
		TableNode(d.Table, link),
	)
	head := element(atom.Head, nil,
		element(atom.Meta, []string{"charset", "utf-8"}),
		element(atom.Title, nil, text(d.Title)),
		element(atom.Style, nil, text(pageStyle)),
	)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(element(atom.Html, nil, head, body))
	return doc
}

// sortInputs keeps the active sort when the filter form is submitted.
func sortInputs(s engine.SortState) *html.Node {
	if !s.Active() {
		return nil
	}
	span := element(atom.Span, nil)
	span.AppendChild(element(atom.Input, []string{"type", "hidden", "name", ParamSort, "value", s.Column}))
	span.AppendChild(element(atom.Input, []string{"type", "hidden", "name", ParamDir, "value", s.Direction.String()}))
	return span
}

func selectNode(id, name, anyLabel string, opts []models.Option, selected string) *html.Node {
	sel := element(atom.Select, []string{"id", id, "name", name, "onchange", "this.form.submit()"})
	sel.AppendChild(element(atom.Option, []string{"value", ""}, text(anyLabel)))
	for _, o := range opts {
		attrs := []string{"value", o.Value}
		if o.Value == selected {
			attrs = append(attrs, "selected", "selected")
		}
		sel.AppendChild(element(atom.Option, attrs, text(o.Label)))
	}
	return sel
}

// WritePage renders the full document for d.
func WritePage(w io.Writer, d PageData) error {
	return html.Render(w, Page(d))
}
