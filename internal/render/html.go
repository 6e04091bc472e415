package render

import (
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"cputable/internal/models"
)

// element builds an element node. attrs are key/value pairs; children that
// are nil are skipped.
func element(a atom.Atom, attrs []string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// HeaderLink returns the href a header cell links to, or "" for a plain
// header.
type HeaderLink func(column string) string

// TableNode builds the <table> element for t. When link is non-nil each
// header's text is wrapped in an anchor pointing at link(column).
func TableNode(t models.Table, link HeaderLink) *html.Node {
	thead := element(atom.Thead, nil)
	tbody := element(atom.Tbody, nil)
	table := element(atom.Table, []string{"id", "cpuTable"}, thead, tbody)

	if t.Placeholder != nil {
		tbody.AppendChild(element(atom.Tr, nil,
			element(atom.Td, []string{"colspan", strconv.Itoa(t.Placeholder.ColSpan)}, text(t.Placeholder.Message)),
		))
		return table
	}

	head := element(atom.Tr, nil)
	for _, c := range t.Columns {
		class := []string{"header-" + c.ID, "sortable"}
		if c.Sorted != "" {
			class = append(class, "sorted-"+c.Sorted)
		}
		label := text(c.Name)
		if link != nil {
			if href := link(c.Name); href != "" {
				label = element(atom.A, []string{"href", href}, label)
			}
		}
		head.AppendChild(element(atom.Th, []string{
			"class", strings.Join(class, " "),
			"data-column", c.Name,
		}, label))
	}
	thead.AppendChild(head)

	for _, r := range t.Rows {
		tr := element(atom.Tr, []string{
			"class", "cpu-row",
			"data-manufacturer", r.Manufacturer,
			"data-model", r.Model,
		})
		for _, cell := range r.Cells {
			attrs := []string{"class", "cpu-data cpu-" + cell.Column}
			if cell.Manufacturer {
				attrs = append(attrs, "data-manufacturer", cell.Text)
			}
			tr.AppendChild(element(atom.Td, attrs, text(cell.Text)))
		}
		tbody.AppendChild(tr)
	}
	return table
}

// WriteTable renders t as an HTML fragment.
func WriteTable(w io.Writer, t models.Table, link HeaderLink) error {
	return html.Render(w, TableNode(t, link))
}
