package block

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Region is the page area a block decorates. The host owns it and hands it
// to the Decorator as a sink; SetHTML replaces the entire content.
type Region interface {
	HTML() string
	SetHTML(markup string)
}

// Fragment is an in-memory Region backed by a markup string.
type Fragment struct {
	markup string
}

// NewFragment wraps authored block markup.
func NewFragment(markup string) *Fragment {
	return &Fragment{markup: markup}
}

func (f *Fragment) HTML() string { return f.markup }

func (f *Fragment) SetHTML(markup string) { f.markup = markup }

// CityFromMarkup returns the trimmed text of the second <p> element in
// document order. ok is false when there is no such element or it is blank.
func CityFromMarkup(markup string) (city string, ok bool) {
	parent := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
	if err != nil {
		return "", false
	}

	var paragraphs []*html.Node
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.P {
			paragraphs = append(paragraphs, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	if len(paragraphs) < 2 {
		return "", false
	}

	city = strings.TrimSpace(textContent(paragraphs[1]))
	return city, city != ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(n *html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}
