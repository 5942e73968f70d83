package service

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// node is a generic XML element tree. The inbound feeds are hand-written
// and inconsistent about tag and attribute spellings, so handlers navigate
// the tree with alternate-name lookups instead of fixed struct tags.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func parseXML(data []byte) (*node, error) {
	var root node
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func (n *node) is(name string) bool {
	return n.XMLName.Local == name
}

// descendant returns the first descendant element matching any of the
// given names, depth-first, self excluded.
func (n *node) descendant(names ...string) *node {
	for _, name := range names {
		for i := range n.Children {
			child := &n.Children[i]
			if child.is(name) {
				return child
			}
			if found := child.descendant(name); found != nil {
				return found
			}
		}
	}
	return nil
}

// descendants collects every descendant element with the given name.
func (n *node) descendants(name string) []*node {
	var out []*node
	for i := range n.Children {
		child := &n.Children[i]
		if child.is(name) {
			out = append(out, child)
		}
		out = append(out, child.descendants(name)...)
	}
	return out
}

// child returns the first direct child matching any of the given names.
func (n *node) child(names ...string) *node {
	for _, name := range names {
		for i := range n.Children {
			if n.Children[i].is(name) {
				return &n.Children[i]
			}
		}
	}
	return nil
}

// childAll returns the direct children with the given name, in order.
func (n *node) childAll(name string) []*node {
	var out []*node
	for i := range n.Children {
		if n.Children[i].is(name) {
			out = append(out, &n.Children[i])
		}
	}
	return out
}

// attr returns the first present attribute among the given names.
func (n *node) attr(names ...string) (string, bool) {
	for _, name := range names {
		for _, a := range n.Attrs {
			if a.Name.Local == name {
				return a.Value, true
			}
		}
	}
	return "", false
}

// childText returns the trimmed text of the first matching child, or "".
func (n *node) childText(names ...string) string {
	if c := n.child(names...); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

func (n *node) text() string {
	return strings.TrimSpace(n.Text)
}
