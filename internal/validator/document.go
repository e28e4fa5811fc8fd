// Package validator checks well-formed XML documents against compiled
// schemas. Parsing and validation are separate steps so callers can inspect
// the document tree regardless of its validity.
package validator

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"sort"
	"strings"

	"bankstmt/iso20022/internal/parsererror"
)

// Attr is a non-namespace-declaration attribute on an element.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of the parsed document, with the line and column of
// its start tag. Child order matches document order.
type Node struct {
	Local     string
	Namespace string
	Attrs     []Attr
	Children  []*Node
	Text      string
	Line      int
	Column    int
}

// Attr returns the value of the named attribute, or "" when absent.
func (n *Node) Attr(name string) string {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

// Child returns the first child with the given local name, or nil.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.Local == local {
			return c
		}
	}
	return nil
}

// ChildText returns the trimmed text of the first child with the given
// local name, or "" when absent.
func (n *Node) ChildText(local string) string {
	if c := n.Child(local); c != nil {
		return strings.TrimSpace(c.Text)
	}
	return ""
}

// Document is a parsed XML document. Namespace is the root element's
// namespace URI.
type Document struct {
	Root      *Node
	Namespace string
}

// lineIndex maps byte offsets to line and column numbers.
type lineIndex []int

func newLineIndex(data []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (idx lineIndex) position(offset int64) (line, column int) {
	off := int(offset)
	i := sort.Search(len(idx), func(i int) bool { return idx[i] > off }) - 1
	return i + 1, off - idx[i] + 1
}

// ParseDocument parses raw bytes into a position-annotated element tree.
// Input that is not well-formed XML yields MalformedXMLError.
func ParseDocument(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	index := newLineIndex(data)

	var root *Node
	var stack []*Node
	for {
		// Offset before the token is where its text begins; everything up
		// to here was consumed by the previous token.
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				line = syntaxErr.Line
			}
			return nil, &parsererror.MalformedXMLError{Line: line, Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			line, column := index.position(start)
			node := &Node{
				Local:     t.Name.Local,
				Namespace: t.Name.Space,
				Line:      line,
				Column:    column,
			}
			for _, a := range t.Attr {
				// Namespace declarations and namespaced attributes such as
				// xsi:schemaLocation are not part of the content model.
				if a.Name.Space != "" || a.Name.Local == "xmlns" {
					continue
				}
				node.Attrs = append(node.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					line, _ := index.position(start)
					return nil, &parsererror.MalformedXMLError{
						Line: line,
						Err:  errors.New("multiple root elements"),
					}
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				current := stack[len(stack)-1]
				current.Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, &parsererror.MalformedXMLError{Err: errors.New("no root element")}
	}
	return &Document{Root: root, Namespace: root.Namespace}, nil
}
