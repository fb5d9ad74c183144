// =============================================================================
// H2K to HPXML Translator - XML Tree
// =============================================================================
//
// This package turns an XML document into a read-only tree of Nodes. The tree
// mirrors the document one-to-one: element names, attributes, trimmed text
// and children in document order. Both the input H2K document and the XSD
// schema are read through this package.
//
// PATHS:
//   Each node records its element path relative to the document root, e.g.
//   "House/Specifications/YearBuilt". The root itself has an empty path.
//   These paths are what error messages report.
//
// =============================================================================

package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Node is one element of the document.
type Node struct {
	// Name is the element's local name (namespace prefixes are dropped).
	Name string

	// Attrs maps attribute local names to their raw values.
	Attrs map[string]string

	// Text is the element's character data with surrounding whitespace removed.
	Text string

	// Children holds child elements in document order.
	Children []*Node

	// Path is the slash-separated element path relative to the root.
	Path string
}

// =============================================================================
// PARSING
// =============================================================================

// ParseFile opens and parses the XML document at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return root, nil
}

// Parse reads a complete XML document from r.
//
// RETURNS:
//   - The root element of the document.
//   - An error if the document is not well-formed or has no root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &Node{
				Name:  t.Name.Local,
				Attrs: make(map[string]string, len(t.Attr)),
			}
			for _, a := range t.Attr {
				// Namespace declarations are not document data.
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				node.Attrs[a.Name.Local] = a.Value
			}

			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("document has more than one root element")
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				node.Path = joinPath(parent.Path, node.Name)
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			text = append(text, &strings.Builder{})

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}

		case xml.EndElement:
			node := stack[len(stack)-1]
			node.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}

	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// =============================================================================
// NAVIGATION
// =============================================================================

// Child returns the first direct child named name, or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every direct child named name, in document order.
func (n *Node) ChildrenNamed(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Find follows a slash-separated path of element names, taking the first
// match at each step. An empty path returns n itself.
func (n *Node) Find(path string) *Node {
	if path == "" {
		return n
	}
	cur := n
	for _, step := range strings.Split(path, "/") {
		cur = cur.Child(step)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// FindAll returns every element matching the path. All but the last step
// follow the first match; the last step collects every match.
func (n *Node) FindAll(path string) []*Node {
	dir, last := splitLast(path)
	parent := n.Find(dir)
	return parent.ChildrenNamed(last)
}

// Attr returns the named attribute and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	v, ok := n.Attrs[name]
	return v, ok
}

// Has reports whether the path resolves to an element.
func (n *Node) Has(path string) bool {
	return n.Find(path) != nil
}

// SubPath joins a relative path onto the node's own path, for error reporting.
func (n *Node) SubPath(rel string) string {
	if n == nil {
		return rel
	}
	if rel == "" {
		return n.Path
	}
	return joinPath(n.Path, rel)
}

// Count returns how many elements named name appear anywhere below n.
func (n *Node) Count(name string) int {
	if n == nil {
		return 0
	}
	total := 0
	for _, c := range n.Children {
		if c.Name == name {
			total++
		}
		total += c.Count(name)
	}
	return total
}

func splitLast(path string) (string, string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
