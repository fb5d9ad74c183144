package h2k

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/canmet-energy/h2k-hpxml/internal/types"
	"github.com/canmet-energy/h2k-hpxml/internal/xmltree"
)

// fieldReader reads typed fields below one element. The first failure is
// kept and every later read becomes a no-op, so a record can be filled in
// straight-line code with a single error check at the end.
type fieldReader struct {
	node    *xmltree.Node
	element string
	err     error
}

func newReader(n *xmltree.Node, element string) *fieldReader {
	return &fieldReader{node: n, element: element}
}

// identify describes a component for error messages: `wall 3 "Main floor"`.
func identify(kind string, n *xmltree.Node) string {
	id, _ := n.Attr("id")
	label := ""
	if l := n.Child("Label"); l != nil {
		label = l.Text
	}
	if label == "" {
		return fmt.Sprintf("%s %s", kind, id)
	}
	return fmt.Sprintf("%s %s %q", kind, id, label)
}

func (r *fieldReader) fieldPath(path, attr string) string {
	p := r.node.SubPath(path)
	if attr != "" {
		p += "@" + attr
	}
	return p
}

func (r *fieldReader) missing(path, attr string) {
	if r.err == nil {
		r.err = &types.MissingFieldError{Path: r.fieldPath(path, attr), Element: r.element}
	}
}

func (r *fieldReader) invalid(path, attr, value, reason string) {
	if r.err == nil {
		r.err = &types.InvalidValueError{Field: r.fieldPath(path, attr), Value: value, Reason: reason}
	}
}

// child returns the element at path, recording a MissingFieldError if absent.
func (r *fieldReader) child(path string) *xmltree.Node {
	if r.err != nil {
		return nil
	}
	n := r.node.Find(path)
	if n == nil {
		r.missing(path, "")
	}
	return n
}

// str reads an attribute of the element at path, or its text when attr is
// empty. An empty path addresses the reader's own element.
func (r *fieldReader) str(path, attr string) string {
	n := r.child(path)
	if n == nil {
		return ""
	}
	if attr == "" {
		return n.Text
	}
	v, ok := n.Attr(attr)
	if !ok {
		r.missing(path, attr)
		return ""
	}
	return v
}

func (r *fieldReader) text(path string) string {
	return r.str(path, "")
}

func (r *fieldReader) float(path, attr string) float64 {
	s := r.str(path, attr)
	if r.err != nil {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		r.invalid(path, attr, s, "not a number")
		return 0
	}
	return f
}

func (r *fieldReader) int(path, attr string) int {
	s := r.str(path, attr)
	if r.err != nil {
		return 0
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		r.invalid(path, attr, s, "not an integer")
		return 0
	}
	return i
}

func (r *fieldReader) bool(path, attr string) bool {
	s := r.str(path, attr)
	if r.err != nil {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		r.invalid(path, attr, s, "not a boolean")
		return false
	}
	return b
}

// has reports whether an optional element is present. It never fails.
func (r *fieldReader) has(path string) bool {
	return r.node.Has(path)
}

// coded reads the common H2K pairing of a code attribute and an English label.
func (r *fieldReader) coded(path string) CodedValue {
	return CodedValue{
		Code:  r.int(path, "code"),
		Label: r.text(joinPath(path, "English")),
	}
}

func joinPath(a, b string) string {
	if a == "" {
		return b
	}
	return a + "/" + b
}
