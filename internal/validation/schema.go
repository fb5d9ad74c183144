// =============================================================================
// H2K to HPXML Translator - Schema Loader
// =============================================================================
//
// This module reads an XML Schema (XSD) document into the in-memory rules the
// validator checks documents against. Only the subset of XSD that the H2K
// schema relies on is understood:
//   - Global xs:element declarations (the allowed document roots)
//   - Named and anonymous xs:complexType with xs:sequence, xs:all, xs:choice
//   - minOccurs / maxOccurs on elements and groups ("unbounded" allowed)
//   - xs:any wildcards (lax: undeclared children are accepted, not checked)
//   - xs:attribute with use="required" and builtin or named simple types
//   - xs:simpleContent extensions (text plus attributes)
//   - Named or anonymous xs:simpleType restrictions with xs:enumeration
//
// CONTENT MODEL:
//   Groups are flattened into per-child occurrence bounds. Members of an
//   xs:choice become optional, and a group's own bounds multiply into its
//   members. Child order is not enforced.
//
// =============================================================================

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/canmet-energy/h2k-hpxml/internal/xmltree"
)

// unbounded marks a maxOccurs of "unbounded".
const unbounded = -1

// Schema is a loaded set of validation rules.
type Schema struct {
	// Path is where the schema was loaded from.
	Path string

	roots        map[string]*elementDecl
	complexTypes map[string]*complexType
	simpleTypes  map[string]*simpleType
}

type elementDecl struct {
	name     string
	ref      string
	typeName string
	min, max int

	complex *complexType
	simple  *simpleType
}

type attributeDecl struct {
	name     string
	typeName string
	required bool
	simple   *simpleType
}

type complexType struct {
	name       string
	children   map[string]*occurrence
	order      []string
	wildcard   bool
	attributes []*attributeDecl

	// textType is set for xs:simpleContent; the element's text is checked
	// against it.
	textType string
	hasText  bool
}

// occurrence is one flattened child slot of a content model.
type occurrence struct {
	decl     *elementDecl
	min, max int
}

type simpleType struct {
	name         string
	base         string
	enumerations []string
}

// =============================================================================
// LOADING
// =============================================================================

// LoadSchema reads and compiles the XSD document at path.
//
// RETURNS:
//   - The compiled schema.
//   - An error if the file cannot be read, is not an XSD document, or uses
//     constructs outside the supported subset.
func LoadSchema(path string) (*Schema, error) {
	root, err := xmltree.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	schema, err := compile(root)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", path, err)
	}
	schema.Path = path
	return schema, nil
}

// compile turns a parsed xs:schema tree into rules.
func compile(root *xmltree.Node) (*Schema, error) {
	if root.Name != "schema" {
		return nil, fmt.Errorf("root element is %q, expected xs:schema", root.Name)
	}

	s := &Schema{
		roots:        make(map[string]*elementDecl),
		complexTypes: make(map[string]*complexType),
		simpleTypes:  make(map[string]*simpleType),
	}

	// STEP 1: Named types first so elements can refer to them in any order.
	for _, n := range root.Children {
		switch n.Name {
		case "complexType":
			ct, err := s.parseComplexType(n)
			if err != nil {
				return nil, err
			}
			if ct.name == "" {
				return nil, fmt.Errorf("top-level complexType has no name")
			}
			s.complexTypes[ct.name] = ct
		case "simpleType":
			st, err := parseSimpleType(n)
			if err != nil {
				return nil, err
			}
			if st.name == "" {
				return nil, fmt.Errorf("top-level simpleType has no name")
			}
			s.simpleTypes[st.name] = st
		}
	}

	// STEP 2: Global elements.
	for _, n := range root.ChildrenNamed("element") {
		decl, err := s.parseElement(n)
		if err != nil {
			return nil, err
		}
		if decl.name == "" {
			return nil, fmt.Errorf("global element has no name")
		}
		s.roots[decl.name] = decl
	}
	if len(s.roots) == 0 {
		return nil, fmt.Errorf("schema declares no global elements")
	}

	// STEP 3: Resolve every type and element reference.
	if err := s.resolve(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Schema) parseElement(n *xmltree.Node) (*elementDecl, error) {
	decl := &elementDecl{
		name:     n.Attrs["name"],
		ref:      localName(n.Attrs["ref"]),
		typeName: n.Attrs["type"],
	}
	if decl.name == "" && decl.ref == "" {
		return nil, fmt.Errorf("element at %s has neither name nor ref", n.Path)
	}

	var err error
	if decl.min, decl.max, err = occurs(n); err != nil {
		return nil, err
	}

	if ctNode := n.Child("complexType"); ctNode != nil {
		if decl.complex, err = s.parseComplexType(ctNode); err != nil {
			return nil, err
		}
	}
	if stNode := n.Child("simpleType"); stNode != nil {
		if decl.simple, err = parseSimpleType(stNode); err != nil {
			return nil, err
		}
	}
	return decl, nil
}

func (s *Schema) parseComplexType(n *xmltree.Node) (*complexType, error) {
	ct := &complexType{
		name:     n.Attrs["name"],
		children: make(map[string]*occurrence),
	}

	for _, c := range n.Children {
		switch c.Name {
		case "sequence", "all", "choice":
			if err := s.flattenGroup(ct, c, 1, 1); err != nil {
				return nil, err
			}
		case "attribute":
			attr, err := parseAttribute(c)
			if err != nil {
				return nil, err
			}
			ct.attributes = append(ct.attributes, attr)
		case "simpleContent":
			ext := c.Child("extension")
			if ext == nil {
				return nil, fmt.Errorf("simpleContent at %s must use xs:extension", c.Path)
			}
			ct.hasText = true
			ct.textType = ext.Attrs["base"]
			for _, a := range ext.ChildrenNamed("attribute") {
				attr, err := parseAttribute(a)
				if err != nil {
					return nil, err
				}
				ct.attributes = append(ct.attributes, attr)
			}
		case "complexContent":
			return nil, fmt.Errorf("complexContent at %s is not supported", c.Path)
		case "anyAttribute", "annotation":
			// Undeclared attributes are always tolerated.
		}
	}
	return ct, nil
}

// flattenGroup folds a model group into ct's occurrence slots. outerMin and
// outerMax are the accumulated bounds of the enclosing groups.
func (s *Schema) flattenGroup(ct *complexType, g *xmltree.Node, outerMin, outerMax int) error {
	gMin, gMax, err := occurs(g)
	if err != nil {
		return err
	}
	gMin, gMax = outerMin*gMin, multiplyMax(outerMax, gMax)
	if g.Name == "choice" {
		gMin = 0
	}

	for _, c := range g.Children {
		switch c.Name {
		case "element":
			decl, err := s.parseElement(c)
			if err != nil {
				return err
			}
			key := decl.name
			if key == "" {
				key = decl.ref
			}
			slot, ok := ct.children[key]
			if !ok {
				slot = &occurrence{decl: decl}
				ct.children[key] = slot
				ct.order = append(ct.order, key)
			}
			slot.min += gMin * decl.min
			slot.max = addMax(slot.max, multiplyMax(gMax, decl.max), ok)
		case "sequence", "all", "choice":
			if err := s.flattenGroup(ct, c, gMin, gMax); err != nil {
				return err
			}
		case "any":
			ct.wildcard = true
		}
	}
	return nil
}

func parseAttribute(n *xmltree.Node) (*attributeDecl, error) {
	attr := &attributeDecl{
		name:     n.Attrs["name"],
		typeName: n.Attrs["type"],
		required: n.Attrs["use"] == "required",
	}
	if attr.name == "" {
		return nil, fmt.Errorf("attribute at %s has no name", n.Path)
	}
	if stNode := n.Child("simpleType"); stNode != nil {
		st, err := parseSimpleType(stNode)
		if err != nil {
			return nil, err
		}
		attr.simple = st
	}
	return attr, nil
}

func parseSimpleType(n *xmltree.Node) (*simpleType, error) {
	restriction := n.Child("restriction")
	if restriction == nil {
		return nil, fmt.Errorf("simpleType at %s must use xs:restriction", n.Path)
	}
	st := &simpleType{
		name: n.Attrs["name"],
		base: restriction.Attrs["base"],
	}
	for _, e := range restriction.ChildrenNamed("enumeration") {
		st.enumerations = append(st.enumerations, e.Attrs["value"])
	}
	return st, nil
}

// occurs reads minOccurs/maxOccurs, both defaulting to 1.
func occurs(n *xmltree.Node) (int, int, error) {
	minOcc, maxOcc := 1, 1
	if v, ok := n.Attr("minOccurs"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("invalid minOccurs %q at %s", v, n.Path)
		}
		minOcc = parsed
	}
	if v, ok := n.Attr("maxOccurs"); ok {
		if v == "unbounded" {
			maxOcc = unbounded
		} else {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 0 {
				return 0, 0, fmt.Errorf("invalid maxOccurs %q at %s", v, n.Path)
			}
			maxOcc = parsed
		}
	}
	if maxOcc != unbounded && minOcc > maxOcc {
		return 0, 0, fmt.Errorf("minOccurs %d exceeds maxOccurs %d at %s", minOcc, maxOcc, n.Path)
	}
	return minOcc, maxOcc, nil
}

func multiplyMax(a, b int) int {
	if a == unbounded || b == unbounded {
		return unbounded
	}
	return a * b
}

// addMax sums two maxima for a child that appears more than once in a
// content model. When the slot is new the incoming value is taken as is.
func addMax(current, add int, existed bool) int {
	if !existed {
		return add
	}
	if current == unbounded || add == unbounded {
		return unbounded
	}
	return current + add
}

// =============================================================================
// REFERENCE RESOLUTION
// =============================================================================

func (s *Schema) resolve() error {
	seen := make(map[*complexType]bool)
	for _, decl := range s.roots {
		if err := s.resolveElement(decl, seen); err != nil {
			return err
		}
	}
	for _, ct := range s.complexTypes {
		if err := s.resolveComplex(ct, seen); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) resolveElement(decl *elementDecl, seen map[*complexType]bool) error {
	if decl.ref != "" {
		global, ok := s.roots[decl.ref]
		if !ok {
			return fmt.Errorf("element ref %q does not name a global element", decl.ref)
		}
		decl.name = global.name
		decl.typeName = global.typeName
		decl.complex = global.complex
		decl.simple = global.simple
		decl.ref = ""
	}

	if decl.complex == nil && decl.simple == nil && decl.typeName != "" && !isBuiltin(decl.typeName) {
		name := localName(decl.typeName)
		if ct, ok := s.complexTypes[name]; ok {
			decl.complex = ct
		} else if st, ok := s.simpleTypes[name]; ok {
			decl.simple = st
		} else {
			return fmt.Errorf("element %q has unknown type %q", decl.name, decl.typeName)
		}
	}

	if decl.complex != nil {
		return s.resolveComplex(decl.complex, seen)
	}
	return nil
}

func (s *Schema) resolveComplex(ct *complexType, seen map[*complexType]bool) error {
	if seen[ct] {
		return nil
	}
	seen[ct] = true

	for _, attr := range ct.attributes {
		if attr.simple != nil || attr.typeName == "" || isBuiltin(attr.typeName) {
			continue
		}
		st, ok := s.simpleTypes[localName(attr.typeName)]
		if !ok {
			return fmt.Errorf("attribute %q has unknown type %q", attr.name, attr.typeName)
		}
		attr.simple = st
	}
	for _, key := range ct.order {
		if err := s.resolveElement(ct.children[key].decl, seen); err != nil {
			return err
		}
	}
	return nil
}

// isBuiltin reports whether a type name lives in the XML Schema namespace.
func isBuiltin(typeName string) bool {
	return strings.HasPrefix(typeName, "xs:") || strings.HasPrefix(typeName, "xsd:")
}

func localName(qname string) string {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}
