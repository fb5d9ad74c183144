// =============================================================================
// H2K to HPXML Translator - Validation Engine
// =============================================================================
//
// This module checks a parsed document against a compiled Schema. It is the
// gate in front of extraction: the loader refuses to hand out any tree for
// which Validate reports a violation.
//
// VALIDATION STRATEGY:
//   Validation walks the document top-down:
//   1. Root: the root element must match a global element declaration.
//   2. Attributes: required attributes must be present; declared attributes
//      must parse as their simple type. Undeclared attributes are tolerated.
//   3. Children: each declared child must occur within its bounds. Undeclared
//      children are violations unless the content model has an xs:any.
//   4. Text: elements of simple type (or simple content) have their text
//      checked against that type.
//
// ERROR HANDLING:
//   - Violations are collected, not returned one at a time
//   - Each violation carries the element path of the offending node
//
// =============================================================================

package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/canmet-energy/h2k-hpxml/internal/types"
	"github.com/canmet-energy/h2k-hpxml/internal/xmltree"
)

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate checks the document rooted at root and returns every violation
// found, in document order. An empty result means the document conforms.
func (s *Schema) Validate(root *xmltree.Node) []types.Violation {
	if root == nil {
		return []types.Violation{{Message: "document is empty"}}
	}

	decl, ok := s.roots[root.Name]
	if !ok {
		return []types.Violation{{
			Path:    root.Name,
			Message: fmt.Sprintf("unexpected root element %q", root.Name),
		}}
	}

	v := &walker{}
	v.element(root, decl)
	return v.violations
}

type walker struct {
	violations []types.Violation
}

func (w *walker) add(n *xmltree.Node, format string, args ...interface{}) {
	path := n.Path
	if path == "" {
		path = n.Name
	}
	w.violations = append(w.violations, types.Violation{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	})
}

func (w *walker) element(n *xmltree.Node, decl *elementDecl) {
	switch {
	case decl.complex != nil:
		w.complex(n, decl.complex)

	case decl.simple != nil:
		if msg := checkSimple(n.Text, decl.simple); msg != "" {
			w.add(n, "%s", msg)
		}

	case decl.typeName != "":
		if msg := validateDataType(n.Text, decl.typeName); msg != "" {
			w.add(n, "%s", msg)
		}

	default:
		// No type: xs:anyType, accepted as is.
	}
}

func (w *walker) complex(n *xmltree.Node, ct *complexType) {
	// STEP 1: Attributes.
	for _, attr := range ct.attributes {
		value, present := n.Attr(attr.name)
		if !present {
			if attr.required {
				w.add(n, "missing required attribute %q", attr.name)
			}
			continue
		}
		var msg string
		if attr.simple != nil {
			msg = checkSimple(value, attr.simple)
		} else if attr.typeName != "" {
			msg = validateDataType(value, attr.typeName)
		}
		if msg != "" {
			w.add(n, "attribute %q: %s", attr.name, msg)
		}
	}

	// STEP 2: Text content.
	if ct.hasText {
		if msg := validateDataType(n.Text, ct.textType); msg != "" {
			w.add(n, "%s", msg)
		}
	}

	// STEP 3: Children, counted against their declared bounds.
	counts := make(map[string]int, len(ct.children))
	for _, child := range n.Children {
		slot, declared := ct.children[child.Name]
		if !declared {
			if !ct.wildcard {
				w.add(child, "unexpected element %q", child.Name)
			}
			continue
		}
		counts[child.Name]++
		w.element(child, slot.decl)
	}

	for _, name := range ct.order {
		slot := ct.children[name]
		got := counts[name]
		if got < slot.min {
			if slot.min == 1 {
				w.add(n, "missing required element %q", name)
			} else {
				w.add(n, "element %q occurs %d times, at least %d required", name, got, slot.min)
			}
		}
		if slot.max != unbounded && got > slot.max {
			w.add(n, "element %q occurs %d times, at most %d allowed", name, got, slot.max)
		}
	}
}

// checkSimple validates a value against a restriction: base type first, then
// the enumeration if one is declared.
func checkSimple(value string, st *simpleType) string {
	if msg := validateDataType(value, st.base); msg != "" {
		return msg
	}
	if len(st.enumerations) == 0 {
		return ""
	}
	for _, allowed := range st.enumerations {
		if value == allowed {
			return ""
		}
	}
	return fmt.Sprintf("value %q is not one of [%s]", value, strings.Join(st.enumerations, ", "))
}

// =============================================================================
// DATA TYPE VALIDATORS
// =============================================================================

// validateDataType checks a value against a builtin XML Schema type.
//
// RETURNS:
//   - An error message if validation fails, empty string if valid.
//
// SUPPORTED DATA TYPES:
//   - string, token, normalizedString: any text
//   - boolean: true, false, 1, 0
//   - int, integer, long, short: signed integers
//   - nonNegativeInteger, unsignedInt: integers >= 0
//   - positiveInteger: integers > 0
//   - decimal: plain decimal numbers, no exponent
//   - double, float: decimal numbers with an optional exponent; INF and
//     NaN are rejected
//
// Any other builtin type is treated as string.
func validateDataType(value, dataType string) string {
	switch localName(dataType) {
	case "boolean":
		return validateBoolean(value)

	case "int", "integer", "long", "short":
		return validateInteger(value, nil)

	case "nonNegativeInteger", "unsignedInt":
		return validateInteger(value, func(i int64) bool { return i >= 0 })

	case "positiveInteger":
		return validateInteger(value, func(i int64) bool { return i > 0 })

	case "decimal":
		return validateDecimal(value)

	case "double", "float":
		return validateFloat(value)

	default:
		return ""
	}
}

func validateInteger(value string, inRange func(int64) bool) string {
	i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Sprintf("value %q is not a valid integer", value)
	}
	if inRange != nil && !inRange(i) {
		return fmt.Sprintf("value %q is out of range", value)
	}
	return ""
}

// decimalPattern is the xs:decimal lexical form: no exponent, no
// special values.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

func validateDecimal(value string) string {
	if !decimalPattern.MatchString(strings.TrimSpace(value)) {
		return fmt.Sprintf("value %q is not a valid decimal number", value)
	}
	return ""
}

// floatPattern admits an exponent but, unlike xs:double, not INF or NaN.
// No extracted quantity can use them.
var floatPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

func validateFloat(value string) string {
	if !floatPattern.MatchString(strings.TrimSpace(value)) {
		return fmt.Sprintf("value %q is not a valid floating point number", value)
	}
	return ""
}

func validateBoolean(value string) string {
	switch strings.TrimSpace(value) {
	case "true", "false", "1", "0":
		return ""
	}
	return fmt.Sprintf("value %q is not a valid boolean", value)
}

// FormatViolations renders violations one per line for display.
func FormatViolations(violations []types.Violation) string {
	var sb strings.Builder
	for i, v := range violations {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, v.String()))
	}
	return sb.String()
}
