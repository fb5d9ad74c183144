// =============================================================================
// H2K to HPXML Translator - Document Loader
// =============================================================================
//
// This module loads an H2K house file and checks it against the H2K schema.
// A Document is only ever handed out after validation has passed, so every
// getter in this package can assume the structure the schema guarantees.
//
// WORKFLOW:
//   1. Compile the XSD schema (or reuse one the caller already compiled)
//   2. Parse the house file into an xmltree
//   3. Validate the tree; any violation becomes a SchemaValidationError
//   4. Check the embedded Application/Version against the supported revision
//
// =============================================================================

package h2k

import (
	"fmt"
	"os"
	"strconv"

	"github.com/canmet-energy/h2k-hpxml/internal/types"
	"github.com/canmet-energy/h2k-hpxml/internal/validation"
	"github.com/canmet-energy/h2k-hpxml/internal/xmltree"
)

const (
	// SupportedMajor and SupportedMinor name the H2K revision the extractor
	// was written against.
	SupportedMajor = 11
	SupportedMinor = 3
)

// Document is a schema-valid H2K house file.
type Document struct {
	// Path is the file the document was loaded from.
	Path string

	// Root is the HouseFile element. It is never modified after loading.
	Root *xmltree.Node
}

// Load compiles the schema at schemaPath and loads the document at docPath
// against it.
//
// RETURNS:
//   - The validated document.
//   - A SchemaValidationError if the document is malformed or does not
//     conform; a plain error if either file cannot be read.
func Load(docPath, schemaPath string) (*Document, error) {
	schema, err := validation.LoadSchema(schemaPath)
	if err != nil {
		return nil, err
	}
	return LoadWithSchema(docPath, schema)
}

// LoadWithSchema loads the document at docPath against an already compiled
// schema.
func LoadWithSchema(docPath string, schema *validation.Schema) (*Document, error) {
	f, err := os.Open(docPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open H2K file: %w", err)
	}
	defer f.Close()

	root, err := xmltree.Parse(f)
	if err != nil {
		return nil, &types.SchemaValidationError{
			File:       docPath,
			Violations: []types.Violation{{Message: "document is not well-formed XML: " + err.Error()}},
		}
	}

	if violations := schema.Validate(root); len(violations) > 0 {
		return nil, &types.SchemaValidationError{File: docPath, Violations: violations}
	}

	return &Document{Path: docPath, Root: root}, nil
}

// CheckVersion compares the document's Application/Version against the
// revision the caller supports.
//
// RETURNS:
//   - A warning message when only the minor revision differs, else "".
//   - UnsupportedVersionError when the major revision differs, or the
//     extraction error when the version cannot be read.
func (d *Document) CheckVersion(major, minor int) (string, error) {
	v, err := NewExtractor(d).Version()
	if err != nil {
		return "", err
	}
	if v.Major != major {
		return "", &types.UnsupportedVersionError{
			Major: v.Major, Minor: v.Minor,
			WantMajor: major, WantMinor: minor,
		}
	}
	if v.Minor != minor {
		return fmt.Sprintf("H2K file version %d.%d differs from tested version %d.%d; results may be incomplete",
			v.Major, v.Minor, major, minor), nil
	}
	return "", nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor)
}
