package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canmet-energy/h2k-hpxml/internal/types"
	"github.com/canmet-energy/h2k-hpxml/internal/xmltree"
)

const testSchema = `<?xml version="1.0"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:simpleType name="Units">
    <xs:restriction base="xs:string">
      <xs:enumeration value="Metric"/>
      <xs:enumeration value="Imperial"/>
    </xs:restriction>
  </xs:simpleType>

  <xs:complexType name="CodeType">
    <xs:attribute name="code" type="xs:positiveInteger" use="required"/>
    <xs:attribute name="value" type="xs:decimal"/>
  </xs:complexType>

  <xs:complexType name="LabelType">
    <xs:simpleContent>
      <xs:extension base="xs:string">
        <xs:attribute name="lang" type="xs:string"/>
      </xs:extension>
    </xs:simpleContent>
  </xs:complexType>

  <xs:element name="House">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="Label" type="LabelType" minOccurs="0"/>
        <xs:element name="YearBuilt" type="CodeType"/>
        <xs:element name="Storeys" type="xs:int"/>
        <xs:choice>
          <xs:element name="Slab" type="xs:string"/>
          <xs:element name="Basement" type="xs:string"/>
        </xs:choice>
        <xs:element name="Wall" maxOccurs="2">
          <xs:complexType>
            <xs:sequence>
              <xs:any minOccurs="0" maxOccurs="unbounded"/>
            </xs:sequence>
            <xs:attribute name="id" type="xs:int" use="required"/>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
      <xs:attribute name="units" type="Units"/>
    </xs:complexType>
  </xs:element>
</xs:schema>`

func loadTestSchema(t *testing.T, body string) *Schema {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xsd")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	schema, err := LoadSchema(path)
	require.NoError(t, err)
	return schema
}

func validate(t *testing.T, schema *Schema, doc string) []types.Violation {
	t.Helper()
	root, err := xmltree.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return schema.Validate(root)
}

func TestValidate(t *testing.T) {
	schema := loadTestSchema(t, testSchema)

	tests := []struct {
		name     string
		doc      string
		wantPath string
		wantMsg  string
	}{
		{
			name: "conforming document",
			doc: `<House units="Metric"><Label lang="en">Test</Label><YearBuilt code="1" value="1978"/>
				<Storeys>2</Storeys><Slab>yes</Slab><Wall id="1"><Anything/></Wall></House>`,
		},
		{
			name:     "missing required element",
			doc:      `<House><Storeys>2</Storeys><Slab/><Wall id="1"/></House>`,
			wantPath: "House",
			wantMsg:  `missing required element "YearBuilt"`,
		},
		{
			name:     "missing required attribute",
			doc:      `<House><YearBuilt/><Storeys>2</Storeys><Slab/><Wall id="1"/></House>`,
			wantPath: "YearBuilt",
			wantMsg:  `missing required attribute "code"`,
		},
		{
			name:     "attribute outside range",
			doc:      `<House><YearBuilt code="0"/><Storeys>2</Storeys><Slab/><Wall id="1"/></House>`,
			wantPath: "YearBuilt",
			wantMsg:  "out of range",
		},
		{
			name:     "enumeration miss",
			doc:      `<House units="Furlongs"><YearBuilt code="5"/><Storeys>2</Storeys><Slab/><Wall id="1"/></House>`,
			wantPath: "House",
			wantMsg:  "is not one of",
		},
		{
			name:     "malformed integer text",
			doc:      `<House><YearBuilt code="5"/><Storeys>two</Storeys><Slab/><Wall id="1"/></House>`,
			wantPath: "Storeys",
			wantMsg:  "not a valid integer",
		},
		{
			name:     "undeclared child",
			doc:      `<House><YearBuilt code="5"/><Storeys>2</Storeys><Slab/><Wall id="1"/><Garage/></House>`,
			wantPath: "Garage",
			wantMsg:  `unexpected element "Garage"`,
		},
		{
			name:     "too many occurrences",
			doc:      `<House><YearBuilt code="5"/><Storeys>2</Storeys><Slab/><Wall id="1"/><Wall id="2"/><Wall id="3"/></House>`,
			wantPath: "House",
			wantMsg:  "at most 2 allowed",
		},
		{
			name:     "missing repeated element",
			doc:      `<House><YearBuilt code="5"/><Storeys>2</Storeys><Basement/></House>`,
			wantPath: "House",
			wantMsg:  `missing required element "Wall"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := validate(t, schema, tt.doc)
			if tt.wantMsg == "" {
				assert.Empty(t, violations)
				return
			}
			require.NotEmpty(t, violations)
			assert.Equal(t, tt.wantPath, violations[0].Path)
			assert.Contains(t, violations[0].Message, tt.wantMsg)
		})
	}
}

func TestValidateUnexpectedRoot(t *testing.T) {
	schema := loadTestSchema(t, testSchema)
	violations := validate(t, schema, `<Apartment/>`)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0].Message, "unexpected root element")
}

func TestChoiceMembersAreOptional(t *testing.T) {
	schema := loadTestSchema(t, testSchema)
	violations := validate(t, schema, `<House><YearBuilt code="5"/><Storeys>2</Storeys><Wall id="1"/></House>`)
	assert.Empty(t, violations)
}

func TestLoadSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not a schema", `<House/>`},
		{"no global elements", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"/>`},
		{"unknown type", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="A" type="Nope"/></xs:schema>`},
		{"bad maxOccurs", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="A"><xs:complexType><xs:sequence><xs:element name="B" maxOccurs="lots"/></xs:sequence></xs:complexType></xs:element></xs:schema>`},
		{"dangling ref", `<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"><xs:element name="A"><xs:complexType><xs:sequence><xs:element ref="B"/></xs:sequence></xs:complexType></xs:element></xs:schema>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.xsd")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0644))
			_, err := LoadSchema(path)
			assert.Error(t, err)
		})
	}

	_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.xsd"))
	assert.Error(t, err)
}

func TestFormatViolations(t *testing.T) {
	out := FormatViolations([]types.Violation{
		{Path: "House/Specifications", Message: `missing required element "YearBuilt"`},
		{Message: "document is empty"},
	})
	assert.Equal(t, "1. House/Specifications: missing required element \"YearBuilt\"\n2. document is empty\n", out)
}

func TestNumericLexicalForms(t *testing.T) {
	tests := []struct {
		value    string
		dataType string
		valid    bool
	}{
		{"1.5", "xs:decimal", true},
		{" -0.25 ", "xs:decimal", true},
		{".5", "xs:decimal", true},
		{"3.", "xs:decimal", true},
		{"+12", "xs:decimal", true},
		{"NaN", "xs:decimal", false},
		{"INF", "xs:decimal", false},
		{"-Inf", "xs:decimal", false},
		{"1e5", "xs:decimal", false},
		{"0x1p-2", "xs:decimal", false},
		{".", "xs:decimal", false},
		{"", "xs:decimal", false},
		{"1e5", "xs:double", true},
		{"2.5E-3", "xs:float", true},
		{"NaN", "xs:double", false},
		{"INF", "xs:float", false},
	}
	for _, tt := range tests {
		t.Run(tt.dataType+"/"+tt.value, func(t *testing.T) {
			msg := validateDataType(tt.value, tt.dataType)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestNaNAttributeIsAViolation(t *testing.T) {
	schema := loadTestSchema(t, testSchema)
	violations := validate(t, schema, `<House><YearBuilt code="5" value="NaN"/><Storeys>2</Storeys><Slab/><Wall id="1"/></House>`)
	require.Len(t, violations, 1)
	assert.Equal(t, "YearBuilt", violations[0].Path)
	assert.Contains(t, violations[0].Message, "not a valid decimal")
}
