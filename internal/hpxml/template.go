// =============================================================================
// H2K to HPXML Translator - Workflow Template
// =============================================================================
//
// This module reads and writes OpenStudio workflow templates. A template is
// an ordered list of measure steps; the translator only ever edits the
// arguments of one of them (BuildResidentialHPXML) and the run directory.
//
// FORMATS:
//   Templates are decoded with yaml.v3 whatever their extension, since every
//   JSON document is also valid YAML. Output is JSON for .osw and .json
//   targets and YAML for .yml and .yaml targets.
//
// The step list is never reordered, added to or trimmed.
//
// =============================================================================

package hpxml

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// BuildMeasure is the measure whose arguments describe the building.
const BuildMeasure = "BuildResidentialHPXML"

// Format is a serialization of a workflow.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Template is a decoded workflow.
type Template struct {
	// Path is where the template was read from.
	Path string

	doc   map[string]any
	steps []map[string]any
}

// LoadTemplate reads a workflow template.
//
// PARAMETERS:
//   - path: Path to an .osw, .json, .yml or .yaml workflow.
//
// RETURNS:
//   - The template, ready to be edited.
//   - An error if the file cannot be read, is not a mapping, or has a
//     malformed steps list.
func LoadTemplate(path string) (*Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	tmpl, err := ParseTemplate(raw)
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	tmpl.Path = path
	return tmpl, nil
}

// ParseTemplate decodes a workflow from memory.
func ParseTemplate(raw []byte) (*Template, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse workflow: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("workflow is empty")
	}

	list, ok := doc["steps"].([]any)
	if !ok {
		return nil, fmt.Errorf("workflow has no steps list")
	}

	t := &Template{doc: doc}
	for i, item := range list {
		step, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("step %d is not a mapping", i+1)
		}
		if _, ok := step["measure_dir_name"].(string); !ok {
			return nil, fmt.Errorf("step %d has no measure_dir_name", i+1)
		}
		t.steps = append(t.steps, step)
	}
	return t, nil
}

// Measures returns the measure names of the steps, in order.
func (t *Template) Measures() []string {
	out := make([]string, 0, len(t.steps))
	for _, s := range t.steps {
		out = append(out, s["measure_dir_name"].(string))
	}
	return out
}

// Arguments returns the live arguments map of the first step running the
// named measure. Writes to the map are writes to the template. A step with
// no arguments gets an empty map.
func (t *Template) Arguments(measure string) (map[string]any, error) {
	for _, s := range t.steps {
		if s["measure_dir_name"] != measure {
			continue
		}
		args, ok := s["arguments"].(map[string]any)
		if !ok {
			if s["arguments"] != nil {
				return nil, fmt.Errorf("arguments of %s are not a mapping", measure)
			}
			args = map[string]any{}
			s["arguments"] = args
		}
		return args, nil
	}
	return nil, fmt.Errorf("workflow has no %s step", measure)
}

// RunDirectory returns the template's run directory, or "" if unset.
func (t *Template) RunDirectory() string {
	dir, _ := t.doc["run_directory"].(string)
	return dir
}

// SetRunDirectory sets where the simulation runs.
func (t *Template) SetRunDirectory(dir string) {
	t.doc["run_directory"] = dir
}

// Encode writes the workflow in the given format.
func (t *Template) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(t.doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(t.doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown workflow format %d", format)
	}
}
