// =============================================================================
// H2K to HPXML Translator - Main Entry Point
// =============================================================================
//
// USAGE:
//   h2k2hpxml <input.h2k> <output>  - Translate a house file
//   h2k2hpxml inspect <input.h2k>   - Show the records in a house file
//   h2k2hpxml version               - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Loading, extraction, mapping and output
//   - pkg/       : Shared file utilities
//   - schema/    : The H2K XSD
//   - templates/ : Workflow templates
//
// =============================================================================

package main

import (
	"github.com/canmet-energy/h2k-hpxml/cmd"
)

func main() {
	cmd.Execute()
}
