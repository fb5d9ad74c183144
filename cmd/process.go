// =============================================================================
// H2K to HPXML Translator - Translation and Inspection
// =============================================================================
//
// This file holds what the commands actually run: a translation for the
// root command, and the inspect command that shows what the extractor reads
// from a house file.
//
// COMMAND USAGE:
//   h2k2hpxml <input.h2k> <output> [flags]
//   h2k2hpxml inspect <input.h2k> [--dump]
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/canmet-energy/h2k-hpxml/internal/h2k"
	"github.com/canmet-energy/h2k-hpxml/internal/translator"
)

// dump prints the whole inventory instead of the counts.
var dump bool

// =============================================================================
// INSPECT COMMAND DEFINITION
// =============================================================================

var inspectCmd = &cobra.Command{
	Use:   "inspect <input.h2k>",
	Short: "Show the records extracted from a house file",
	Long: `The inspect command validates a house file and prints how many records of
each component kind it contains. With --dump it prints every record.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&dump, "dump", false,
		"Print every extracted record")
}

// =============================================================================
// COMMAND FUNCTIONS
// =============================================================================

// runTranslate translates input into output.
func runTranslate(input, output string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	res, err := translator.New(translator.OptionsFromConfig(cfg), logger).Run(input, output)
	if err != nil {
		return err
	}

	for _, n := range res.Notices {
		fmt.Printf("Notice (%s): %s\n", n.Code, n.Message)
	}
	if res.Written {
		fmt.Printf("Wrote %s (%d building arguments) in %s\n", res.Output, len(res.Arguments), res.Duration)
	}
	return nil
}

// runInspect prints the records of a house file.
func runInspect(w io.Writer, input string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}

	inv, err := translator.New(translator.OptionsFromConfig(cfg), logger).Inspect(input)
	if err != nil {
		return err
	}

	if dump {
		sc := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		sc.Fdump(w, inv)
		return nil
	}
	printCounts(w, inv)
	return nil
}

// printCounts writes one line per component kind.
func printCounts(w io.Writer, inv *h2k.Inventory) {
	fmt.Fprintf(w, "File ID:     %s\n", inv.FileID)
	fmt.Fprintf(w, "H2K version: %s\n", inv.Version.String())
	for _, kc := range inv.Counts() {
		fmt.Fprintf(w, "  %-26s %d\n", kc.Kind+":", kc.Count)
	}
	if inv.Heating != nil {
		fmt.Fprintf(w, "Heating:     %s", inv.Heating.Primary.Kind)
		if inv.Heating.Backup != nil {
			fmt.Fprintf(w, " (backup %s)", inv.Heating.Backup.Kind)
		}
		fmt.Fprintln(w)
	}
}
