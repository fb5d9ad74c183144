// =============================================================================
// H2K to HPXML Translator - Version Command
// =============================================================================
//
// COMMAND USAGE:
//   h2k2hpxml version
//
// OUTPUT:
//   h2k2hpxml
//   Version:     1.0.0
//   Build Date:  2024-01-01
//   H2K Version: 11.3
//   Go Version:  go1.22.0
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/canmet-energy/h2k-hpxml/internal/h2k"
)

// Version and BuildDate are set at build time:
//   go build -ldflags "-X 'github.com/canmet-energy/h2k-hpxml/cmd.Version=1.0.0'"
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version, build date, supported H2K revision and Go runtime version.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd.OutOrStdout())
	},
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, "h2k2hpxml")
	fmt.Fprintf(w, "Version:     %s\n", Version)
	fmt.Fprintf(w, "Build Date:  %s\n", BuildDate)
	fmt.Fprintf(w, "H2K Version: %d.%d\n", h2k.SupportedMajor, h2k.SupportedMinor)
	fmt.Fprintf(w, "Go Version:  %s\n", runtime.Version())
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
