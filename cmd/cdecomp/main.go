// Command cdecomp is the demo host pipeline for the decompiler back-end
// core: it wires internal/dla and internal/cbackend behind a small Cobra
// CLI, exercising the ambient stack (config, trace, colored/TTY-aware
// output) the core itself deliberately has none of (§6).
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagConfigPath string
	flagTraceLevel string
	flagColor      string
	flagTarget     string
)

var rootCmd = &cobra.Command{
	Use:   "cdecomp",
	Short: "Decompiler back-end core demo driver",
	Long:  "cdecomp drives the DLA graph and AST-builder core over a small built-in demo function.",
}

func main() {
	rootCmd.AddCommand(decompileCmd, graphCmd, versionCmd)

	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagTraceLevel, "trace-level", "", "trace level override (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().StringVar(&flagTarget, "target", "", "data layout target override (lp64|ilp32)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func applyColorPreference(pref string) {
	switch pref {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default: // "auto": fatih/color already defaults to TTY detection
	}
}
