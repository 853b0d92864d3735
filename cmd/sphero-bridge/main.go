// Command sphero-bridge runs Sphero Edu programs against a robot runtime,
// journals each session and hosts a simulated robot for classrooms without
// hardware.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// BuildDate can be set at build time via ldflags
var (
	CurrentVersion = "0.0.1"
	BuildDate      = "unknown"

	AppName = "sphero_bridge"
)

var (
	configDir string
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:           "sphero-bridge",
	Short:         "Sphero Edu robot bridge",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (built %s)\n", AppName, CurrentVersion, BuildDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing "+configFileName())
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.AddCommand(versionCmd, runCmd, serveSimCmd, catalogCmd, uploadCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %s\n", err)
		os.Exit(1)
	}
}
