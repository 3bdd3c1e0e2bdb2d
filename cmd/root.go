package cmd

import (
	"os"

	"chardiff/lib/config"
	"chardiff/lib/log"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X chardiff/cmd.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "chardiff",
	Short: "Character-level diffs of text, files and program output",
	Long: `chardiff shows the character-level difference between two texts, two files,
or the expected and actual output of a program run against a suite of test cases.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command named on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Errorf("%s\n", err)
		os.Exit(1)
	}
}

// workingDir returns the directory operands are relative to, exiting when it
// cannot be determined.
func workingDir(cmd *cobra.Command) string {
	dir, err := os.Getwd()
	if err != nil {
		fatal(cmd, err)
	}
	return dir
}

func loadSettings(cmd *cobra.Command, dir string) config.Settings {
	settings, err := config.NewStack(dir).Settings()
	if err != nil {
		fatal(cmd, err)
	}
	return settings
}

func fatal(cmd *cobra.Command, err error) {
	log.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Fatalf("%s\n", err)
	os.Exit(1)
}
