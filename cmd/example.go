package cmd

import (
	"os"

	"chardiff/lib/command"

	"github.com/spf13/cobra"
)

var exampleCmd = &cobra.Command{
	Use:   "example [count] [path]",
	Short: "Generate a suite of placeholder test cases",
	Long: `Generate a test suite document with count placeholder test cases (1 by default)
and write it to path, or to standard output when no path is given.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		stdout := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		dir := workingDir(cmd)

		format, _ := cmd.Flags().GetString("format")
		options := command.ExampleOption{
			Format: format,
		}

		example, err := command.NewExample(dir, args, options, stdout, stderr)
		if err != nil {
			fatal(cmd, err)
		}
		os.Exit(example.Run())
	},
}

func init() {
	exampleCmd.Flags().String("format", "", "document format: toml or yaml (default: from the path extension, else toml)")
	rootCmd.AddCommand(exampleCmd)
}
