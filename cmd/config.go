package cmd

import (
	"os"

	"chardiff/lib/command"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [--global|--local|--file <path>] [--unset] <key> [<value>]",
	Short: "Get and set chardiff options",
	Long: `Get and set chardiff options.

Keys: color, timeout, pager, insertColor, deleteColor.
Settings in ./.chardiff.yaml override the global ones in the user config directory.`,
	Args: cobra.MaximumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		stdout := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		dir := workingDir(cmd)

		file, _ := cmd.Flags().GetString("file")
		if global, _ := cmd.Flags().GetBool("global"); global {
			file = "global"
		}
		if local, _ := cmd.Flags().GetBool("local"); local {
			file = "local"
		}
		list, _ := cmd.Flags().GetBool("list")
		unset, _ := cmd.Flags().GetBool("unset")
		options := command.ConfigOption{
			File:  file,
			List:  list,
			Unset: unset,
		}

		config, err := command.NewConfig(dir, args, options, stdout, stderr)
		if err != nil {
			fatal(cmd, err)
		}
		os.Exit(config.Run())
	},
}

func init() {
	configCmd.Flags().StringP("file", "f", "", "use the given config file")
	configCmd.Flags().Bool("global", false, "use the global config file")
	configCmd.Flags().Bool("local", false, "use the config file in the current directory")
	configCmd.Flags().BoolP("list", "l", false, "list all settings")
	configCmd.Flags().Bool("unset", false, "remove the setting")
	configCmd.MarkFlagsMutuallyExclusive("file", "global", "local")
	rootCmd.AddCommand(configCmd)
}
