package cmd

import (
	"context"
	"os"
	"os/signal"

	"chardiff/lib/command"
	"chardiff/lib/pager"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var diffCmd = &cobra.Command{
	Use:     "diff <left> <right>",
	Aliases: []string{"get"},
	Short:   "Show the difference between two inputs",
	Long: `Show the character-level difference between two inputs.

Modes:
  interactive  compare <left> and <right> as literal text (default)
  file         compare the contents of the files <left> and <right> (alias: batch)
  program      run the program <left> against every test case in the suite
               file <right> and diff expected against actual output`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		stdout := cmd.OutOrStdout()
		stderr := cmd.ErrOrStderr()
		dir := workingDir(cmd)
		settings := loadSettings(cmd, dir)

		modeFlag, _ := cmd.Flags().GetString("mode")
		mode, err := command.ParseMode(modeFlag)
		if err != nil {
			fatal(cmd, err)
		}

		colorMode := settings.Color
		if cmd.Flags().Changed("color") {
			colorMode, _ = cmd.Flags().GetString("color")
		}
		isTTY := term.IsTerminal(int(os.Stdout.Fd()))
		useColor, err := command.UseColor(colorMode, isTTY)
		if err != nil {
			fatal(cmd, err)
		}
		color.NoColor = !useColor

		style, err := command.NewStyle(settings, useColor)
		if err != nil {
			fatal(cmd, err)
		}

		timeout, err := settings.TimeoutDuration()
		if err != nil {
			fatal(cmd, err)
		}
		if cmd.Flags().Changed("timeout") {
			timeout, _ = cmd.Flags().GetDuration("timeout")
		}

		failFast, _ := cmd.Flags().GetBool("fail-fast")
		strict, _ := cmd.Flags().GetBool("strict")
		watch, _ := cmd.Flags().GetBool("watch")
		options := command.DiffOption{
			Mode:     mode,
			Style:    style,
			Timeout:  timeout,
			FailFast: failFast,
			Strict:   strict,
			Watch:    watch,
		}

		writer, cleanup := stdout, func() {}
		noPager, _ := cmd.Flags().GetBool("no-pager")
		if mode == command.ModeProgram && !watch && !noPager && settings.PagerEnabled() {
			writer, cleanup = pager.SetupPager(isTTY, stdout, stderr)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		diff, err := command.NewDiff(dir, args, options, writer, stderr)
		if err != nil {
			fatal(cmd, err)
		}
		code := diff.RunContext(ctx)
		stop()
		cleanup()
		os.Exit(code)
	},
}

func init() {
	diffCmd.Flags().StringP("mode", "m", string(command.ModeInteractive), "compare mode: interactive, file or program")
	diffCmd.Flags().String("color", "auto", "when to color the output: auto, always or never")
	diffCmd.Flags().Duration("timeout", 0, "kill a program that runs longer than this in program mode (0 means no limit)")
	diffCmd.Flags().Bool("no-pager", false, "do not page program-mode output")
	diffCmd.Flags().Bool("fail-fast", false, "stop a program-mode run at the first case that does not pass")
	diffCmd.Flags().Bool("strict", false, "exit with status 1 when any program-mode case does not pass")
	diffCmd.Flags().BoolP("watch", "w", false, "in file and program mode, compare again whenever an operand changes")
	rootCmd.AddCommand(diffCmd)
}
