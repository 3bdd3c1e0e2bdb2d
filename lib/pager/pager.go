// Package pager sends long output through less when it goes to a terminal.
package pager

import (
	"io"
	"os"
	"os/exec"

	"chardiff/lib/log"
)

// Env is added to the pager's environment: quit when the output fits on one
// screen, keep color escapes, and leave the screen as it was.
var Env = []string{"LESS=FRX"}

// Command is the pager program.
var Command = "less"

// SetupPager returns the writer output should go to and a function that
// flushes it and waits for the pager to exit. When isTTY is false, or the pager
// cannot be started, output goes straight to stdout.
func SetupPager(isTTY bool, stdout, stderr io.Writer) (io.Writer, func()) {
	if !isTTY {
		return stdout, func() {}
	}

	reader, writer := io.Pipe()

	cmd := exec.Command(Command)
	cmd.Stdin = reader
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Env = append(os.Environ(), Env...)

	if err := cmd.Start(); err != nil {
		log.Debug("starting pager %s: %v\n", Command, err)
		reader.Close()
		writer.Close()
		return stdout, func() {}
	}

	done := make(chan struct{})
	go func() {
		cmd.Wait()
		reader.Close()
		close(done)
	}()

	return writer, func() {
		writer.Close()
		<-done
	}
}
