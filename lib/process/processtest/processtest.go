// Package processtest lets tests use their own test binary as a child program
// with a small set of scripted behaviors.
//
// A test package opts in from TestMain:
//
//	func TestMain(m *testing.M) {
//		processtest.MainIfHelper()
//		os.Exit(m.Run())
//	}
package processtest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

const helperArg = "chardiff-test-helper"

// MainIfHelper runs the requested behavior and exits when the test binary was
// started as a child by Command. Otherwise it returns immediately.
func MainIfHelper() {
	if len(os.Args) < 3 || os.Args[1] != helperArg {
		return
	}
	os.Exit(runHelper(os.Args[2], os.Args[3:]))
}

// Command returns the path and arguments that start the test binary in the
// given helper mode.
func Command(t *testing.T, mode string, args ...string) (string, []string) {
	t.Helper()

	path, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %s", err)
	}
	return path, append([]string{helperArg, mode}, args...)
}

// Args renders the helper arguments as the whitespace-delimited text used by
// test case definitions.
func Args(mode string, args ...string) string {
	return strings.Join(append([]string{helperArg, mode}, args...), " ")
}

func runHelper(mode string, args []string) int {
	switch mode {
	case "echo":
		fmt.Println(strings.Join(args, " "))
	case "cat":
		if _, err := io.Copy(os.Stdout, os.Stdin); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	case "upper":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		os.Stdout.WriteString(strings.ToUpper(string(data)))
	case "flood":
		// Write the whole output before touching stdin.
		n, _ := strconv.Atoi(args[0])
		w := bufio.NewWriter(os.Stdout)
		for i := 0; i < n; i++ {
			w.WriteByte('x')
		}
		w.Flush()
		io.Copy(io.Discard, os.Stdin)
	case "wait-eof":
		data, _ := io.ReadAll(os.Stdin)
		fmt.Printf("eof after %d bytes\n", len(data))
	case "close-stdin":
		os.Stdin.Close()
		fmt.Println("closed")
	case "exit":
		code, _ := strconv.Atoi(args[0])
		fmt.Println("bye")
		return code
	case "sleep":
		d, _ := time.ParseDuration(args[0])
		fmt.Println("sleeping")
		time.Sleep(d)
	case "kill-self":
		fmt.Println("dying")
		p, _ := os.FindProcess(os.Getpid())
		p.Kill()
		time.Sleep(time.Minute)
	case "invalid-utf8":
		os.Stdout.Write([]byte("ok\xff\xfe!"))
	default:
		fmt.Fprintf(os.Stderr, "unknown helper mode %q\n", mode)
		return 2
	}
	return 0
}
