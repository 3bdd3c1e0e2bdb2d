package command

import (
	"os"
	"testing"

	"chardiff/lib/process/processtest"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	processtest.MainIfHelper()
	color.NoColor = true
	os.Exit(m.Run())
}
