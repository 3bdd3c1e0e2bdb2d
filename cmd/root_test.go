package cmd

import "testing"

func TestCommands(t *testing.T) {
	testCases := map[string]string{
		"diff":    "diff",
		"get":     "diff",
		"example": "example",
		"config":  "config",
	}
	for name, want := range testCases {
		found, _, err := rootCmd.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%s): %v", name, err)
		}
		if found.Name() != want {
			t.Errorf("%s resolves to %s, want %s", name, found.Name(), want)
		}
	}
}

func TestDiffFlags(t *testing.T) {
	for _, name := range []string{"mode", "color", "timeout", "no-pager", "fail-fast", "strict", "watch"} {
		if diffCmd.Flags().Lookup(name) == nil {
			t.Errorf("diff has no --%s flag", name)
		}
	}
	if got := diffCmd.Flags().Lookup("mode").DefValue; got != "interactive" {
		t.Errorf("default mode = %s, want interactive", got)
	}
}
