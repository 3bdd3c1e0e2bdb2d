package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func editStrings(edits []*Edit) []string {
	result := []string{}
	for _, e := range edits {
		result = append(result, e.String())
	}
	return result
}

func TestDiff(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected []string
	}{
		{
			a:        "kitten",
			b:        "sitting",
			expected: []string{"-k", "+s", " itt", "-e", "+i", " n", "+g"},
		},
		{
			a:        "abc",
			b:        "abxc",
			expected: []string{" ab", "+x", " c"},
		},
		{
			a:        "contents\n",
			b:        "contents\n",
			expected: []string{" contents\n"},
		},
		{
			a:        "",
			b:        "added\n",
			expected: []string{"+added\n"},
		},
		{
			a:        "removed\n",
			b:        "",
			expected: []string{"-removed\n"},
		},
		{
			a:        "",
			b:        "",
			expected: []string{},
		},
		{
			a:        "héllo wörld",
			b:        "hello world",
			expected: []string{" h", "-é", "+e", " llo w", "-ö", "+o", " rld"},
		},
		{
			a:        "日本語テキスト",
			b:        "日本語のテキスト",
			expected: []string{" 日本語", "+の", " テキスト"},
		},
		{
			a:        "abc",
			b:        "xyz",
			expected: []string{"-abc", "+xyz"},
		},
	}

	for _, tc := range testCases {
		result := editStrings(Diff(tc.a, tc.b))
		if d := cmp.Diff(tc.expected, result); d != "" {
			t.Errorf("Diff(%q, %q) mismatch (-want +got):\n%s", tc.a, tc.b, d)
		}
	}
}

func TestLeftRight(t *testing.T) {
	edits := []*Edit{
		NewEdit(DEL, "k"),
		NewEdit(INS, "s"),
		NewEdit(EQL, "itt"),
		NewEdit(DEL, "e"),
		NewEdit(INS, "i"),
		NewEdit(EQL, "n"),
		NewEdit(INS, "g"),
	}

	if got := Left(edits); got != "kitten" {
		t.Errorf("Left() = %q, want %q", got, "kitten")
	}
	if got := Right(edits); got != "sitting" {
		t.Errorf("Right() = %q, want %q", got, "sitting")
	}
	if got := Distance(edits); got != 5 {
		t.Errorf("Distance() = %d, want 5", got)
	}
	if IsEqual(edits) {
		t.Errorf("IsEqual() = true for a transcript with changes")
	}
	if !IsEqual([]*Edit{NewEdit(EQL, "same")}) {
		t.Errorf("IsEqual() = false for an all-equal transcript")
	}
}
