package diff

import "strings"

type EditType string

const (
	EQL EditType = "eql"
	INS EditType = "ins"
	DEL EditType = "del"
)

var SYMBOLS = map[EditType]string{
	EQL: " ",
	INS: "+",
	DEL: "-",
}

// Edit is one run of characters that is kept, inserted or deleted.
type Edit struct {
	etype EditType
	text  string
}

func NewEdit(etype EditType, text string) *Edit {
	return &Edit{
		etype: etype,
		text:  text,
	}
}

func (e Edit) Type() EditType {
	return e.etype
}

func (e Edit) Text() string {
	return e.text
}

func (e Edit) String() string {
	return SYMBOLS[e.etype] + e.text
}

// Left rebuilds the left-hand input from the equal and deleted runs.
func Left(edits []*Edit) string {
	var sb strings.Builder
	for _, e := range edits {
		if e.etype != INS {
			sb.WriteString(e.text)
		}
	}
	return sb.String()
}

// Right rebuilds the right-hand input from the equal and inserted runs.
func Right(edits []*Edit) string {
	var sb strings.Builder
	for _, e := range edits {
		if e.etype != DEL {
			sb.WriteString(e.text)
		}
	}
	return sb.String()
}

// Distance counts the characters inserted plus the characters deleted.
func Distance(edits []*Edit) int {
	n := 0
	for _, e := range edits {
		if e.etype != EQL {
			n += len([]rune(e.text))
		}
	}
	return n
}

// IsEqual reports whether the transcript contains no changes.
func IsEqual(edits []*Edit) bool {
	for _, e := range edits {
		if e.etype != EQL {
			return false
		}
	}
	return true
}
