package diff

// Diff returns the edits that turn a into b, computed character by character.
// Characters are Unicode code points, so multi-byte sequences are never split.
// The result is a minimal edit script: the number of inserted plus deleted
// characters is the smallest possible.
//
// Each invalid UTF-8 byte is read as U+FFFD. For valid UTF-8 input,
// concatenating the EQL and DEL runs yields a and concatenating the EQL and
// INS runs yields b. No edit is empty, and identical inputs always produce the
// same edits.
func Diff(a, b string) []*Edit {
	m := &Myers{
		a: []rune(a),
		b: []rune(b),
	}
	return m.diff()
}
