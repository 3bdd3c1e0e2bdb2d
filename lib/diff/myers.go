package diff

type Myers struct {
	a []rune
	b []rune
}

func (m *Myers) diff() []*Edit {
	s := &script{}
	m.compare(s, m.a, m.b)
	return s.finish()
}

// compare appends the edits turning a into b. The common prefix and suffix are
// peeled off first, so bisect only ever sees two non-empty sequences whose
// first and last characters differ.
func (m *Myers) compare(s *script, a, b []rune) {
	prefix := commonPrefix(a, b)
	s.add(EQL, a[:prefix])
	a, b = a[prefix:], b[prefix:]

	suffix := commonSuffix(a, b)
	tail := a[len(a)-suffix:]
	a, b = a[:len(a)-suffix], b[:len(b)-suffix]

	switch {
	case len(a) == 0:
		s.add(INS, b)
	case len(b) == 0:
		s.add(DEL, a)
	default:
		x, y, ok := m.bisect(a, b)
		if !ok {
			s.add(DEL, a)
			s.add(INS, b)
			break
		}
		if (x == 0 && y == 0) || (x == len(a) && y == len(b)) {
			panic("diff: middle snake did not split the edit graph")
		}
		m.compare(s, a[:x], b[:y])
		m.compare(s, a[x:], b[y:])
	}

	s.add(EQL, tail)
}

// bisect finds the middle snake of the edit graph of a and b by running the
// greedy forward and reverse searches until they overlap. It returns the point
// where the forward D-path meets the reverse path; ok is false when the two
// sequences share no character at all.
func (m *Myers) bisect(a, b []rune) (x, y int, ok bool) {
	n, mm := len(a), len(b)
	max := (n + mm + 1) / 2
	offset := max
	size := 2*max + 2

	vf := make([]int, size)
	vb := make([]int, size)
	for i := range vf {
		vf[i] = -1
		vb[i] = -1
	}
	vf[offset+1] = 0
	vb[offset+1] = 0

	delta := n - mm
	front := delta%2 != 0

	// Diagonals that ran off the right or bottom edge are trimmed from the
	// search range.
	kfStart, kfEnd, kbStart, kbEnd := 0, 0, 0, 0

	for d := 0; d < max; d++ {
		for k := -d + kfStart; k <= d-kfEnd; k += 2 {
			idx := offset + k
			var xf int
			if k == -d || (k != d && vf[idx-1] < vf[idx+1]) {
				xf = vf[idx+1]
			} else {
				xf = vf[idx-1] + 1
			}
			yf := xf - k
			for xf < n && yf < mm && a[xf] == b[yf] {
				xf, yf = xf+1, yf+1
			}
			vf[idx] = xf

			switch {
			case xf > n:
				kfEnd += 2
			case yf > mm:
				kfStart += 2
			case front:
				bidx := offset + delta - k
				if bidx >= 0 && bidx < size && vb[bidx] != -1 {
					if xf >= n-vb[bidx] {
						return xf, yf, true
					}
				}
			}
		}

		for k := -d + kbStart; k <= d-kbEnd; k += 2 {
			idx := offset + k
			var xb int
			if k == -d || (k != d && vb[idx-1] < vb[idx+1]) {
				xb = vb[idx+1]
			} else {
				xb = vb[idx-1] + 1
			}
			yb := xb - k
			for xb < n && yb < mm && a[n-xb-1] == b[mm-yb-1] {
				xb, yb = xb+1, yb+1
			}
			vb[idx] = xb

			switch {
			case xb > n:
				kbEnd += 2
			case yb > mm:
				kbStart += 2
			case !front:
				fidx := offset + delta - k
				if fidx >= 0 && fidx < size && vf[fidx] != -1 {
					xf := vf[fidx]
					yf := offset + xf - fidx
					if xf > n || yf < 0 || yf > mm {
						continue
					}
					if xf >= n-xb {
						return xf, yf, true
					}
				}
			}
		}
	}

	return 0, 0, false
}

func commonPrefix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func commonSuffix(a, b []rune) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-n-1] == b[len(b)-n-1] {
		n++
	}
	return n
}

// script collects edits in order. Consecutive runs of the same type are
// merged, and within a block of changes every deletion is emitted before any
// insertion.
type script struct {
	edits []*Edit
	eql   []rune
	del   []rune
	ins   []rune
}

func (s *script) add(etype EditType, text []rune) {
	if len(text) == 0 {
		return
	}
	switch etype {
	case EQL:
		s.flushChanges()
		s.eql = append(s.eql, text...)
	case DEL:
		s.flushEqual()
		s.del = append(s.del, text...)
	case INS:
		s.flushEqual()
		s.ins = append(s.ins, text...)
	}
}

func (s *script) flushEqual() {
	if len(s.eql) > 0 {
		s.edits = append(s.edits, NewEdit(EQL, string(s.eql)))
		s.eql = s.eql[:0]
	}
}

func (s *script) flushChanges() {
	if len(s.del) > 0 {
		s.edits = append(s.edits, NewEdit(DEL, string(s.del)))
		s.del = s.del[:0]
	}
	if len(s.ins) > 0 {
		s.edits = append(s.edits, NewEdit(INS, string(s.ins)))
		s.ins = s.ins[:0]
	}
}

func (s *script) finish() []*Edit {
	s.flushChanges()
	s.flushEqual()
	return s.edits
}
