package shell

// parser walks a script with an explicit cursor. Rules follow ordered-choice
// (PEG) semantics: alternatives are tried top to bottom and the first match
// wins; a rule that fails partway restores the cursor to where it started so
// the next alternative sees the original input. Repetition is greedy.
type parser struct {
	src string
	pos int
}

// eof reports whether the cursor has consumed the entire input.
func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

// mark returns the current cursor position for a later reset.
func (p *parser) mark() int {
	return p.pos
}

// reset rewinds the cursor to a previously saved mark.
func (p *parser) reset(mark int) {
	p.pos = mark
}

// peek returns the byte under the cursor without consuming it.
func (p *parser) peek() (byte, bool) {
	if p.eof() {
		return 0, false
	}
	return p.src[p.pos], true
}

// lit consumes c if it is the next byte.
func (p *parser) lit(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// takeWhile1 consumes the maximal run of bytes satisfying pred. It fails
// without moving the cursor if the run would be empty: a zero-width match is
// a failure for the enclosing alternative.
func (p *parser) takeWhile1(pred func(byte) bool) (string, bool) {
	start := p.pos
	for p.pos < len(p.src) && pred(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", false
	}
	return p.src[start:p.pos], true
}

// skipWhile consumes the maximal, possibly empty, run of bytes satisfying
// pred.
func (p *parser) skipWhile(pred func(byte) bool) {
	for p.pos < len(p.src) && pred(p.src[p.pos]) {
		p.pos++
	}
}

// The grammar is byte oriented: every significant character is ASCII, and
// multi-byte UTF-8 sequences only ever appear inside words where they pass
// through untouched.

func isSpaceTab(c byte) bool {
	return c == ' ' || c == '\t'
}

func isLineEnd(c byte) bool {
	return c == '\r' || c == '\n'
}

// isWordEnd reports whether c terminates a bare word: whitespace, line
// endings, the comment and job separators, and the pipeline operators.
// Quote characters are deliberately absent; a quote inside a bare word is
// literal data.
func isWordEnd(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '#', ';', '&', '|', '<', '>':
		return true
	}
	return false
}
