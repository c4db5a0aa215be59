// Package shell turns script text into pipelines of jobs ready for
// execution.
//
// The grammar is evaluated with ordered-choice (PEG) semantics and is
// deliberately small: words, jobs, pipelines, redirection, background
// markers, comments, and blank-line tolerance. There is no escape character,
// no variable expansion, and no control flow; "if" is just a word. Each rule
// function below carries its grammar as a comment.
package shell

import "errors"

// ErrSyntax reports input the grammar could not fully consume.
var ErrSyntax = errors.New("shell: syntax error")

// Parse parses a script into its pipelines, in source order.
//
// Input the grammar can't fully consume yields an empty result rather than
// an error, so a malformed line never takes down the caller's read loop.
// Blank and comment-only input is a valid empty script, not a failure. Use
// ParseStrict to tell the two apart.
func Parse(src string) []Pipeline {
	pipelines, err := ParseStrict(src)
	if err != nil {
		return nil
	}
	return pipelines
}

// ParseStrict is Parse without the permissive fallback, reporting ErrSyntax
// when the grammar can't consume the entire input.
func ParseStrict(src string) ([]Pipeline, error) {
	p := &parser{src: src}
	pipelines := p.script()
	if !p.eof() {
		return nil, ErrSyntax
	}
	return pipelines, nil
}

// script <- leading pipeline (separator pipeline)* trailing
//         / unused* (newline unused*)*
//
// leading  <- (unused* newline)*
// trailing <- (newline unused*)*
//
// The first alternative parses one or more pipelines with blank and comment
// lines tolerated before, between, and after them. The second accepts a
// script with no jobs at all, yielding no pipelines; it cannot fail, so the
// caller decides success by checking for leftover input.
func (p *parser) script() []Pipeline {
	m := p.mark()
	if pipelines, ok := p.pipelines(); ok {
		return pipelines
	}
	p.reset(m)
	p.skipUnused()
	for p.newline() {
		p.skipUnused()
	}
	return nil
}

func (p *parser) pipelines() ([]Pipeline, bool) {
	for {
		m := p.mark()
		p.skipUnused()
		if !p.newline() {
			p.reset(m)
			break
		}
	}
	pl, ok := p.pipeline()
	if !ok {
		return nil, false
	}
	pipelines := []Pipeline{pl}
	for {
		m := p.mark()
		if !p.separator() {
			break
		}
		pl, ok := p.pipeline()
		if !ok {
			p.reset(m)
			break
		}
		pipelines = append(pipelines, pl)
	}
	for p.newline() {
		p.skipUnused()
	}
	return pipelines, true
}

// separator <- (jobEnding+ unused*)+
//
// One or more job endings with blank and comment runs interleaved in any
// arrangement that starts with a job ending. The interleaving is what lets
// comment-only lines sit between two pipelines.
func (p *parser) separator() bool {
	if !p.jobEnding() {
		return false
	}
	for p.jobEnding() || p.unused() {
	}
	return true
}

// pipeline <- whitespace? job (whitespace? '|' whitespace? job)*
//             whitespace? redirects whitespace? comment?
func (p *parser) pipeline() (Pipeline, bool) {
	m := p.mark()
	p.whitespace()
	j, ok := p.job()
	if !ok {
		p.reset(m)
		return Pipeline{}, false
	}
	pl := Pipeline{Jobs: []Job{j}}
	for {
		m := p.mark()
		p.whitespace()
		if !p.lit('|') {
			p.reset(m)
			break
		}
		p.whitespace()
		j, ok := p.job()
		if !ok {
			p.reset(m)
			break
		}
		pl.Jobs = append(pl.Jobs, j)
	}
	p.whitespace()
	pl.StdinFile, pl.StdoutFile = p.redirects()
	p.whitespace()
	p.comment()
	return pl, true
}

// redirects <- redirectFile('<') redirectFile('>')?
//            / redirectFile('>') redirectFile('<')?
//            / ε
//
// Trying the stdin-first form before the stdout-first form is what makes
// redirection order-independent: "cmd < a > b" and "cmd > b < a" parse to
// the same pair. The empty alternative always succeeds, so a pipeline
// without redirection passes through here with the cursor untouched.
func (p *parser) redirects() (stdinFile, stdoutFile string) {
	if in, ok := p.redirectFile('<'); ok {
		out, _ := p.redirectFile('>')
		return in, out
	}
	if out, ok := p.redirectFile('>'); ok {
		in, _ := p.redirectFile('<')
		return in, out
	}
	return "", ""
}

// redirectFile <- whitespace? op whitespace? word
//
// op is '<' or '>'. The clause consumes nothing unless it matches in full,
// so a dangling operator is left for the caller and fails the parse there.
func (p *parser) redirectFile(op byte) (string, bool) {
	m := p.mark()
	p.whitespace()
	if !p.lit(op) {
		p.reset(m)
		return "", false
	}
	p.whitespace()
	w, ok := p.word()
	if !ok {
		p.reset(m)
		return "", false
	}
	return w, true
}

// job <- word (whitespace word)* (whitespace? '&')?
//
// Words are joined by mandatory whitespace. The background marker binds to
// the job it follows, whether or not whitespace separates them.
func (p *parser) job() (Job, bool) {
	w, ok := p.word()
	if !ok {
		return Job{}, false
	}
	j := Job{Args: []string{w}}
	for {
		m := p.mark()
		if !p.whitespace() {
			break
		}
		w, ok := p.word()
		if !ok {
			p.reset(m)
			break
		}
		j.Args = append(j.Args, w)
	}
	m := p.mark()
	p.whitespace()
	if p.lit('&') {
		j.Background = true
	} else {
		p.reset(m)
	}
	return j, true
}

// word <- quoted('"') / quoted('\'') / bare
//
// bare <- [^ \t\r\n#;&|<>]+
//
// A bare word is a maximal run of non-delimiter bytes. Quote characters are
// not delimiters, so an unclosed or empty quote pair falls through to the
// bare alternative and is kept literally.
func (p *parser) word() (string, bool) {
	if w, ok := p.quoted('"'); ok {
		return w, true
	}
	if w, ok := p.quoted('\''); ok {
		return w, true
	}
	return p.takeWhile1(func(c byte) bool { return !isWordEnd(c) })
}

// quoted <- q [^q]+ q
//
// The word's value is exactly the run between the quotes. Everything except
// the closing quote character is literal inside, including the other quote
// character, '#', ';', and line endings. The interior needs at least one
// character.
func (p *parser) quoted(q byte) (string, bool) {
	m := p.mark()
	if !p.lit(q) {
		return "", false
	}
	w, ok := p.takeWhile1(func(c byte) bool { return c != q })
	if !ok || !p.lit(q) {
		p.reset(m)
		return "", false
	}
	return w, true
}

// unused <- whitespace comment? / comment
//
// One run of "nothing interesting" within a line. Never consumes a line
// ending.
func (p *parser) unused() bool {
	if p.whitespace() {
		p.comment()
		return true
	}
	return p.comment()
}

// skipUnused consumes unused*.
func (p *parser) skipUnused() {
	for p.unused() {
	}
}

// comment <- '#' [^\r\n]*
func (p *parser) comment() bool {
	if !p.lit('#') {
		return false
	}
	p.skipWhile(func(c byte) bool { return !isLineEnd(c) })
	return true
}

// whitespace <- [ \t]+
func (p *parser) whitespace() bool {
	_, ok := p.takeWhile1(isSpaceTab)
	return ok
}

// jobEnding <- ';' / newline
func (p *parser) jobEnding() bool {
	return p.lit(';') || p.newline()
}

// newline <- '\r' / '\n'
//
// CR and LF are each a line end on their own; a CRLF pair therefore counts
// as two.
func (p *parser) newline() bool {
	return p.lit('\r') || p.lit('\n')
}
