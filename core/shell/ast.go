package shell

// Job is a single command invocation parsed from a script: the program word,
// its arguments, and whether the shell should wait for it.
type Job struct {
	// Args holds the command words in source order. Args[0] is the program
	// word; the grammar requires at least one word, so Args is never empty.
	Args []string

	// Background reports whether the job carried a trailing "&" marker.
	Background bool
}

// Pipeline is one or more jobs connected so each job's output feeds the next
// job's input, plus optional file redirection for the pipeline as a whole.
type Pipeline struct {
	// Jobs holds the pipeline's jobs in source order, never empty.
	Jobs []Job

	// StdinFile names the file the first job reads from, or "" if input is
	// not redirected. Words are never empty, so "" is unambiguous.
	StdinFile string

	// StdoutFile names the file the last job writes to, or "" if output is
	// not redirected.
	StdoutFile string
}

// Background reports whether the pipeline should run without the shell
// waiting for it. The grammar records the "&" marker on the job where it
// appeared; by convention the last job's marker governs the pipeline.
func (p Pipeline) Background() bool {
	return p.Jobs[len(p.Jobs)-1].Background
}
