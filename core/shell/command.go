package shell

// Command is the process invocation a job maps to: the program to look up
// and the arguments that follow it. Whether the program exists is the
// spawner's problem, never checked here.
type Command struct {
	// Path is the program word, the job's first word as written. It may be
	// a bare name for $PATH lookup or contain separators.
	Path string

	// Args holds the arguments after the program word, in source order.
	Args []string
}

// Command builds the job's process invocation. The returned descriptor owns
// its argument slice; later changes to the job don't show through.
func (j Job) Command() Command {
	return Command{
		Path: j.Args[0],
		Args: append([]string(nil), j.Args[1:]...),
	}
}

// Argv returns the full argument vector in execve order, program word
// first.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}
