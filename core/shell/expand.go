package shell

import "strings"

// globMeta holds the bytes that mark an argument as a glob pattern.
const globMeta = "?*["

// Globber is the filesystem pattern-matching service consulted during
// expansion. Glob returns the paths matching pattern, in the order the
// underlying filesystem yields them.
type Globber interface {
	Glob(pattern string) ([]string, error)
}

// GlobberFunc adapts a plain function to the Globber interface.
type GlobberFunc func(pattern string) ([]string, error)

// Glob calls f(pattern).
func (f GlobberFunc) Glob(pattern string) ([]string, error) {
	return f(pattern)
}

// ExpandGlobs replaces, in place, each argument that looks like a glob
// pattern with the paths g reports for it. The command word Args[0] is a
// program lookup key, not a pattern, and is never expanded. An argument
// with no metacharacters, a pattern with no matches, or a pattern g rejects
// stays exactly as written; expansion never drops an argument.
func (j *Job) ExpandGlobs(g Globber) {
	args := []string{j.Args[0]}
	for _, arg := range j.Args[1:] {
		if strings.ContainsAny(arg, globMeta) {
			if matches, err := g.Glob(arg); err == nil && len(matches) > 0 {
				args = append(args, matches...)
				continue
			}
		}
		args = append(args, arg)
	}
	j.Args = args
}

// ExpandGlobs expands the arguments of every job in the pipeline. Run it
// once per pipeline, after parsing and before handing any of its jobs to
// the spawner.
func (p *Pipeline) ExpandGlobs(g Globber) {
	for i := range p.Jobs {
		p.Jobs[i].ExpandGlobs(g)
	}
}
