package vos

import (
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"
)

// ProcessFunc is the body of a process: it gets a complete virtual OS and
// returns an exit code.
type ProcessFunc func(VOS) int

// ProcessResolver maps an executable path to the process that implements
// it, or nil if the path isn't a known program.
type ProcessResolver func(path string) ProcessFunc

// ProcAttr holds the attributes applied to a process started by
// StartProcess.
type ProcAttr struct {
	// If Dir is non-empty, the child changes into the directory before
	// the process body runs.
	Dir string

	// If Env is non-nil, it gives the child's environment variables in
	// the form returned by Environ. If it is nil, the child copies the
	// parent's environment.
	Env []string

	// Files specifies the standard streams of the new process. If nil the
	// child gets /dev/null style streams.
	Files VIO
}

// ErrNotFound is the error resulting if a path search failed to find an
// executable file.
var ErrNotFound = exec.ErrNotFound

func findExecutable(v VOS, file string) error {
	d, err := v.Stat(file)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case err != nil:
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return fs.ErrPermission
}

// LookPath searches for an executable named file in the directories named
// by the PATH environment variable. If file contains a slash, it is tried
// directly and the PATH is not consulted. The result may be an absolute
// path or a path relative to the current directory.
func LookPath(v VOS, file string) (string, error) {
	if strings.Contains(file, "/") {
		if err := findExecutable(v, file); err != nil {
			return "", err
		}
		return file, nil
	}
	for _, dir := range filepath.SplitList(v.Getenv("PATH")) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		path := filepath.Join(dir, file)
		if err := findExecutable(v, path); err == nil {
			return path, nil
		}
	}
	return "", ErrNotFound
}
