package vos

import (
	"io"
	"os"
)

// VIO is a process's standard streams. Streams are closable so pipeline
// stages can signal EOF downstream.
type VIO interface {
	Stdin() io.ReadCloser
	Stdout() io.WriteCloser
	Stderr() io.WriteCloser
}

// IOAdapter bundles three plain streams into a VIO.
type IOAdapter struct {
	IStdin  io.ReadCloser
	IStdout io.WriteCloser
	IStderr io.WriteCloser
}

var _ VIO = (*IOAdapter)(nil)

// NewIO adapts any reader and writers into a VIO, adding no-op Close
// methods where needed. A nil stream behaves like /dev/null: reads fail
// closed and writes are discarded.
func NewIO(stdin io.Reader, stdout, stderr io.Writer) *IOAdapter {
	return &IOAdapter{
		IStdin:  readCloserOrNull(stdin),
		IStdout: writeCloserOrNull(stdout),
		IStderr: writeCloserOrNull(stderr),
	}
}

// NewNullIO creates /dev/null style I/O: reads fail closed and writes are
// discarded.
func NewNullIO() VIO {
	return NewIO(nil, nil, nil)
}

func (a *IOAdapter) Stdin() io.ReadCloser {
	return a.IStdin
}

func (a *IOAdapter) Stdout() io.WriteCloser {
	return a.IStdout
}

func (a *IOAdapter) Stderr() io.WriteCloser {
	return a.IStderr
}

func readCloserOrNull(r io.Reader) io.ReadCloser {
	if r == nil {
		return &devNull{}
	}
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

func writeCloserOrNull(w io.Writer) io.WriteCloser {
	if w == nil {
		return &devNull{}
	}
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{w}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// devNull fails reads as closed and discards writes.
type devNull struct{}

var _ io.ReadCloser = (*devNull)(nil)
var _ io.WriteCloser = (*devNull)(nil)

func (*devNull) Read([]byte) (int, error) {
	return 0, os.ErrClosed
}

func (*devNull) Write(b []byte) (int, error) {
	return len(b), nil
}

func (*devNull) Close() error {
	return nil
}
