package vos

import (
	"os"
	"time"

	"github.com/spf13/afero"
)

// FsOp names the filesystem operation a path is being mapped for.
type FsOp = string

const (
	FsOpChtimes FsOp = "chtimes"
	FsOpChmod   FsOp = "chmod"
	FsOpChown   FsOp = "chown"
	FsOpStat    FsOp = "stat"
	FsOpRename  FsOp = "rename"
	FsOpRemove  FsOp = "remove"
	FsOpOpen    FsOp = "open"
	FsOpMkdir   FsOp = "mkdir"
	FsOpCreate  FsOp = "create"
)

// PathMapper rewrites a path before it reaches the underlying filesystem.
type PathMapper func(op FsOp, name string) (path string, err error)

// PathMappingFs runs every path on a filesystem through a mapping callback
// before passing it on. NewProcFS uses it to resolve names against a
// process's working directory.
type PathMappingFs struct {
	Base   afero.Fs
	Mapper PathMapper
}

var _ afero.Fs = (*PathMappingFs)(nil)

// NewPathMappingFs wraps base so every path goes through mapper first.
func NewPathMappingFs(base afero.Fs, mapper PathMapper) afero.Fs {
	return &PathMappingFs{Base: base, Mapper: mapper}
}

// mappedFile reports the name the file was opened with rather than the
// mapped path, mirroring how os.File keeps the caller's spelling.
type mappedFile struct {
	afero.File
	name string
}

func (f *mappedFile) Name() string {
	return f.name
}

func (b *PathMappingFs) Name() string {
	return "PathMappingFs"
}

func (b *PathMappingFs) Create(name string) (afero.File, error) {
	mapped, err := b.Mapper(FsOpCreate, name)
	if err != nil {
		return nil, &os.PathError{Op: FsOpCreate, Path: name, Err: err}
	}
	fd, err := b.Base.Create(mapped)
	if err != nil {
		return nil, err
	}
	return &mappedFile{File: fd, name: name}, nil
}

func (b *PathMappingFs) Open(name string) (afero.File, error) {
	mapped, err := b.Mapper(FsOpOpen, name)
	if err != nil {
		return nil, &os.PathError{Op: FsOpOpen, Path: name, Err: err}
	}
	fd, err := b.Base.Open(mapped)
	if err != nil {
		return nil, err
	}
	return &mappedFile{File: fd, name: name}, nil
}

func (b *PathMappingFs) OpenFile(name string, flag int, mode os.FileMode) (afero.File, error) {
	mapped, err := b.Mapper(FsOpOpen, name)
	if err != nil {
		return nil, &os.PathError{Op: FsOpOpen, Path: name, Err: err}
	}
	fd, err := b.Base.OpenFile(mapped, flag, mode)
	if err != nil {
		return nil, err
	}
	return &mappedFile{File: fd, name: name}, nil
}

func (b *PathMappingFs) Mkdir(name string, mode os.FileMode) error {
	mapped, err := b.Mapper(FsOpMkdir, name)
	if err != nil {
		return &os.PathError{Op: FsOpMkdir, Path: name, Err: err}
	}
	return b.Base.Mkdir(mapped, mode)
}

func (b *PathMappingFs) MkdirAll(name string, mode os.FileMode) error {
	mapped, err := b.Mapper(FsOpMkdir, name)
	if err != nil {
		return &os.PathError{Op: FsOpMkdir, Path: name, Err: err}
	}
	return b.Base.MkdirAll(mapped, mode)
}

func (b *PathMappingFs) Remove(name string) error {
	mapped, err := b.Mapper(FsOpRemove, name)
	if err != nil {
		return &os.PathError{Op: FsOpRemove, Path: name, Err: err}
	}
	return b.Base.Remove(mapped)
}

func (b *PathMappingFs) RemoveAll(name string) error {
	mapped, err := b.Mapper(FsOpRemove, name)
	if err != nil {
		return &os.PathError{Op: FsOpRemove, Path: name, Err: err}
	}
	return b.Base.RemoveAll(mapped)
}

func (b *PathMappingFs) Rename(oldname, newname string) error {
	mappedOld, err := b.Mapper(FsOpRename, oldname)
	if err != nil {
		return &os.PathError{Op: FsOpRename, Path: oldname, Err: err}
	}
	mappedNew, err := b.Mapper(FsOpRename, newname)
	if err != nil {
		return &os.PathError{Op: FsOpRename, Path: newname, Err: err}
	}
	return b.Base.Rename(mappedOld, mappedNew)
}

func (b *PathMappingFs) Stat(name string) (os.FileInfo, error) {
	mapped, err := b.Mapper(FsOpStat, name)
	if err != nil {
		return nil, &os.PathError{Op: FsOpStat, Path: name, Err: err}
	}
	return b.Base.Stat(mapped)
}

func (b *PathMappingFs) Chmod(name string, mode os.FileMode) error {
	mapped, err := b.Mapper(FsOpChmod, name)
	if err != nil {
		return &os.PathError{Op: FsOpChmod, Path: name, Err: err}
	}
	return b.Base.Chmod(mapped, mode)
}

func (b *PathMappingFs) Chown(name string, uid, gid int) error {
	mapped, err := b.Mapper(FsOpChown, name)
	if err != nil {
		return &os.PathError{Op: FsOpChown, Path: name, Err: err}
	}
	return b.Base.Chown(mapped, uid, gid)
}

func (b *PathMappingFs) Chtimes(name string, atime, mtime time.Time) error {
	mapped, err := b.Mapper(FsOpChtimes, name)
	if err != nil {
		return &os.PathError{Op: FsOpChtimes, Path: name, Err: err}
	}
	return b.Base.Chtimes(mapped, atime, mtime)
}
