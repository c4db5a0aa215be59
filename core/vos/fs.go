package vos

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/afero"
)

// VFS is the filesystem a process sees. It is afero's interface, so the
// whole afero toolkit applies to it directly.
type VFS = afero.Fs

// NewRootFS unpacks a gzipped tar image into an in-memory base
// filesystem. The image is the system's pristine root; sessions never
// write to it directly, they each get an overlay from NewOverlayFS.
func NewRootFS(r io.Reader) (VFS, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading filesystem image: %v", err)
	}
	defer gr.Close()

	root := afero.NewMemMapFs()
	if err := ExtractTarToVFS(root, tar.NewReader(gr)); err != nil {
		return nil, fmt.Errorf("reading filesystem image: %v", err)
	}
	return root, nil
}

// ExtractTarToVFS unpacks t into vfs. Entry kinds with no afero
// equivalent, like device nodes and symlinks, are skipped.
func ExtractTarToVFS(vfs VFS, t *tar.Reader) error {
	for {
		hdr, err := t.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		name := "/" + strings.TrimPrefix(strings.TrimSuffix(hdr.Name, "/"), "/")
		if err := extractEntry(vfs, name, hdr, t); err != nil {
			return fmt.Errorf("extracting %q: %v", name, err)
		}
	}
}

func extractEntry(vfs VFS, name string, hdr *tar.Header, content io.Reader) error {
	// Make parents
	vfs.MkdirAll(path.Dir(name), 0777)

	mode := hdr.FileInfo().Mode()
	switch {
	case mode.IsDir():
		err := vfs.Mkdir(name, mode)
		switch {
		case os.IsExist(err):
			// Do nothing
		case err != nil:
			return err
		}
	case mode.IsRegular():
		fd, err := vfs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, mode)
		if err != nil {
			return err
		}
		// Don't defer the close because it'd update the modification time.
		if _, err := io.CopyN(fd, content, hdr.Size); err != nil {
			fd.Close()
			return err
		}
		fd.Close()
	default:
		return nil
	}

	if err := vfs.Chown(name, hdr.Uid, hdr.Gid); err != nil {
		return err
	}
	if err := vfs.Chmod(name, mode); err != nil {
		return err
	}
	return vfs.Chtimes(name, hdr.FileInfo().ModTime(), hdr.FileInfo().ModTime())
}

// NewEmptyRootFS builds a minimal root filesystem from scratch for hosts
// with no filesystem image: the usual top-level directories plus stub
// executables so $PATH lookups succeed for the given program names.
func NewEmptyRootFS(programs []string) VFS {
	root := afero.NewMemMapFs()
	for _, dir := range []string{
		"/bin",
		"/dev",
		"/etc",
		"/home",
		"/root",
		"/tmp",
		"/usr/bin",
		"/var/log",
	} {
		_ = root.MkdirAll(dir, 0755)
	}
	_ = SeedPrograms(root, "/bin", programs)
	return root
}

// SeedPrograms creates an empty executable stub in dir for each named
// program, so path resolution treats them as real binaries.
func SeedPrograms(vfs VFS, dir string, programs []string) error {
	if err := vfs.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, name := range programs {
		if err := afero.WriteFile(vfs, path.Join(dir, name), nil, 0755); err != nil {
			return err
		}
	}
	return nil
}

// NewOverlayFS layers a writable in-memory filesystem over base. Writes
// land in the overlay; base is never modified.
func NewOverlayFS(base VFS) VFS {
	return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(base), afero.NewMemMapFs())
}

// NewProcFS gives a process its own view of fs: relative names resolve
// against the process's working directory instead of the filesystem root.
func NewProcFS(base VFS, getwd func() (dir string, err error)) VFS {
	return NewPathMappingFs(base, func(op FsOp, name string) (string, error) {
		if path.IsAbs(name) {
			return path.Clean(name), nil
		}
		wd, err := getwd()
		if err != nil {
			return "", err
		}
		return path.Join(wd, name), nil
	})
}
