package vos

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func FSTestCase(t *testing.T, suite FSTestSuite, testPath string) *FSTestCaseSetup {
	testFS := suite.MakeFS(t)

	return &FSTestCaseSetup{
		check: &FSTestCaseCheck{
			t:    t,
			fs:   testFS,
			name: testPath,
		},

		t:        t,
		fs:       testFS,
		testPath: testPath,
	}
}

func (tc *FSTestCaseSetup) MkdirTestPath(perm fs.FileMode) *FSTestCaseSetup {
	return tc.Mkdir(tc.testPath, perm)
}

func (tc *FSTestCaseSetup) Mkdir(path string, perm fs.FileMode) *FSTestCaseSetup {
	if err := tc.fs.Mkdir(path, perm); err != nil {
		tc.t.Fatal(err)
	}

	return tc
}

func (tc *FSTestCaseSetup) MkdirAllParentsTestPath(perm fs.FileMode) *FSTestCaseSetup {
	if err := tc.fs.MkdirAll(path.Dir(tc.testPath), perm); err != nil {
		tc.t.Fatal(err)
	}

	return tc
}

func (tc *FSTestCaseSetup) CreateTestPath() *FSTestCaseSetup {
	return tc.Create(tc.testPath)
}

func (tc *FSTestCaseSetup) Create(path string) *FSTestCaseSetup {
	fd, err := tc.fs.Create(path)
	if err != nil {
		tc.t.Fatal(err)
	}
	fd.Close()

	return tc
}

func (tc *FSTestCaseSetup) AssertAfter(callback func(fs VFS, name string) error) *FSTestCaseCheck {
	tc.check.err = callback(tc.fs, tc.testPath)
	return tc.check
}

type FSTestCaseSetup struct {
	check *FSTestCaseCheck

	t        *testing.T
	fs       VFS
	testPath string
}

type FSTestCaseCheck struct {
	t    *testing.T
	fs   VFS
	name string
	err  error
}

func (tc *FSTestCaseCheck) NoError() *FSTestCaseCheck {
	assert.Nil(tc.t, tc.err)
	return tc
}

func (tc *FSTestCaseCheck) Error() *FSTestCaseCheck {
	assert.Error(tc.t, tc.err)
	return tc
}

func (tc *FSTestCaseCheck) ErrorIs(desired error) *FSTestCaseCheck {
	assert.ErrorIs(tc.t, tc.err, desired)
	return tc
}

func (tc *FSTestCaseCheck) OutExists() *FSTestCaseCheck {
	return tc.Exists(tc.name)
}

func (tc *FSTestCaseCheck) Exists(name string) *FSTestCaseCheck {
	exists, err := afero.Exists(tc.fs, name)
	if err != nil {
		tc.t.Errorf("exists %q: %v", name, err)
	}
	if !exists {
		tc.t.Errorf("doesn't exist: %q", name)
	}

	return tc
}

func (tc *FSTestCaseCheck) TestPathIsDir() *FSTestCaseCheck {
	return tc.IsDir(tc.name)
}

func (tc *FSTestCaseCheck) IsDir(name string) *FSTestCaseCheck {
	info, err := tc.fs.Stat(name)
	if err != nil {
		tc.t.Errorf("stat %q: %v", name, err)
	}
	assert.True(tc.t, info.IsDir(), "IsDir()")

	return tc
}

type FSTestSuite struct {
	// MakeFS creates the FS a single test case operates on. Input paths
	// will ALWAYS be absolute and slash delimited.
	MakeFS func(t *testing.T) VFS

	// Strict enables the failure cases that need POSIX collision and
	// missing-parent checks. In-memory filesystems are laxer: they create
	// parents on demand and let files clobber directories.
	Strict bool
}

func RunFsTest(t *testing.T, suite FSTestSuite) {
	t.Run("Create", func(t *testing.T) {
		callback := func(fs VFS, name string) error {
			_, err := fs.Create(name)
			return err
		}

		t.Run("nominal", func(t *testing.T) {
			FSTestCase(t, suite, "/note.txt").
				AssertAfter(callback).
				NoError().
				OutExists()
		})
		t.Run("exists", func(t *testing.T) {
			// Create should work over existing files.
			FSTestCase(t, suite, "/note.txt").
				CreateTestPath().
				AssertAfter(callback).
				NoError().
				OutExists()
		})
		t.Run("exists as a dir", func(t *testing.T) {
			if !suite.Strict {
				t.Skip("filesystem lets files clobber directories")
			}

			// Create should fail over directories.
			FSTestCase(t, suite, "/note").
				MkdirTestPath(0700).
				AssertAfter(callback).
				Error()
		})
		t.Run("missing dir", func(t *testing.T) {
			if !suite.Strict {
				t.Skip("filesystem creates parents on demand")
			}

			FSTestCase(t, suite, "/does/not/exist/note").
				AssertAfter(callback).
				ErrorIs(fs.ErrNotExist)
		})
		t.Run("nested", func(t *testing.T) {
			FSTestCase(t, suite, "/path/that/exists/note").
				MkdirAllParentsTestPath(0700).
				AssertAfter(callback).
				NoError().
				OutExists()
		})
	})

	t.Run("Mkdir", func(t *testing.T) {
		mkdirCallback := func(fs VFS, name string) error {
			return fs.Mkdir(name, 0700)
		}

		t.Run("nominal", func(t *testing.T) {
			FSTestCase(t, suite, "/dir").
				AssertAfter(mkdirCallback).
				NoError().
				TestPathIsDir()
		})
		t.Run("exists", func(t *testing.T) {
			if !suite.Strict {
				t.Skip("filesystem tolerates repeated mkdir")
			}

			FSTestCase(t, suite, "/dir").
				MkdirTestPath(0777).
				AssertAfter(mkdirCallback).
				ErrorIs(fs.ErrExist).
				TestPathIsDir()
		})
		t.Run("exists as file", func(t *testing.T) {
			if !suite.Strict {
				t.Skip("filesystem lets directories clobber files")
			}

			FSTestCase(t, suite, "/dir").
				CreateTestPath().
				AssertAfter(mkdirCallback).
				Error()
		})
		t.Run("missing dir", func(t *testing.T) {
			if !suite.Strict {
				t.Skip("filesystem creates parents on demand")
			}

			FSTestCase(t, suite, "/does/not/exist/dir").
				AssertAfter(mkdirCallback).
				ErrorIs(fs.ErrNotExist)
		})
		t.Run("nested", func(t *testing.T) {
			FSTestCase(t, suite, "/path/that/exists/note").
				MkdirAllParentsTestPath(0700).
				AssertAfter(mkdirCallback).
				NoError().
				OutExists()
		})
	})
}

func TestMemMapFs(t *testing.T) {
	RunFsTest(t, FSTestSuite{
		MakeFS: func(t *testing.T) VFS {
			return afero.NewMemMapFs()
		},
	})
}

func TestOverlayFS(t *testing.T) {
	RunFsTest(t, FSTestSuite{
		MakeFS: func(t *testing.T) VFS {
			return NewOverlayFS(afero.NewMemMapFs())
		},
	})
}

func TestOSFs(t *testing.T) {
	RunFsTest(t, FSTestSuite{
		MakeFS: func(t *testing.T) VFS {
			return afero.NewBasePathFs(afero.NewOsFs(), t.TempDir())
		},
		Strict: true,
	})
}

func TestOverlayFSIsolation(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/tmp", 0777))
	require.NoError(t, afero.WriteFile(base, "/etc/motd", []byte("welcome\n"), 0644))

	overlay := NewOverlayFS(base)

	// Base content is visible through the overlay.
	got, err := afero.ReadFile(overlay, "/etc/motd")
	require.NoError(t, err)
	assert.Equal(t, "welcome\n", string(got))

	// Writes land in the overlay only.
	require.NoError(t, afero.WriteFile(overlay, "/etc/motd", []byte("defaced\n"), 0644))
	require.NoError(t, afero.WriteFile(overlay, "/tmp/drop", []byte("x"), 0644))

	got, err = afero.ReadFile(overlay, "/etc/motd")
	require.NoError(t, err)
	assert.Equal(t, "defaced\n", string(got))

	got, err = afero.ReadFile(base, "/etc/motd")
	require.NoError(t, err)
	assert.Equal(t, "welcome\n", string(got))

	exists, err := afero.Exists(base, "/tmp/drop")
	require.NoError(t, err)
	assert.False(t, exists)

	// Sibling overlays over the same base don't see each other's writes.
	other := NewOverlayFS(base)
	exists, err = afero.Exists(other, "/tmp/drop")
	require.NoError(t, err)
	assert.False(t, exists)
}

func rootImage(t *testing.T) io.Reader {
	t.Helper()

	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)

	// Name spellings vary across real images; all must land in the same
	// tree.
	entries := []struct {
		name     string
		typeflag byte
		mode     int64
		body     string
	}{
		{name: "./", typeflag: tar.TypeDir, mode: 0755},
		{name: "bin/", typeflag: tar.TypeDir, mode: 0755},
		{name: "./bin/ls", typeflag: tar.TypeReg, mode: 0755, body: "#!/bin/sh\n"},
		{name: "/etc", typeflag: tar.TypeDir, mode: 0755},
		{name: "etc/passwd", typeflag: tar.TypeReg, mode: 0644, body: "root:x:0:0:root:/root:/bin/sh\n"},
		{name: "dev/null", typeflag: tar.TypeChar, mode: 0666},
	}
	for _, entry := range entries {
		err := tw.WriteHeader(&tar.Header{
			Name:     entry.name,
			Typeflag: entry.typeflag,
			Mode:     entry.mode,
			Size:     int64(len(entry.body)),
		})
		require.NoError(t, err)
		_, err = io.WriteString(tw, entry.body)
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())

	return &buf
}

func TestNewRootFS(t *testing.T) {
	rootFS, err := NewRootFS(rootImage(t))
	require.NoError(t, err)

	got, err := afero.ReadFile(rootFS, "/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "root:x:0:0:root:/root:/bin/sh\n", string(got))

	// Repeated reads see the full content; the image is unpacked, not
	// served from the archive.
	got, err = afero.ReadFile(rootFS, "/etc/passwd")
	require.NoError(t, err)
	assert.Equal(t, "root:x:0:0:root:/root:/bin/sh\n", string(got))

	info, err := rootFS.Stat("/bin/ls")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())

	isDir, err := afero.IsDir(rootFS, "/etc")
	require.NoError(t, err)
	assert.True(t, isDir)

	// Device nodes have no afero equivalent and are skipped.
	exists, err := afero.Exists(rootFS, "/dev/null")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestNewRootFSBadImage(t *testing.T) {
	_, err := NewRootFS(bytes.NewReader([]byte("not a tarball")))
	assert.Error(t, err)
}

func TestNewEmptyRootFS(t *testing.T) {
	root := NewEmptyRootFS([]string{"ls", "cat", "echo"})

	for _, dir := range []string{"/bin", "/dev", "/etc", "/home", "/root", "/tmp", "/usr/bin", "/var/log"} {
		isDir, err := afero.IsDir(root, dir)
		require.NoError(t, err, dir)
		assert.True(t, isDir, dir)
	}

	info, err := root.Stat("/bin/ls")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestSeedPrograms(t *testing.T) {
	vfs := afero.NewMemMapFs()
	require.NoError(t, SeedPrograms(vfs, "/usr/local/bin", []string{"deploy", "backup"}))

	for _, name := range []string{"/usr/local/bin/deploy", "/usr/local/bin/backup"} {
		info, err := vfs.Stat(name)
		require.NoError(t, err, name)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), name)
	}
}

func TestNewProcFS(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("/home/jdoe", 0755))
	require.NoError(t, afero.WriteFile(base, "/home/jdoe/notes.txt", []byte("hi"), 0644))

	wd := "/home/jdoe"
	procFS := NewProcFS(base, func() (string, error) { return wd, nil })

	// Relative names resolve against the working directory.
	got, err := afero.ReadFile(procFS, "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))

	// Absolute names don't.
	_, err = procFS.Stat("/home/jdoe/notes.txt")
	assert.NoError(t, err)

	// Writes resolve the same way.
	require.NoError(t, afero.WriteFile(procFS, "out.txt", []byte("saved"), 0644))
	got, err = afero.ReadFile(base, "/home/jdoe/out.txt")
	require.NoError(t, err)
	assert.Equal(t, "saved", string(got))

	// A directory change moves the view.
	wd = "/"
	_, err = procFS.Stat("notes.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
