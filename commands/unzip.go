package commands

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/pegsh/pegsh/core/vos"
)

// Unzip implements a basic unzip command.
func Unzip(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "unzip [OPTION...] FILE[.zip]...",
		Short: "Extract files from a zip.",
	}

	return cmd.Run(virtOS, func() int {
		for _, arg := range cmd.Flags().Args() {
			fmt.Fprintf(virtOS.Stdout(), "Archive: %s\n", arg)
			err := func() error {
				fd, err := virtOS.Open(arg)
				if err != nil {
					return err
				}
				defer fd.Close()
				stat, err := fd.Stat()
				if err != nil {
					return err
				}

				reader, err := zip.NewReader(fd, stat.Size())
				if err != nil {
					return err
				}

				for _, file := range reader.File {
					extractErr := func() error {
						if file.FileInfo().IsDir() {
							fmt.Fprintf(virtOS.Stdout(), "   creating: %s\n", file.Name)
							return virtOS.MkdirAll(file.Name, fs.FileMode(0777))
						}

						// Make directories if necessary
						if dir := path.Dir(file.Name); dir != "" {
							if err := virtOS.MkdirAll(dir, fs.FileMode(0777)); err != nil {
								return err
							}
						}

						fmt.Fprintf(virtOS.Stdout(), " extracting: %s\n", file.Name)
						outFd, outErr := virtOS.Create(file.Name)
						if outErr != nil {
							return outErr
						}
						defer outFd.Close()

						zipFd, zipErr := file.Open()
						if zipErr != nil {
							return zipErr
						}
						defer zipFd.Close()

						_, err := io.Copy(outFd, zipFd)
						return err
					}()
					if extractErr != nil {
						fmt.Fprintf(virtOS.Stderr(), "unzip: %v\n", extractErr)
					}
				}
				return nil
			}()
			if err != nil {
				fmt.Fprintf(virtOS.Stderr(), "unzip: %v\n", err)
				return 1
			}
		}

		return 0
	})
}

var _ vos.ProcessFunc = Unzip

func init() {
	mustAddBinCmd("unzip", Unzip)
}
