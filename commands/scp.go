package commands

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"strconv"

	goscp "github.com/bramvdbogaerde/go-scp"
	"github.com/pegsh/pegsh/core/vos"
)

// scpSink speaks the receiving end of the SCP protocol and captures every
// transferred file into a single tar in the download area. Nothing is
// written to the virtual filesystem; the point is keeping the payload.
func scpSink(virtOS vos.VOS, destPath string) error {
	captureFd, err := virtOS.DownloadPath(fmt.Sprintf("scp_upload://%s", destPath))
	if err != nil {
		return err
	}
	defer captureFd.Close()
	tarWriter := tar.NewWriter(captureFd)
	defer tarWriter.Close()

	// The receiver opens the conversation with an ACK.
	goscp.Ack(virtOS.Stdout())

	for {
		resp, err := goscp.ParseResponse(virtOS.Stdin())
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return err
		}

		switch resp.Type {
		case 0x00, 0x01: // OK or non-fatal error.
			goscp.Ack(virtOS.Stdout())

		case 0x02:
			return errors.New("fatal protocol error")

		case 'E': // Sender is done.
			return nil

		case 'C': // One file.
			fileInfo, err := resp.ParseFileInfos()
			if err != nil {
				return err
			}
			mode, err := strconv.ParseInt(fileInfo.Permissions, 8, 64)
			if err != nil {
				return fmt.Errorf("bad mode %q", fileInfo.Permissions)
			}

			if err := tarWriter.WriteHeader(&tar.Header{
				Name: fileInfo.Filename,
				Mode: mode,
				Size: fileInfo.Size,
			}); err != nil {
				return err
			}
			goscp.Ack(virtOS.Stdout())

			if _, err := io.CopyN(tarWriter, virtOS.Stdin(), fileInfo.Size); err != nil {
				if err != io.EOF {
					return err
				}
			}
			goscp.Ack(virtOS.Stdout())

		case 'T', 'D': // Timestamps and directories: acknowledged, not kept.
			goscp.Ack(virtOS.Stdout())

		default:
			return errors.New("unknown directive")
		}
	}
}

// Scp implements the upload half of scp. Downloads pretend the
// connection failed.
func Scp(virtOS vos.VOS) int {
	cmd := &SimpleCommand{
		Use:   "scp -t TOFILE",
		Short: "Secure copy.",

		NeverBail: true,
	}

	to := cmd.Flags().String('t', "", "Start scp in upload mode")
	_ = cmd.Flags().Bool('v', "Start scp in verbose mode")
	_ = cmd.Flags().Bool('r', "Start scp in recursive mode")

	return cmd.RunE(virtOS, func() error {
		if *to == "" {
			return errors.New("couldn't connect")
		}
		return scpSink(virtOS, *to)
	})
}

var _ vos.ProcessFunc = Scp

func init() {
	mustAddBinCmd("scp", Scp)
}
