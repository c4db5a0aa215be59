package cmd

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"
	containerregistry "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/tarball"
	"github.com/spf13/cobra"
)

// WhiteoutPrefix prefix means file is a whiteout.
const WhiteoutPrefix = ".wh."

// img2fs converts a Docker image to a root filesystem image
var img2fs = &cobra.Command{
	Use:   "img2fs INPUT_TAR OUTPUT_TAR_GZ [TAG]",
	Short: "Convert a docker image to a .tar.gz for use as a root filesystem.",
	Long: `Convert a docker image to a .tar.gz for use as a root filesystem.

Prepare an image by running the following:

	docker pull some-image:latest
	docker save some-image:latest > some-image.tar
	pegsh img2fs some-image.tar root_fs.tar.gz
`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		inputPath := args[0]
		outputPath := args[1]

		// Find the tag associated with the image.
		var tag name.Tag
		if len(args) == 3 {
			var err error
			tag, err = name.NewTag(args[2])
			if err != nil {
				return err
			}
		} else {
			manifest, err := tarball.LoadManifest(func() (io.ReadCloser, error) {
				return os.Open(inputPath)
			})
			if err != nil {
				return err
			}

			if len(manifest) != 1 {
				var tags []string
				for _, m := range manifest {
					tags = append(tags, m.RepoTags...)
				}

				return fmt.Errorf("multiple tags found in the input, specify one of: %q", tags)
			}
			tag, err = name.NewTag(manifest[0].RepoTags[0])
			if err != nil {
				return err
			}
		}

		image, err := tarball.ImageFromPath(inputPath, &tag)
		if err != nil {
			return err
		}

		layers, err := image.Layers()
		if err != nil {
			return err
		}

		out, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer out.Close()

		gz := gzip.NewWriter(out)
		defer gz.Close()

		return flattenImage(layers, gz)
	},
}

// flattenImage merges the image's layers into one tar stream. Whiteout
// markers are honored: a path deleted by a later layer never appears in
// the output.
func flattenImage(layers []containerregistry.Layer, w io.Writer) error {
	whiteouts, err := collectWhiteouts(layers)
	if err != nil {
		return err
	}

	tw := tar.NewWriter(w)
	defer tw.Close()

	for layerIdx, layer := range layers {
		err := walkLayer(layer, func(hdr *tar.Header, contents io.Reader) error {
			entryPath := path.Clean(hdr.Name)
			if strings.HasPrefix(path.Base(entryPath), WhiteoutPrefix) {
				return nil
			}
			if hidden(whiteouts, entryPath) {
				return nil
			}

			if err := tw.WriteHeader(hdr); err != nil {
				return err
			}
			if hdr.FileInfo().Mode().IsRegular() && hdr.Size > 0 {
				if _, err := io.Copy(tw, contents); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("layer[%d]: %v", layerIdx, err)
		}
	}

	return nil
}

// collectWhiteouts gathers the paths deleted by any layer.
func collectWhiteouts(layers []containerregistry.Layer) (map[string]bool, error) {
	whiteouts := make(map[string]bool)

	for layerIdx, layer := range layers {
		err := walkLayer(layer, func(hdr *tar.Header, contents io.Reader) error {
			entryPath := path.Clean(hdr.Name)
			base := path.Base(entryPath)
			if strings.HasPrefix(base, WhiteoutPrefix) {
				deleted := path.Join(path.Dir(entryPath), strings.TrimPrefix(base, WhiteoutPrefix))
				whiteouts[deleted] = true
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("layer[%d]: %v", layerIdx, err)
		}
	}

	return whiteouts, nil
}

// hidden reports whether entryPath or any of its parents was whited out.
func hidden(whiteouts map[string]bool, entryPath string) bool {
	for p := entryPath; p != "." && p != "/"; p = path.Dir(p) {
		if whiteouts[p] {
			return true
		}
	}
	return false
}

func walkLayer(layer containerregistry.Layer, visit func(hdr *tar.Header, contents io.Reader) error) error {
	ul, err := layer.Uncompressed()
	if err != nil {
		return fmt.Errorf("couldn't decompress layer: %v", err)
	}
	defer ul.Close()

	tarReader := tar.NewReader(ul)
	for {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("couldn't read next file in layer: %v", err)
		}

		if err := visit(hdr, tarReader); err != nil {
			return err
		}
	}
}

func init() {
	rootCmd.AddCommand(img2fs)
}
