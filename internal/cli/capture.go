package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/tradingcard/internal/capture"
	imagepkg "github.com/youruser/tradingcard/internal/image"
)

func newCaptureCmd() *cobra.Command {
	opts := capture.DefaultOptions()
	var format, out string
	cmd := &cobra.Command{
		Use:   "capture <frame>",
		Short: "Crop and encode a camera frame for upload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Format = capture.Format(format)
			blob, err := capture.CaptureFile(args[0], opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, blob.Data)
		},
	}
	cmd.Flags().IntVar(&opts.Width, "width", capture.DefaultWidth, "output width")
	cmd.Flags().IntVar(&opts.Height, "height", capture.DefaultHeight, "output height")
	cmd.Flags().Float64Var(&opts.Quality, "quality", capture.DefaultQuality, "jpeg quality between 0 and 1")
	cmd.Flags().BoolVar(&opts.Mirror, "mirror", false, "mirror horizontally")
	cmd.Flags().StringVar(&format, "format", string(capture.FormatJPEG), "output format (jpeg, png)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newExifCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exif",
		Short: "Inspect or write the generator metadata of a card image",
	}

	var out string
	inject := &cobra.Command{
		Use:   "inject <image>",
		Short: "Re-encode an image as PNG with the generator Software tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			tagged, err := imagepkg.InjectMetadata(data)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, tagged)
		},
	}
	inject.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	show := &cobra.Command{
		Use:   "show <image>",
		Short: "Print the Software tag of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			sw, err := imagepkg.ReadSoftware(data)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			headColor.Fprint(cmd.OutOrStdout(), "Software: ")
			fmt.Fprintln(cmd.OutOrStdout(), sw)
			return nil
		},
	}

	cmd.AddCommand(inject, show)
	return cmd
}
