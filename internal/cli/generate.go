package cli

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/youruser/tradingcard/internal/capture"
	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/client"
	"github.com/youruser/tradingcard/internal/util"
)

var errUnknownSport = errors.New("unknown sport")

func newGenerateCmd(a *app) *cobra.Command {
	var (
		photo, sport, team, teamColor, out string
		raw, mirror, dataURL               bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Turn a photo into an AI generated card image",
		Long: `Generate sends a photo to the image model together with the sport and team
and writes the resulting image.

The photo is cropped and scaled like a webcam capture first unless --raw is
given. The sport must be one listed by "cardctl sports". The team color
defaults to the color group of a known team.

Examples:
  cardctl generate --photo selfie.jpg --sport basketball --team "Daemon Dogs" --out card.png
  cardctl generate --server http://localhost:8080 --photo selfie.jpg --sport "ice hockey" --team "Byte Bears" -o card.png
  cardctl generate --photo selfie.jpg --sport football --team "Log Leopards" --data-url > card.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			if teamColor == "" {
				if t, ok := catalog.FindTeam(team); ok {
					teamColor = t.Group
				}
			}

			var data []byte
			if raw {
				data, err = readInput(photo)
			} else {
				opts := capture.DefaultOptions()
				opts.Mirror = mirror
				var blob capture.Blob
				blob, err = capture.CaptureFile(photo, opts)
				data = blob.Data
			}
			if err != nil {
				return err
			}

			req := &cards.GenerateCardRequest{
				Sport:  cards.Sport{Type: sport},
				Team:   cards.Team{Name: team, Color: teamColor},
				Player: cards.Player{Photo: client.EncodeBase64(data)},
			}
			if err := req.Validate(); err != nil {
				return err
			}
			if !catalog.IsSport(sport) {
				return fmt.Errorf("%w: %q (known: %s)", errUnknownSport, sport, strings.Join(catalog.Sports, ", "))
			}

			dimColor.Fprintln(cmd.ErrOrStderr(), catalog.LoadingMessage(rand.Intn(max(len(catalog.LoadingMessages), 1))))

			var resp *cards.GenerateCardResponse
			if c := a.apiClient(); c != nil {
				resp, err = c.GenerateCard(cmd.Context(), req)
			} else {
				svc, serr := a.generatorService()
				if serr != nil {
					return serr
				}
				resp, err = svc.Generate(cmd.Context(), req)
			}
			if err != nil {
				return fmt.Errorf("generate card: %w", err)
			}

			b64 := client.StripDataURL(resp.Image)
			if dataURL {
				return writeText(cmd, out, client.DataURL(b64, "image/png"))
			}
			img, err := util.DecodeBase64(b64)
			if err != nil {
				return fmt.Errorf("decode generated image: %w", err)
			}
			return writeOutput(cmd, out, img)
		},
	}
	cmd.Flags().StringVarP(&photo, "photo", "p", "", "photo file (png, jpeg or webp)")
	cmd.Flags().StringVarP(&sport, "sport", "s", "", "sport the card is themed on")
	cmd.Flags().StringVarP(&team, "team", "t", "", "team name")
	cmd.Flags().StringVarP(&teamColor, "color", "c", "", "team color group or hex color")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&raw, "raw", false, "send the photo without cropping it first")
	cmd.Flags().BoolVar(&mirror, "mirror", false, "mirror the photo like a selfie camera")
	cmd.Flags().BoolVar(&dataURL, "data-url", false, "write the image as a data URL instead of PNG bytes")
	_ = cmd.MarkFlagRequired("photo")
	return cmd
}
