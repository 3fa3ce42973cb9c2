package cli

import (
	"github.com/spf13/cobra"

	"github.com/youruser/tradingcard/internal/cards"
	"github.com/youruser/tradingcard/internal/client"
)

// cardFlags are shared by compose and print.
type cardFlags struct {
	image, name, first, last string
	color, logo, property    string
	back, out                string
}

func (f *cardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.image, "image", "i", "", "generated card image")
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "player name as printed")
	cmd.Flags().StringVar(&f.first, "first", "", "player first name")
	cmd.Flags().StringVar(&f.last, "last", "", "player last name")
	cmd.Flags().StringVarP(&f.color, "color", "c", "", "team color group or hex color")
	cmd.Flags().StringVarP(&f.logo, "logo", "l", "", "team name, logo file, data URL or URL on TRADINGCARD_ASSET_HOSTS")
	cmd.Flags().StringVar(&f.property, "property", "none", "special property badge (none, mvp)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("image")
}

func (f *cardFlags) request() (*cards.RenderCardRequest, error) {
	img, err := readInput(f.image)
	if err != nil {
		return nil, err
	}
	req := &cards.RenderCardRequest{
		Image:           client.EncodeBase64(img),
		PlayerName:      f.name,
		FirstName:       f.first,
		LastName:        f.last,
		TeamColor:       f.color,
		TeamLogo:        f.logo,
		SpecialProperty: f.property,
	}
	if f.back != "" {
		back, err := readInput(f.back)
		if err != nil {
			return nil, err
		}
		req.Back = client.EncodeBase64(back)
	}
	return req, nil
}

func newComposeCmd(a *app) *cobra.Command {
	f := &cardFlags{}
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose the card front PNG",
		Long: `Compose draws the card front: team color background, framed image, player
name and the circular team logo.

Examples:
  cardctl compose -i generated.png --first Ada --last Lovelace -c red -l "Daemon Dogs" -o card.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			var out []byte
			if c := a.apiClient(); c != nil {
				out, err = c.RenderCard(cmd.Context(), req)
			} else {
				r, rerr := a.renderer()
				if rerr != nil {
					return rerr
				}
				out, err = r.Front(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, f.out, out)
		},
	}
	f.register(cmd)
	return cmd
}

func newPrintCmd(a *app) *cobra.Command {
	f := &cardFlags{}
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Render a two-page printable PDF",
		Long: `Print composes the card front and places it with the card back on two
CR80 sized PDF pages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := f.request()
			if err != nil {
				return err
			}
			var out []byte
			if c := a.apiClient(); c != nil {
				out, err = c.PrintCard(cmd.Context(), req)
			} else {
				r, rerr := a.renderer()
				if rerr != nil {
					return rerr
				}
				out, err = r.Print(cmd.Context(), req)
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd, f.out, out)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.back, "back", "b", "", "card back image (default: template or generated back)")
	return cmd
}

func newBackCmd(a *app) *cobra.Command {
	var teamColor, out string
	cmd := &cobra.Command{
		Use:   "back",
		Short: "Render the card back PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.renderer()
			if err != nil {
				return err
			}
			png, err := r.Back(teamColor)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, png)
		},
	}
	cmd.Flags().StringVarP(&teamColor, "color", "c", "", "team color group or hex color")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
