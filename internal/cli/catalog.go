package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/youruser/tradingcard/internal/cards"
)

func newTeamsCmd(a *app) *cobra.Command {
	var filter cards.TeamFilter
	cmd := &cobra.Command{
		Use:   "teams [words...]",
		Short: "List the teams, optionally filtered by color group and words",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			filter.FreeWords = strings.Join(args, " ")
			teams := catalog.FilterTeams(filter)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			headColor.Fprintln(w, "TEAM\tGROUP\tCOLOR\tLOGO")
			for _, t := range teams {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.Group, t.Color, t.Logo)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			dimColor.Fprintf(cmd.ErrOrStderr(), "%d teams\n", len(teams))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&filter.Groups, "group", "g", nil, "color groups to include")
	return cmd
}

func newSportsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sports",
		Short: "List the supported sports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := a.catalog()
			if err != nil {
				return err
			}
			for _, s := range catalog.Sports {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newVIPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "vip <first-name> <last-name>",
		Short: "Check whether a name is on the VIP list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := a.vipDirectory()
			if err != nil {
				return err
			}
			name := cards.PlayerName(args[0], args[1])
			if dir.IsVIP(args[0], args[1]) {
				okColor.Fprintf(cmd.OutOrStdout(), "%s is a VIP\n", name)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not a VIP\n", name)
			return nil
		},
	}
}
