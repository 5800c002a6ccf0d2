package main

import (
	"fmt"
	"io"
	"slices"

	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/campaign"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

// ErrCampaignBroken is returned by validate when any problem was found.
var ErrCampaignBroken = eris.New("campaign has problems")

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [campaign-dir]",
		Short: "Load a campaign without a window and report its problems",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, log, err := setup(opts)
			if err != nil {
				return err
			}
			defer log.Sync()

			dir := settings.Game.Campaign
			if len(args) == 1 {
				dir = args[0]
			}

			registry := asset.NewRegistry()
			c, err := campaign.NewLoader(campaign.ProbeImages, log.Named("campaign")).Load(dir, registry)
			if err != nil {
				return err
			}

			problems := checkCampaign(c, registry)
			report(cmd.OutOrStdout(), c, registry, problems)
			if len(problems) > 0 {
				return eris.Wrapf(ErrCampaignBroken, "%s: %d problems", dir, len(problems))
			}
			return nil
		},
	}
}

// checkCampaign lists the records that failed to load and every manifest reference
// that does not resolve.
func checkCampaign(c *campaign.Campaign, registry *asset.Registry) []string {
	var problems []string
	for _, path := range c.Failed {
		problems = append(problems, "record failed to load: "+path)
	}

	for i, e := range c.Entities {
		atlas, ok := registry.Atlas(e.Asset)
		if !ok {
			problems = append(problems, fmt.Sprintf("entity %d: %q is not a sprite sheet", i, e.Asset))
			continue
		}
		if !atlas.Contains(e.GridPos()) {
			pos := e.GridPos()
			problems = append(problems, fmt.Sprintf("entity %d: cell (%d, %d) outside %q", i, pos.Row, pos.Column, e.Asset))
		}
		if e.Animation != nil && !slices.Contains(atlas.Animations(), e.Animation.Name) {
			problems = append(problems, fmt.Sprintf("entity %d: %q has no animation %q", i, e.Asset, e.Animation.Name))
		}
	}

	for _, id := range c.Music {
		if _, ok := registry.AudioClip(id); !ok {
			problems = append(problems, fmt.Sprintf("music %q is not an audio clip", id))
		}
	}
	return problems
}

func report(w io.Writer, c *campaign.Campaign, registry *asset.Registry, problems []string) {
	fmt.Fprintf(w, "campaign %s: %d assets, %d entities, %d music tracks\n",
		c.Name, registry.Len(), len(c.Entities), len(c.Music))
	for id, a := range registry.All() {
		fmt.Fprintf(w, "  %-12s %s\n", a.Kind(), id)
	}
	for _, p := range problems {
		fmt.Fprintf(w, "  problem: %s\n", p)
	}
}
