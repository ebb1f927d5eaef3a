package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"reclaim/internal/dedupe"
	"reclaim/internal/logging"
	"reclaim/internal/textutil"
)

func newGroupsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List curated duplicate groups without resolving them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			groups, err := loadCuratedGroups(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No duplicate groups to resolve.")
				return nil
			}
			if limit > 0 && len(groups) > limit {
				groups = groups[:limit]
			}

			rows := make([][]string, 0, len(groups))
			for _, group := range groups {
				rows = append(rows, []string{
					group.Hash,
					strconv.Itoa(len(group.Members)),
					strings.Join(dedupe.Models(group.Members), ", "),
					textutil.Size(group.AggregateSize()),
					groupDurationCell(group),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"PHASH", "FILES", "MODELS", "SIZE", "DURATION"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many groups (0 = all)")
	return cmd
}

// groupDurationCell renders the keeper's duration, the closest thing a group
// has to a single runtime.
func groupDurationCell(group dedupe.Group) string {
	keeper, ok := dedupe.SelectKeeper(group.Members)
	if !ok {
		return "--:--:--"
	}
	seconds, ok := keeper.Duration()
	if !ok {
		return "--:--:--"
	}
	return textutil.Duration(seconds)
}
