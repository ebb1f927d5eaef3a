package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"reclaim/internal/deps"
	"reclaim/internal/fileutil"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and catalog access",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			rows := make([][]string, 0, 4)
			failed := false
			for _, status := range deps.CheckBinaries(deps.Default(cfg.FFmpegBinary(), cfg.FFprobeBinary())) {
				detail := status.Detail
				if status.Available {
					detail = status.Description
				} else {
					failed = true
				}
				rows = append(rows, []string{status.Name, yesNo(status.Available), detail})
			}

			catalogOK := fileutil.Exists(cfg.Paths.CatalogPath) &&
				unix.Access(cfg.Paths.CatalogPath, unix.R_OK) == nil
			if !catalogOK {
				failed = true
			}
			rows = append(rows, []string{"Catalog", yesNo(catalogOK), cfg.Paths.CatalogPath})

			denylistOK := fileutil.Exists(cfg.Paths.DenylistPath)
			rows = append(rows, []string{"Denylist", yesNo(denylistOK), cfg.Paths.DenylistPath})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"CHECK", "OK", "DETAIL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}
