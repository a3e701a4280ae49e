package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/2beens/fitassist/internal/ingest"
	"github.com/2beens/fitassist/internal/storage"

	"github.com/spf13/cobra"
)

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored snapshots of a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := storage.NewDiskRepo(opts.storageDir)
			if err != nil {
				return err
			}
			snapshots, err := repo.List(cmd.Context(), opts.userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snapshots) == 0 {
				fmt.Fprintf(out, "no snapshots stored for %s\n", opts.userID)
				return nil
			}

			families := make([]ingest.Family, 0, len(snapshots))
			for family := range snapshots {
				families = append(families, family)
			}
			sort.Slice(families, func(i, j int) bool { return families[i] < families[j] })

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FAMILY\tSNAPSHOT")
			for _, family := range families {
				for _, name := range snapshots[family] {
					fmt.Fprintf(w, "%s\t%s\n", family, name)
				}
			}
			return w.Flush()
		},
	}
}
