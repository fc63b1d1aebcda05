package cmd

import (
	"fmt"
	"strings"

	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/render"
	"github.com/spf13/cobra"
)

type snapshotClient interface {
	Snapshot() (string, error)
	SaveSnapshot(name, body string) error
	LoadSnapshot(name string) (string, error)
}

// NewSnapshotCmd creates the snapshot command.
func NewSnapshotCmd(client snapshotClient) *cobra.Command {
	if client == nil {
		panic("NewSnapshotCmd: client dependency cannot be nil")
	}
	var save, compare string

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the layout state of every surface",
		Long: `Print one line per surface with its state, kind and geometry.

Snapshots can be saved under a name and compared later to catch layout
regressions.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := client.Snapshot()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if compare != "" {
				saved, err := client.LoadSnapshot(compare)
				if err != nil {
					return fmt.Errorf("load snapshot %s: %w", compare, err)
				}
				diff := diffLines(saved, current)
				if len(diff) == 0 {
					colors.Success(fmt.Sprintf("Layout matches snapshot %s", compare))
					return nil
				}
				fmt.Fprintln(out, strings.Join(diff, "\n"))
				return fmt.Errorf("layout differs from snapshot %s", compare)
			}

			fmt.Fprintln(out, render.Snapshot(current))
			if save != "" {
				if err := client.SaveSnapshot(save, current); err != nil {
					return fmt.Errorf("save snapshot %s: %w", save, err)
				}
				colors.Success(fmt.Sprintf("Snapshot %s saved", save))
			}
			return nil
		},
	}
	snapshotCmd.Flags().StringVar(&save, "save", "", "Save the snapshot under this name")
	snapshotCmd.Flags().StringVar(&compare, "compare", "", "Compare with a saved snapshot")
	return snapshotCmd
}

// diffLines lists lines only in want as "- " and only in got as "+ ",
// compared position by position.
func diffLines(want, got string) []string {
	a := strings.Split(strings.TrimRight(want, "\n"), "\n")
	b := strings.Split(strings.TrimRight(got, "\n"), "\n")
	var diff []string
	for i := 0; i < len(a) || i < len(b); i++ {
		var x, y string
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		if x == y {
			continue
		}
		if x != "" {
			diff = append(diff, "- "+x)
		}
		if y != "" {
			diff = append(diff, "+ "+y)
		}
	}
	return diff
}
