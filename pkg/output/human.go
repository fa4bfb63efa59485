package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sdejongh/modnorris/pkg/models"
)

// HumanFormatter renders aligned text tables
type HumanFormatter struct{}

// NewHumanFormatter creates a human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// WriteSummary renders the classification counts
func (f *HumanFormatter) WriteSummary(w io.Writer, inv *models.Inventory) error {
	summary := inv.Summarize()

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Tracked mods:\t%d\n", summary.Total)
	fmt.Fprintf(tw, "Healthy:\t%d\n", summary.OK)
	fmt.Fprintf(tw, "Missing:\t%d\n", summary.Missing)
	fmt.Fprintf(tw, "Misplaced:\t%d\n", summary.Moved)
	fmt.Fprintf(tw, "Hash mismatch:\t%d\n", summary.HashMismatch)
	fmt.Fprintf(tw, "Extras:\t%d\n", summary.Extras)
	return tw.Flush()
}

// WriteEntries renders every tracked entry plus the untracked extras
func (f *HumanFormatter) WriteEntries(w io.Writer, inv *models.Inventory, showExtras bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFILENAME\tENABLED\tSTATUS\tHASH")
	for _, status := range inv.Entries {
		name := status.Entry.Name
		if name == "" {
			name = "-"
		}
		enabled := "no"
		if status.Entry.Enabled {
			enabled = "yes"
		}
		hash := "-"
		if status.HashOK != nil {
			if *status.HashOK {
				hash = "ok"
			} else {
				hash = "mismatch"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			status.Entry.ID, name, status.Entry.Filename, enabled, status.State(), hash)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if showExtras && len(inv.Extras) > 0 {
		fmt.Fprintln(w, "\nUntracked files:")
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FILENAME\tLOCATION")
		for _, extra := range inv.Extras {
			fmt.Fprintf(tw, "%s\t%s\n", extra.Filename, extra.Location)
		}
		return tw.Flush()
	}
	return nil
}
