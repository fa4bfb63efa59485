// Package output renders manifest inventories for the terminal.
package output

import (
	"io"

	"github.com/sdejongh/modnorris/pkg/models"
)

// Formatter renders reconciliation results
type Formatter interface {
	// WriteSummary renders the classification counts
	WriteSummary(w io.Writer, inv *models.Inventory) error

	// WriteEntries renders every tracked entry and, optionally, the
	// untracked extras
	WriteEntries(w io.Writer, inv *models.Inventory, showExtras bool) error
}

// New returns the formatter for the requested format name
func New(format string) Formatter {
	if format == "json" {
		return NewJSONFormatter()
	}
	return NewHumanFormatter()
}
