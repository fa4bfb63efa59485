package output

import (
	"encoding/json"
	"io"

	"github.com/sdejongh/modnorris/pkg/models"
)

// JSONFormatter renders machine-readable output
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonEntry struct {
	Entry    models.ModEntry     `json:"entry"`
	Status   models.EntryState   `json:"status"`
	Location models.FileLocation `json:"location,omitempty"`
	Present  bool                `json:"present"`
	HashOK   *bool               `json:"hash_ok,omitempty"`
}

type jsonExtra struct {
	Filename string              `json:"filename"`
	Location models.FileLocation `json:"location"`
	SHA256   string              `json:"sha256,omitempty"`
}

type jsonInventory struct {
	Summary models.Summary `json:"summary"`
	Entries []jsonEntry    `json:"entries"`
	Extras  []jsonExtra    `json:"extras"`
}

// WriteSummary renders the classification counts
func (f *JSONFormatter) WriteSummary(w io.Writer, inv *models.Inventory) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(inv.Summarize())
}

// WriteEntries renders the full inventory
func (f *JSONFormatter) WriteEntries(w io.Writer, inv *models.Inventory, showExtras bool) error {
	doc := jsonInventory{
		Summary: inv.Summarize(),
		Entries: make([]jsonEntry, 0, len(inv.Entries)),
		Extras:  []jsonExtra{},
	}
	for _, status := range inv.Entries {
		doc.Entries = append(doc.Entries, jsonEntry{
			Entry:    status.Entry,
			Status:   status.State(),
			Location: status.Location,
			Present:  status.Present,
			HashOK:   status.HashOK,
		})
	}
	if showExtras {
		for _, extra := range inv.Extras {
			doc.Extras = append(doc.Extras, jsonExtra{
				Filename: extra.Filename,
				Location: extra.Location,
				SHA256:   extra.SHA256,
			})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
