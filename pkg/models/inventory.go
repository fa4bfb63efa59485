package models

// FileLocation names which of the two managed directories a file was found in
type FileLocation string

const (
	// LocationMods is the enabled-files directory
	LocationMods FileLocation = "mods"
	// LocationDisabled is the disabled-files directory
	LocationDisabled FileLocation = "mods-disabled"
)

// EntryState classifies a manifest entry against the observed filesystem
type EntryState string

const (
	// StateOK means the file is in the expected directory and any recorded hash matches
	StateOK EntryState = "ok"
	// StateMissing means the file was found in neither directory
	StateMissing EntryState = "missing"
	// StateMoved means the file was found in the directory inconsistent with the enabled flag
	StateMoved EntryState = "moved"
	// StateHashMismatch means the file is in place but its content digest differs
	StateHashMismatch EntryState = "hash-mismatch"
)

// ModFile is one mod file observed on disk during a scan
type ModFile struct {
	Filename string
	Path     string
	Location FileLocation
	SHA256   string
}

// EntryStatus pairs a manifest entry with what the scan observed for it.
// HashOK is nil when the entry records no expected sha256.
type EntryStatus struct {
	Entry    ModEntry
	Location FileLocation
	Present  bool
	HashOK   *bool
}

// State derives the drift classification for this entry.
// Absence is checked first, then location, then hash, so a
// moved-and-corrupted file is reported as moved.
func (s EntryStatus) State() EntryState {
	if !s.Present {
		return StateMissing
	}
	if s.Entry.Enabled && s.Location != LocationMods {
		return StateMoved
	}
	if !s.Entry.Enabled && s.Location != LocationDisabled {
		return StateMoved
	}
	if s.HashOK != nil && !*s.HashOK {
		return StateHashMismatch
	}
	return StateOK
}

// Inventory is the derived reconciliation result for one manifest and one
// filesystem snapshot. It is never persisted.
type Inventory struct {
	Entries []EntryStatus
	Extras  []ModFile
}

// Summary holds the classification counts of an inventory
type Summary struct {
	Total        int `json:"total"`
	OK           int `json:"ok"`
	Missing      int `json:"missing"`
	Moved        int `json:"moved"`
	HashMismatch int `json:"hash_mismatch"`
	Extras       int `json:"extras"`
}

// Summarize counts entry classifications and extras
func (inv Inventory) Summarize() Summary {
	s := Summary{
		Total:  len(inv.Entries),
		Extras: len(inv.Extras),
	}
	for _, entry := range inv.Entries {
		switch entry.State() {
		case StateOK:
			s.OK++
		case StateMissing:
			s.Missing++
		case StateMoved:
			s.Moved++
		case StateHashMismatch:
			s.HashMismatch++
		}
	}
	return s
}
