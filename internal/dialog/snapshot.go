package dialog

// Row is one listed candidate as the host would draw it.
type Row struct {
	Index     int    `yaml:"index"               json:"index"`
	ID        string `yaml:"id"                  json:"id"`
	Profile   string `yaml:"profile,omitempty"   json:"profile,omitempty"`
	Label     string `yaml:"label"               json:"label"`
	Selected  bool   `yaml:"selected,omitempty"  json:"selected,omitempty"`
	Removable bool   `yaml:"removable,omitempty" json:"removable,omitempty"`
}

// Snapshot is a printable view of the dialog.
type Snapshot struct {
	State           State             `yaml:"state"                      json:"state"`
	FastMode        bool              `yaml:"fast_mode"                  json:"fast_mode"`
	Position        Point             `yaml:"position"                   json:"position"`
	Size            Size              `yaml:"size"                       json:"size"`
	Rows            []Row             `yaml:"rows,omitempty"             json:"rows,omitempty"`
	Profiles        []string          `yaml:"profiles,omitempty"         json:"profiles,omitempty"`
	SelectedProfile string            `yaml:"selected_profile,omitempty" json:"selected_profile,omitempty"`
	Remembered      map[string]string `yaml:"remembered,omitempty"       json:"remembered,omitempty"`
}

// Snapshot renders the current state. Rows go through the display path, so
// their labels are cached like the ones a host list shows.
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{
		State:           m.State(),
		FastMode:        m.fastMode,
		Position:        m.geo.position,
		Size:            m.CurrentSize(),
		Profiles:        m.Profiles(),
		SelectedProfile: m.SelectedProfile(),
	}
	if len(m.lastEntries) > 0 {
		s.Remembered = m.RememberedEntries()
	}
	for i := range m.sorted {
		item, _ := m.ItemForDisplay(i)
		vt := m.ItemViewType(i)
		s.Rows = append(s.Rows, Row{
			Index:     i,
			ID:        item.ID,
			Profile:   item.Profile,
			Label:     item.DisplayLabel(),
			Selected:  vt&ViewTypeSelected != 0,
			Removable: vt&ViewTypeRemovable != 0,
		})
	}
	return s
}
