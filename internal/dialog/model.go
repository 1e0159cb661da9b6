// Package dialog holds the state and behaviour of the candidate picker that
// floats over the host app: which candidates are listed for the focused
// field and in what order, which one is selected, what value a selection
// commits, which values are remembered for linked fields, and the profile
// cursor. Rendering is left to the host; it observes Property changes.
package dialog

import (
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/mj1618/formfill/internal/model"
	"github.com/mj1618/formfill/internal/resolver"
	"github.com/rs/zerolog"
)

// Variables resolves variable keys found in candidate values.
type Variables interface {
	IsVariableKey(key string) bool
	Value(key string) (string, bool)
	// Clear drops any values the provider cached for the current session.
	Clear()
}

// Model is the dialog state machine. It is not safe for concurrent use;
// the engine drives it from a single goroutine.
type Model struct {
	vars     Variables
	actions  Actions
	observer Observer
	logger   zerolog.Logger
	now      func() time.Time

	pattern *regexp.Regexp

	visible           bool
	expanded          bool
	expandIconVisible bool
	fastMode          bool

	geo geometry

	sorted   []*model.Item
	selected *model.Item
	// display caches the value shown for a listed item until the next Show
	// or until the item is committed.
	display map[*model.Item]string
	// lastEntries holds at most one remembered item per field id.
	lastEntries map[string]*model.Item

	profiles     []string
	profileIndex int
}

// New creates a hidden dialog model.
func New(vars Variables, logger zerolog.Logger) *Model {
	return &Model{
		vars:              vars,
		logger:            logger.With().Str("component", "dialog").Logger(),
		now:               time.Now,
		expandIconVisible: true,
		display:           make(map[*model.Item]string),
		lastEntries:       make(map[string]*model.Item),
	}
}

// SetActions sets the host side effects.
func (m *Model) SetActions(a Actions) { m.actions = a }

// SetObserver sets the property change observer.
func (m *Model) SetObserver(o Observer) { m.observer = o }

// SetClock replaces the time source used for tap detection.
func (m *Model) SetClock(now func() time.Time) { m.now = now }

// SetVariablePattern sets the regular expression that finds variable
// tokens; its first group is the key. With an empty pattern raw values are
// used verbatim. An invalid pattern is treated like an empty one.
func (m *Model) SetVariablePattern(pattern string) error {
	m.pattern = nil
	if pattern == "" {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		m.logger.Warn().Err(err).Str("pattern", pattern).Msg("Invalid variable pattern")
		return err
	}
	m.pattern = re
	return nil
}

// Init resets the model for a new session and restores the persisted fast
// mode flag without saving it again.
func (m *Model) Init(fastMode bool) {
	m.ClearData()
	m.fastMode = fastMode
	m.notify(FastModeButtonIcon)
}

// ClearData forgets the listed candidates, the selection, the remembered
// entries and the profile cursor.
func (m *Model) ClearData() {
	m.sorted = nil
	m.selected = nil
	m.display = make(map[*model.Item]string)
	m.lastEntries = make(map[string]*model.Item)
	m.profileIndex = 0
	m.notify(DataSet)
}

// Show lists items for a field that received an event of the given kind.
// It reports whether the event was accepted.
//
// A click or focus cannot open a hidden dialog, and a long click is
// ignored while the dialog is already open in fast mode. In fast mode or
// on a long click the first candidate is committed right away.
func (m *Model) Show(kind resolver.Kind, items []*model.Item) bool {
	if m.visible && m.fastMode && kind == resolver.LongClick {
		return false
	}
	if !m.visible && (kind == resolver.Click || kind == resolver.Focus) {
		return false
	}

	if m.vars != nil {
		m.vars.Clear()
	}
	m.display = make(map[*model.Item]string)
	m.sorted = m.sortItems(items)

	if !m.visible {
		m.setExpandIconVisible(true)
		m.setVisible(true)
		m.notify(DialogInitialPosition)
	}
	m.notify(DataSet)
	m.notify(DataSetScrollPosition)

	m.logger.Debug().
		Stringer("kind", kind).
		Int("candidates", len(m.sorted)).
		Bool("fast_mode", m.fastMode).
		Msg("Showing candidates")

	if m.fastMode || kind == resolver.LongClick {
		m.commit(0, m.setText)
	}
	return true
}

// sortItems orders a fresh candidate list. The previously selected item
// goes first, followed by the other items of its profile. A remembered
// entry for the field goes before everything.
func (m *Model) sortItems(items []*model.Item) []*model.Item {
	sorted := slices.Clone(items)

	if sel := m.selected; sel != nil && sel.HasProfile() {
		i := model.IndexOf(sorted, sel)
		if i >= 0 {
			sorted = slices.Delete(sorted, i, i+1)
		}
		partitionByProfile(sorted, sel.Profile)
		if i >= 0 {
			sorted = slices.Insert(sorted, 0, sel)
		}
	}

	if len(items) > 0 {
		fieldID := items[0].ID
		if entry, ok := m.lastEntries[fieldID]; ok {
			entry.ID = fieldID
			sorted = slices.Insert(sorted, 0, entry)
		}
	}
	return sorted
}

// partitionByProfile moves the items of profile (compared case
// insensitively) ahead of items of other profiles. Items without a profile
// keep their positions; everything else keeps its relative order.
func partitionByProfile(items []*model.Item, profile string) {
	var slots []int
	var matching, others []*model.Item
	for i, it := range items {
		if !it.HasProfile() {
			continue
		}
		slots = append(slots, i)
		if strings.EqualFold(it.Profile, profile) {
			matching = append(matching, it)
		} else {
			others = append(others, it)
		}
	}
	for i, it := range append(matching, others...) {
		items[slots[i]] = it
	}
}

// Close hides the dialog.
func (m *Model) Close() {
	if !m.visible {
		return
	}
	m.setVisible(false)
	m.setExpanded(false)
}

// Minimize collapses the dialog.
func (m *Model) Minimize() {
	m.setExpanded(false)
}

// OpenApp closes the dialog and asks the host to open the companion app.
func (m *Model) OpenApp() {
	if !m.visible {
		return
	}
	m.Close()
	if m.actions != nil {
		m.actions.OpenApp()
	}
}

// SelectCandidate selects the listed item at i and writes its value into
// the focused node.
func (m *Model) SelectCandidate(i int) {
	m.commit(i, m.setText)
}

// SelectCandidateForPaste selects the listed item at i and pastes its value.
func (m *Model) SelectCandidateForPaste(i int) {
	m.commit(i, m.pasteText)
}

func (m *Model) commit(i int, emit func(string)) {
	if i < 0 || i >= len(m.sorted) {
		return
	}
	m.selected = m.sorted[i]
	if v, ok := m.SelectedValue(); ok {
		emit(v)
	}
	m.notify(DataSet)
}

func (m *Model) setText(v string) {
	if m.actions != nil {
		m.actions.SetText(v)
	}
}

func (m *Model) pasteText(v string) {
	if m.actions != nil {
		m.actions.PasteText(v)
	}
}

// RemoveRememberedCandidate forgets the remembered entry listed at i.
// Other items cannot be removed.
func (m *Model) RemoveRememberedCandidate(i int) {
	if i < 0 || i >= len(m.sorted) || !m.sorted[i].LastEntry {
		return
	}
	delete(m.lastEntries, m.sorted[i].ID)
	m.sorted = slices.Delete(m.sorted, i, i+1)
	m.notify(DataSet)
}

// SetProfiles replaces the profile list and resets the cursor.
func (m *Model) SetProfiles(profiles []string) {
	m.profiles = slices.Clone(profiles)
	m.profileIndex = 0
}

// Profiles returns the profile list.
func (m *Model) Profiles() []string {
	return slices.Clone(m.profiles)
}

// SelectedProfile returns the profile under the cursor, or "".
func (m *Model) SelectedProfile() string {
	if len(m.profiles) == 0 {
		return ""
	}
	return m.profiles[m.profileIndex]
}

// SelectNextProfile advances the profile cursor and selects the first
// listed item of that profile. Nothing happens unless the current
// selection belongs to a profile.
func (m *Model) SelectNextProfile() {
	if m.sorted == nil || m.selected == nil || !m.selected.HasProfile() || len(m.profiles) == 0 {
		return
	}
	m.profileIndex = (m.profileIndex + 1) % len(m.profiles)
	profile := m.profiles[m.profileIndex]
	for _, it := range m.sorted {
		if it.HasProfile() && it.Profile == profile {
			m.selected = it
			m.notify(DataSet)
			return
		}
	}
}

// ToggleFastMode flips fast mode.
func (m *Model) ToggleFastMode() {
	m.SetFastMode(!m.fastMode)
}

// SetFastMode enables or disables fast mode. A change is saved through
// Actions.SaveFastModeState.
func (m *Model) SetFastMode(enabled bool) {
	changed := m.fastMode != enabled
	m.fastMode = enabled
	if changed && m.actions != nil {
		m.actions.SaveFastModeState(enabled)
	}
	m.notify(FastModeButtonIcon)
}

// FastMode reports whether fast mode is on.
func (m *Model) FastMode() bool { return m.fastMode }

// Visible reports whether the dialog is shown.
func (m *Model) Visible() bool { return m.visible }

// IsExpanded reports whether the dialog is expanded.
func (m *Model) IsExpanded() bool { return m.expanded }

// ExpandIconVisible reports whether the collapsed icon is drawn.
func (m *Model) ExpandIconVisible() bool { return m.expandIconVisible }

// State returns the visibility state.
func (m *Model) State() State {
	switch {
	case !m.visible:
		return Hidden
	case m.expanded:
		return Expanded
	default:
		return Collapsed
	}
}

func (m *Model) setVisible(v bool) {
	m.visible = v
	m.notify(DialogVisibility)
}

func (m *Model) setExpanded(v bool) {
	m.expanded = v
	m.setExpandIconVisible(!v)
	m.notify(DialogExpanded)
}

func (m *Model) setExpandIconVisible(v bool) {
	m.expandIconVisible = v
	m.notify(ExpandIcon)
	m.notify(ExpandIconFastMode)
}

func (m *Model) notify(p Property) {
	if m.observer != nil {
		m.observer.OnPropertyChanged(p)
	}
}
