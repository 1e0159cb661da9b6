package dialog

import (
	"testing"
	"time"

	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/model"
	"github.com/mj1618/formfill/internal/resolver"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVars alternates the values of some keys so tests can tell a fresh
// lookup from a cached one.
type fakeVars struct {
	toggles map[string]bool
	clears  int
}

func newFakeVars() *fakeVars {
	return &fakeVars{toggles: map[string]bool{}}
}

func (f *fakeVars) IsVariableKey(key string) bool {
	switch key {
	case "device_model", "device_manufacturer", "random_first_name", "random_last_name":
		return true
	}
	return false
}

func (f *fakeVars) Value(key string) (string, bool) {
	switch key {
	case "device_model":
		return f.alternate(key, "Nexus 42", "Nexus 9"), true
	case "device_manufacturer":
		return "Google", true
	case "random_first_name":
		return f.alternate(key, "Luke", "Peter"), true
	case "random_last_name":
		return "Skywalker", true
	}
	return "", false
}

func (f *fakeVars) alternate(key, first, second string) string {
	f.toggles[key] = !f.toggles[key]
	if f.toggles[key] {
		return first
	}
	return second
}

func (f *fakeVars) Clear() { f.clears++ }

type recordedActions struct {
	texts  []string
	pastes []string
	opened int
	saved  []bool
}

func (r *recordedActions) SetText(text string)            { r.texts = append(r.texts, text) }
func (r *recordedActions) PasteText(text string)          { r.pastes = append(r.pastes, text) }
func (r *recordedActions) OpenApp()                       { r.opened++ }
func (r *recordedActions) SaveFastModeState(enabled bool) { r.saved = append(r.saved, enabled) }

type propertyCounter map[Property]int

func (c propertyCounter) OnPropertyChanged(p Property) { c[p]++ }

type fixture struct {
	m       *Model
	vars    *fakeVars
	actions *recordedActions
	props   propertyCounter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		vars:    newFakeVars(),
		actions: &recordedActions{},
		props:   propertyCounter{},
	}
	f.m = New(f.vars, zerolog.Nop())
	f.m.SetActions(f.actions)
	f.m.SetObserver(f.props)
	require.NoError(t, f.m.SetVariablePattern(config.VariablePattern))

	f.m.SetStatusBarHeight(72)
	f.m.SetScreenDimensions(1080, 1776)
	f.m.SetNormalDialogDimensions(135, 135)
	f.m.SetExpandedDialogDimensions(840, 630)
	return f
}

func candidates() []*model.Item {
	return []*model.Item{
		model.NewItem("first_name", "myprofile", "Ivan"),
		model.NewItem("first_name", "other_profile", "Max"),
		model.NewItem("last_name", "other_profile", "Mustermann"),
		model.NewItem("last_name", "myprofile", "Jukic"),
		model.NewItem("last_name", "myprofile", `I have &device_model;\nfrom &device_manufacturer;`),
	}
}

func displayValues(t *testing.T, m *Model) []string {
	t.Helper()
	var out []string
	for i := 0; i < m.Len(); i++ {
		item, ok := m.ItemForDisplay(i)
		require.True(t, ok)
		v, _ := item.CachedValue()
		out = append(out, v)
	}
	return out
}

func rawValues(m *Model) []string {
	var out []string
	for _, it := range m.Items() {
		out = append(out, it.RawValue)
	}
	return out
}

func TestShow_FirstLongClickCommitsFirstCandidate(t *testing.T) {
	f := newFixture(t)
	items := candidates()

	require.True(t, f.m.Show(resolver.LongClick, items))

	assert.Equal(t, Collapsed, f.m.State())
	assert.Equal(t, []string{"Ivan"}, f.actions.texts)
	assert.Equal(t, items, f.m.Items())
	assert.Equal(t, 1, f.vars.clears)
	assert.Equal(t, 1, f.props[DialogInitialPosition])
	assert.Equal(t, 1, f.props[DialogVisibility])
	assert.Equal(t, 1, f.props[DataSetScrollPosition])
	assert.Same(t, items[0], f.m.Selected())
}

func TestShow_HiddenIgnoresClickAndFocus(t *testing.T) {
	for _, kind := range []resolver.Kind{resolver.Click, resolver.Focus} {
		f := newFixture(t)
		assert.False(t, f.m.Show(kind, candidates()))
		assert.Equal(t, Hidden, f.m.State())
		assert.Zero(t, f.m.Len())
		assert.Empty(t, f.actions.texts)
	}
}

func TestShow_HiddenAcceptsUnknownKindWithoutCommitting(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.m.Show(resolver.Unknown, candidates()))
	assert.True(t, f.m.Visible())
	assert.Empty(t, f.actions.texts)
	assert.Nil(t, f.m.Selected())
}

func TestShow_VisibleClickRelistsWithoutCommitting(t *testing.T) {
	f := newFixture(t)
	f.m.Show(resolver.LongClick, candidates())
	require.True(t, f.m.Show(resolver.Click, candidates()))
	assert.Len(t, f.actions.texts, 1)
	assert.Equal(t, 1, f.props[DialogInitialPosition])
}

func TestShow_EmptyCandidatesDoNotCommit(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.m.Show(resolver.LongClick, nil))
	assert.True(t, f.m.Visible())
	assert.Empty(t, f.actions.texts)
	assert.Nil(t, f.m.Selected())
}

func TestShow_DisplaySubstitutesVariables(t *testing.T) {
	f := newFixture(t)
	f.m.Show(resolver.LongClick, candidates())
	assert.Equal(t,
		[]string{"Ivan", "Max", "Mustermann", "Jukic", "I have Nexus 42\nfrom Google"},
		displayValues(t, f.m))
}

func TestShow_EmptyPatternKeepsRawValues(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.m.SetVariablePattern(""))
	f.m.Show(resolver.LongClick, candidates())
	assert.Equal(t, `I have &device_model;\nfrom &device_manufacturer;`, displayValues(t, f.m)[4])
}

func TestSetVariablePattern_Invalid(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.m.SetVariablePattern("&(\\w+;"))
	f.m.Show(resolver.LongClick, candidates())
	assert.Equal(t, `I have &device_model;\nfrom &device_manufacturer;`, displayValues(t, f.m)[4])
}

// P3: previously selected item first, then its profile, then the rest.
func TestShow_SortsBySelectedProfile(t *testing.T) {
	f := newFixture(t)
	items := candidates()
	f.m.Show(resolver.LongClick, items)
	f.m.Show(resolver.Unknown, items)

	assert.Equal(t,
		[]string{"Ivan", "Jukic", "I have &device_model;\\nfrom &device_manufacturer;", "Max", "Mustermann"},
		rawValues(f.m))

	f.m.SelectCandidate(3)
	assert.Equal(t, "Max", f.actions.texts[len(f.actions.texts)-1])

	f.m.Show(resolver.Unknown, items)
	want := []string{"Max", "Mustermann", "Ivan", "Jukic", "I have &device_model;\\nfrom &device_manufacturer;"}
	assert.Equal(t, want, rawValues(f.m))

	// Stable on repeat.
	f.m.Show(resolver.Unknown, items)
	assert.Equal(t, want, rawValues(f.m))
}

func TestShow_ItemsWithoutProfileKeepTheirPlace(t *testing.T) {
	f := newFixture(t)
	items := []*model.Item{
		model.NewItem("f", "a", "a1"),
		model.NewItem("f", "", "none"),
		model.NewItem("f", "b", "b1"),
		model.NewItem("f", "a", "a2"),
	}
	f.m.Show(resolver.LongClick, items)
	f.m.SelectCandidate(2)
	f.m.Show(resolver.Unknown, items)

	assert.Equal(t, []string{"b1", "a1", "none", "a2"}, rawValues(f.m))
}

func TestShow_ProfileGroupingIgnoresCase(t *testing.T) {
	f := newFixture(t)
	items := []*model.Item{
		model.NewItem("f", "work", "w1"),
		model.NewItem("f", "Home", "h1"),
		model.NewItem("f", "HOME", "h2"),
	}
	f.m.Show(resolver.LongClick, items)
	f.m.SelectCandidate(1)
	f.m.Show(resolver.Unknown, items)

	assert.Equal(t, []string{"h1", "h2", "w1"}, rawValues(f.m))
}

func TestShow_SelectedItemWithoutProfileKeepsOrder(t *testing.T) {
	f := newFixture(t)
	items := []*model.Item{
		model.NewItem("f", "", "x"),
		model.NewItem("f", "", "y"),
	}
	f.m.Show(resolver.LongClick, items)
	f.m.SelectCandidate(1)
	f.m.Show(resolver.Unknown, items)
	assert.Equal(t, items, f.m.Items())
}

// P4: bare variable keys are looked up on every commit, display values
// are stable.
func TestSelectedValue_Alternation(t *testing.T) {
	f := newFixture(t)
	items := []*model.Item{model.NewItem("first_name", "myprofile", "random_first_name")}
	f.m.Show(resolver.LongClick, items)
	assert.Equal(t, []string{"Luke"}, f.actions.texts)

	second, ok := f.m.SelectedValue()
	require.True(t, ok)
	assert.Equal(t, "Peter", second)

	first := displayValues(t, f.m)
	assert.Equal(t, first, displayValues(t, f.m))
	assert.Equal(t, "random_first_name", first[0])
	assert.Nil(t, items[0].Value, "store items are never modified")
}

func TestSelectedValue_TokensUseDisplayedTextOnce(t *testing.T) {
	f := newFixture(t)
	items := []*model.Item{model.NewItem("comment", "", `I have &device_model;`)}
	f.m.Show(resolver.Unknown, items)

	shown := displayValues(t, f.m)
	assert.Equal(t, []string{"I have Nexus 42"}, shown)

	f.m.SelectCandidate(0)
	assert.Equal(t, []string{"I have Nexus 42"}, f.actions.texts)

	f.m.SelectCandidate(0)
	assert.Equal(t, "I have Nexus 9", f.actions.texts[1])
	assert.Nil(t, items[0].Value)
}

// Scenario B.
func TestSelectedValue_SubstitutesNewlineAndTokens(t *testing.T) {
	f := newFixture(t)
	items := []*model.Item{model.NewItem("comment", "", `I have &device_model;\nfrom &device_manufacturer;`)}
	f.m.Show(resolver.LongClick, items)
	assert.Equal(t, []string{"I have Nexus 42\nfrom Google"}, f.actions.texts)
}

func TestSelectedValue_UnknownTokensStay(t *testing.T) {
	f := newFixture(t)
	items := []*model.Item{model.NewItem("comment", "", "Hi &nobody; &device_manufacturer;")}
	f.m.Show(resolver.LongClick, items)
	assert.Equal(t, []string{"Hi &nobody; Google"}, f.actions.texts)
}

func TestSelectedValue_NoSelection(t *testing.T) {
	f := newFixture(t)
	_, ok := f.m.SelectedValue()
	assert.False(t, ok)
}

// P5: remember and forget.
func TestRememberLastEntry(t *testing.T) {
	f := newFixture(t)
	email := model.NewItem("email", "p1", "ivan@example.com")
	email.RememberLastEntryFor = []string{"confirm_email"}
	f.m.Show(resolver.LongClick, []*model.Item{email})

	confirm := []*model.Item{
		model.NewItem("confirm_email", "p1", "a@example.com"),
		model.NewItem("confirm_email", "p2", "b@example.com"),
	}
	f.m.Show(resolver.Unknown, confirm)
	require.Equal(t, 3, f.m.Len())
	first := f.m.Items()[0]
	assert.True(t, first.LastEntry)
	assert.Equal(t, "confirm_email", first.ID)
	assert.Equal(t, "ivan@example.com", first.RawValue)
	assert.Equal(t, ViewTypeNormal|ViewTypeRemovable, f.m.ItemViewType(0))

	row, _ := f.m.ItemForDisplay(0)
	assert.Equal(t, "ivan@example.com", row.DisplayLabel())

	f.m.SelectCandidate(0)
	assert.Equal(t, "ivan@example.com", f.actions.texts[len(f.actions.texts)-1])
	assert.Equal(t, ViewTypeSelected|ViewTypeRemovable, f.m.ItemViewType(0))

	f.m.RemoveRememberedCandidate(0)
	assert.Equal(t, 2, f.m.Len())
	assert.Empty(t, f.m.RememberedEntries())

	f.m.Show(resolver.Unknown, confirm)
	assert.Equal(t, 2, f.m.Len())
	assert.False(t, f.m.Items()[0].LastEntry)
}

func TestRememberLastEntry_Overwrites(t *testing.T) {
	f := newFixture(t)
	a := model.NewItem("email", "", "a@example.com")
	a.RememberLastEntryFor = []string{"confirm_email", "backup_email"}
	b := model.NewItem("email", "", "b@example.com")
	b.RememberLastEntryFor = []string{"confirm_email"}

	f.m.Show(resolver.LongClick, []*model.Item{a, b})
	f.m.SelectCandidate(1)

	assert.Equal(t, map[string]string{
		"confirm_email": "b@example.com",
		"backup_email":  "a@example.com",
	}, f.m.RememberedEntries())
}

func TestRemoveRememberedCandidate_OnlyLastEntries(t *testing.T) {
	f := newFixture(t)
	f.m.Show(resolver.Unknown, candidates())
	f.m.RemoveRememberedCandidate(0)
	f.m.RemoveRememberedCandidate(99)
	assert.Equal(t, 5, f.m.Len())
}

func TestClearData_ForgetsRememberedEntries(t *testing.T) {
	f := newFixture(t)
	email := model.NewItem("email", "", "x@example.com")
	email.RememberLastEntryFor = []string{"confirm_email"}
	f.m.Show(resolver.LongClick, []*model.Item{email})
	require.NotEmpty(t, f.m.RememberedEntries())

	f.m.ClearData()
	assert.Empty(t, f.m.RememberedEntries())
	assert.Nil(t, f.m.Selected())
	assert.Zero(t, f.m.Len())
}

// P6 and Scenario A.
func TestFastMode_SecondLongClickIsSuppressed(t *testing.T) {
	f := newFixture(t)
	f.m.SetFastMode(true)
	items := []*model.Item{
		model.NewItem("first_name", "p1", "Ivan"),
		model.NewItem("first_name", "p2", "Max"),
	}

	assert.True(t, f.m.Show(resolver.LongClick, items))
	assert.False(t, f.m.Show(resolver.LongClick, items))
	assert.Equal(t, []string{"Ivan"}, f.actions.texts)
}

func TestFastMode_VisibleClickCommits(t *testing.T) {
	f := newFixture(t)
	f.m.SetFastMode(true)
	items := candidates()
	f.m.Show(resolver.LongClick, items)
	f.m.Show(resolver.Focus, items)
	assert.Equal(t, []string{"Ivan", "Ivan"}, f.actions.texts)
}

func TestSetFastMode_SavesOnlyChanges(t *testing.T) {
	f := newFixture(t)
	f.m.SetFastMode(false)
	f.m.SetFastMode(true)
	f.m.SetFastMode(true)
	f.m.ToggleFastMode()
	assert.Equal(t, []bool{true, false}, f.actions.saved)
	assert.Equal(t, 4, f.props[FastModeButtonIcon])
}

func TestInit_RestoresFastModeWithoutSaving(t *testing.T) {
	f := newFixture(t)
	f.m.Init(true)
	assert.True(t, f.m.FastMode())
	assert.Empty(t, f.actions.saved)
}

// Scenario C.
func TestSelectNextProfile_WrapsAround(t *testing.T) {
	f := newFixture(t)
	f.m.SetProfiles([]string{"p1", "p2", "p3"})
	items := []*model.Item{
		model.NewItem("first_name", "p1", "Ivan"),
		model.NewItem("first_name", "p2", "Max"),
		model.NewItem("first_name", "p3", "Ana"),
	}
	f.m.Show(resolver.LongClick, items)

	f.m.SelectNextProfile()
	assert.Equal(t, "p2", f.m.SelectedProfile())
	assert.Same(t, items[1], f.m.Selected())

	f.m.SelectNextProfile()
	f.m.SelectNextProfile()
	assert.Equal(t, "p1", f.m.SelectedProfile())
	assert.Same(t, items[0], f.m.Selected())
}

func TestSelectNextProfile_NoOps(t *testing.T) {
	f := newFixture(t)
	f.m.SelectNextProfile()
	assert.Empty(t, f.m.SelectedProfile())

	f.m.SetProfiles([]string{"p1", "p2"})
	f.m.SelectNextProfile()
	assert.Equal(t, "p1", f.m.SelectedProfile(), "no selection")

	f.m.Show(resolver.LongClick, []*model.Item{model.NewItem("x", "", "plain")})
	f.m.SelectNextProfile()
	assert.Equal(t, "p1", f.m.SelectedProfile(), "selection without profile")
}

func TestSelectNextProfile_KeepsSelectionWhenProfileMissing(t *testing.T) {
	f := newFixture(t)
	f.m.SetProfiles([]string{"p1", "p2"})
	items := []*model.Item{model.NewItem("city", "p1", "Zagreb")}
	f.m.Show(resolver.LongClick, items)
	f.m.SelectNextProfile()
	assert.Equal(t, "p2", f.m.SelectedProfile())
	assert.Same(t, items[0], f.m.Selected())
}

func TestSelectNextProfile_MatchesProfileNamesExactly(t *testing.T) {
	f := newFixture(t)
	f.m.SetProfiles([]string{"home", "work"})
	items := []*model.Item{
		model.NewItem("city", "home", "Zagreb"),
		model.NewItem("city", "WORK", "Split"),
	}
	f.m.Show(resolver.LongClick, items)
	f.m.SelectNextProfile()

	assert.Equal(t, "work", f.m.SelectedProfile())
	assert.Same(t, items[0], f.m.Selected())
}

func TestSelectCandidateForPaste(t *testing.T) {
	f := newFixture(t)
	f.m.Show(resolver.Unknown, candidates())
	f.m.SelectCandidateForPaste(1)
	assert.Equal(t, []string{"Max"}, f.actions.pastes)
	assert.Empty(t, f.actions.texts)
	assert.Equal(t, ViewTypeSelected, f.m.ItemViewType(1))
	assert.Equal(t, ViewTypeNormal, f.m.ItemViewType(0))
}

func TestSelectCandidate_OutOfRange(t *testing.T) {
	f := newFixture(t)
	f.m.SelectCandidate(0)
	f.m.SelectCandidate(-1)
	assert.Empty(t, f.actions.texts)
	assert.Equal(t, ViewTypeNormal, f.m.ItemViewType(7))
	_, ok := f.m.ItemForDisplay(0)
	assert.False(t, ok)
}

func TestCloseMinimizeOpenApp(t *testing.T) {
	f := newFixture(t)
	f.m.OpenApp()
	assert.Zero(t, f.actions.opened, "hidden dialog cannot open the app")

	f.m.Show(resolver.LongClick, candidates())
	f.m.OpenApp()
	assert.Equal(t, 1, f.actions.opened)
	assert.Equal(t, Hidden, f.m.State())

	f.m.Close()
	assert.Equal(t, Hidden, f.m.State())
}

func TestTouch_TapExpandsAndClamps(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(0, 0)
	f.m.SetClock(func() time.Time { return now })
	f.m.Show(resolver.LongClick, candidates())
	f.m.SetDialogPosition(900, 1500)

	f.m.TouchDown(10, 10)
	now = now.Add(100 * time.Millisecond)
	f.m.TouchUp()

	assert.Equal(t, Expanded, f.m.State())
	assert.False(t, f.m.ExpandIconVisible())
	assert.Equal(t, Point{X: 1080 - 840, Y: 1776 - 72 - 630}, f.m.Position())

	f.m.Minimize()
	assert.Equal(t, Collapsed, f.m.State())
	assert.True(t, f.m.ExpandIconVisible())
}

func TestTouch_LongPressDoesNotExpand(t *testing.T) {
	f := newFixture(t)
	now := time.Unix(0, 0)
	f.m.SetClock(func() time.Time { return now })
	f.m.Show(resolver.LongClick, candidates())

	f.m.TouchDown(0, 0)
	now = now.Add(MaxClickDuration)
	f.m.TouchUp()
	assert.Equal(t, Collapsed, f.m.State())
}

func TestTouch_DragIsClamped(t *testing.T) {
	f := newFixture(t)
	f.m.SetDialogPosition(100, 100)

	f.m.TouchDown(50, 50)
	f.m.TouchMove(20, 70)
	assert.Equal(t, Point{X: 70, Y: 120}, f.m.Position())

	f.m.TouchMove(-500, -500)
	assert.Equal(t, Point{X: 0, Y: 0}, f.m.Position())

	f.m.TouchMove(5000, 5000)
	assert.Equal(t, Point{X: 1080 - 135, Y: 1776 - 72 - 135}, f.m.Position())
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t)
	f.m.SetProfiles([]string{"myprofile", "other_profile"})
	f.m.Show(resolver.LongClick, candidates())

	s := f.m.Snapshot()
	assert.Equal(t, Collapsed, s.State)
	require.Len(t, s.Rows, 5)
	assert.True(t, s.Rows[0].Selected)
	assert.Equal(t, "I have Nexus 42\nfrom Google", s.Rows[4].Label)
	assert.Equal(t, "myprofile", s.SelectedProfile)
	assert.Equal(t, Size{Width: 135, Height: 135}, s.Size)
}
