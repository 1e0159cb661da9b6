package dialog

import (
	"slices"
	"strings"

	"github.com/mj1618/formfill/internal/model"
)

// Len returns the number of listed candidates.
func (m *Model) Len() int { return len(m.sorted) }

// Items returns the listed candidates in display order. The items must not
// be modified.
func (m *Model) Items() []*model.Item {
	return slices.Clone(m.sorted)
}

// Selected returns the selected item, or nil.
func (m *Model) Selected() *model.Item {
	return m.selected
}

// ItemForDisplay returns a copy of the listed item at i carrying the value
// to show. The value is resolved once and reused until the next Show, so a
// label stays put while the user scrolls.
func (m *Model) ItemForDisplay(i int) (*model.Item, bool) {
	if i < 0 || i >= len(m.sorted) {
		return nil, false
	}
	item := m.sorted[i]
	v, ok := m.display[item]
	if !ok {
		v = m.resolve(item)
		m.display[item] = v
	}
	out := item.Clone()
	out.SetValue(v)
	return out, true
}

// ItemViewType returns the row flags for the listed item at i.
func (m *Model) ItemViewType(i int) ViewType {
	vt := ViewTypeNormal
	if i < 0 || i >= len(m.sorted) {
		return vt
	}
	if m.selected != nil && i == model.IndexOf(m.sorted, m.selected) {
		vt = ViewTypeSelected
	}
	if m.sorted[i].LastEntry {
		vt |= ViewTypeRemovable
	}
	return vt
}

// SelectedValue returns the text a commit of the selected item writes.
//
// A remembered entry yields its stored text. A raw value that is a
// variable key is looked up on every call. Other values use the displayed
// text once, then are substituted afresh on later calls. Items that name
// linked fields get a remembered entry for each of them.
func (m *Model) SelectedValue() (string, bool) {
	sel := m.selected
	if sel == nil {
		return "", false
	}
	if sel.LastEntry {
		if v, ok := sel.CachedValue(); ok {
			return v, true
		}
		return sel.RawValue, true
	}

	prepared, ok := m.prepareForInput(sel)
	if !ok {
		return "", false
	}
	v, _ := prepared.CachedValue()
	if prepared.ShouldRememberLastEntry() {
		m.rememberLastEntry(prepared, v)
	}
	return v, true
}

func (m *Model) prepareForInput(sel *model.Item) (*model.Item, bool) {
	if m.vars != nil && m.vars.IsVariableKey(sel.RawValue) {
		v, ok := m.vars.Value(sel.RawValue)
		if !ok {
			return nil, false
		}
		out := sel.Clone()
		out.SetValue(v)
		return out, true
	}

	v, ok := m.display[sel]
	if ok {
		delete(m.display, sel)
	} else {
		v = m.resolve(sel)
	}
	out := sel.Clone()
	out.SetValue(v)
	return out, true
}

func (m *Model) rememberLastEntry(prepared *model.Item, value string) {
	for _, id := range prepared.RememberLastEntryFor {
		entry := prepared.Clone()
		entry.SetLabel(value)
		entry.RawValue = value
		entry.LastEntry = true
		m.lastEntries[id] = entry
	}
	m.logger.Debug().Strs("fields", prepared.RememberLastEntryFor).Msg("Remembered last entry")
}

// RememberedEntries returns the remembered text per field id.
func (m *Model) RememberedEntries() map[string]string {
	out := make(map[string]string, len(m.lastEntries))
	for id, e := range m.lastEntries {
		out[id] = e.RawValue
	}
	return out
}

func (m *Model) resolve(item *model.Item) string {
	if v, ok := item.CachedValue(); ok {
		return v
	}
	if m.pattern == nil {
		return item.RawValue
	}
	return m.substitute(item.RawValue)
}

// substitute expands escaped newlines and replaces every variable token
// with its value. Tokens without a value stay as they are.
func (m *Model) substitute(text string) string {
	text = strings.ReplaceAll(text, `\n`, "\n")
	if m.pattern.NumSubexp() == 0 {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, loc := range m.pattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[2] < 0 {
			continue
		}
		v, ok := m.lookup(text[loc[2]:loc[3]])
		if !ok {
			continue
		}
		sb.WriteString(text[last:loc[0]])
		sb.WriteString(v)
		last = loc[1]
	}
	sb.WriteString(text[last:])
	return sb.String()
}

func (m *Model) lookup(key string) (string, bool) {
	if m.vars == nil {
		return "", false
	}
	return m.vars.Value(key)
}
