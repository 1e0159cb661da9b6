package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profilesXML = `<?xml version="1.0" encoding="utf-8"?>
<FillTheFormConfig>
  <packages>
    <package>com.example.app</package>
    <package> com.example.other </package>
  </packages>
  <profiles>
    <profile name="p1">
      <first_name>Ivan</first_name>
      <last_name label="Surname">Jukic</last_name>
      <comment>I have &device_model;\nfrom &device_manufacturer;</comment>
    </profile>
    <profile name="p2">
      <first_name>Max</first_name>
      <email rememberLastEntryFor="confirm_email, backup_email">max@example.com</email>
    </profile>
    <profile name="p1">
      <city>Zagreb</city>
    </profile>
  </profiles>
  <first_name>random_first_name</first_name>
</FillTheFormConfig>`

func parseString(t *testing.T, src string) (*Document, error) {
	t.Helper()
	doc := &Document{}
	err := Parse(strings.NewReader(src), doc)
	return doc, err
}

func TestParse_PackagesInOrder(t *testing.T) {
	doc, err := parseString(t, profilesXML)
	require.NoError(t, err)
	assert.Equal(t, []string{"com.example.app", "com.example.other"}, doc.Packages)
	assert.True(t, doc.Completed)
}

func TestParse_ItemsCarryTagProfileAndText(t *testing.T) {
	doc, err := parseString(t, profilesXML)
	require.NoError(t, err)
	require.Len(t, doc.Items, 7)

	first := doc.Items[0]
	assert.Equal(t, "first_name", first.ID)
	assert.Equal(t, "p1", first.Profile)
	assert.Equal(t, "Ivan", first.RawValue)
	assert.Nil(t, first.Label)

	last := doc.Items[6]
	assert.Equal(t, "first_name", last.ID)
	assert.False(t, last.HasProfile(), "item after the profiles block has no profile")
	assert.Equal(t, "random_first_name", last.RawValue)
}

func TestParse_LabelAndRememberAttributes(t *testing.T) {
	doc, err := parseString(t, profilesXML)
	require.NoError(t, err)

	surname := doc.Items[1]
	require.NotNil(t, surname.Label)
	assert.Equal(t, "Surname", *surname.Label)

	email := doc.Items[4]
	assert.Equal(t, []string{"confirm_email", "backup_email"}, email.RememberLastEntryFor)
	assert.True(t, email.ShouldRememberLastEntry())
}

func TestParse_VariableTokensStayLiteral(t *testing.T) {
	doc, err := parseString(t, profilesXML)
	require.NoError(t, err)
	assert.Equal(t, `I have &device_model;\nfrom &device_manufacturer;`, doc.Items[2].RawValue)
}

func TestParse_ContainerNamesAreCaseInsensitive(t *testing.T) {
	doc, err := parseString(t, `<ROOT><Packages><PACKAGE>a.b</PACKAGE></Packages><Profiles><Profile name="x"><id1>v</id1></Profile></Profiles></ROOT>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.b"}, doc.Packages)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "id1", doc.Items[0].ID)
	assert.Equal(t, "x", doc.Items[0].Profile)
}

func TestParse_ContainerNameInsideProfileIsAnItem(t *testing.T) {
	doc, err := parseString(t, `<root><profile name="p"><config>c</config></profile></root>`)
	require.NoError(t, err)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, "config", doc.Items[0].ID)
}

func TestParse_Malformed(t *testing.T) {
	tests := map[string]string{
		"truncated tag":  `<root><first_name>Ivan</first_name`,
		"nested in item": `<root><first_name><b>x</b></first_name></root>`,
		"empty":          ``,
		"truncated item": `<root><first_name>Ivan`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			doc, err := parseString(t, src)
			require.Error(t, err)
			assert.False(t, doc.Completed)
		})
	}
}

// P1: every distinct non-container tag becomes one group holding its items.
func TestParse_GroupingProperty(t *testing.T) {
	store := NewStore(nil)
	doc, err := parseString(t, profilesXML)
	require.NoError(t, err)
	store.Apply(doc)

	assert.Equal(t, []string{"first_name", "last_name", "comment", "email", "city"}, store.FieldIDs())
	for _, id := range store.FieldIDs() {
		for _, it := range store.Group(id) {
			assert.Equal(t, id, it.ID)
		}
	}
	assert.Len(t, store.Group("first_name"), 3)
}

// P2: profiles are the distinct non-empty profile names in first-seen order.
func TestParse_ProfileDiscoveryProperty(t *testing.T) {
	store := NewStore(nil)
	doc, err := parseString(t, profilesXML)
	require.NoError(t, err)
	store.Apply(doc)

	assert.Equal(t, []string{"p1", "p2"}, store.Profiles())
	assert.Equal(t, 2, store.NumberOfProfiles())
	for _, id := range store.FieldIDs() {
		for _, it := range store.Group(id) {
			if it.HasProfile() {
				assert.Contains(t, store.Profiles(), it.Profile)
			}
		}
	}
}

func TestSplitIDs(t *testing.T) {
	assert.Nil(t, splitIDs(""))
	assert.Equal(t, []string{"a", "b", "c"}, splitIDs("a, b;c"))
}

var _ Listener = (*Document)(nil)
var _ Listener = (*Store)(nil)
