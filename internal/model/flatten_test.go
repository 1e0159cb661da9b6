package model

import "testing"

func TestFlattenElements_Paths(t *testing.T) {
	tree := []Element{
		{
			Role:       "form",
			ResourceID: "app:id/form",
			Children: []Element{
				{Role: "input", ResourceID: "app:id/email"},
				{Children: []Element{{Role: "input", ResourceID: "app:id/city"}}},
			},
		},
	}
	flat := FlattenElements(tree)
	if len(flat) != 4 {
		t.Fatalf("got %d elements, want 4", len(flat))
	}
	want := []string{"form", "form > input", "form > node", "form > node > input"}
	for i, w := range want {
		if flat[i].Path != w {
			t.Errorf("element %d path: got %q, want %q", i, flat[i].Path, w)
		}
	}
}

func TestFlattenElements_Empty(t *testing.T) {
	if got := FlattenElements(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}
