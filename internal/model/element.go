package model

// Node is a UI node delivered with a host event. Implementations wrap the
// host's accessibility node handles.
type Node interface {
	// ViewID returns the fully qualified resource id, e.g. "com.app:id/email".
	ViewID() string
	// ScreenBounds returns [x, y, width, height] in screen coordinates.
	ScreenBounds() [4]int
	// FindByViewID returns the descendants whose view id equals id.
	FindByViewID(id string) []Node
}

// Element is a plain UI node tree, used for replayed and remote events.
type Element struct {
	ResourceID string    `yaml:"view_id,omitempty"  json:"view_id,omitempty"`
	Role       string    `yaml:"role,omitempty"     json:"role,omitempty"`
	Text       string    `yaml:"text,omitempty"     json:"text,omitempty"`
	Bounds     [4]int    `yaml:"bounds,flow"        json:"bounds"` // [x, y, width, height]
	Focused    bool      `yaml:"focused,omitempty"  json:"focused,omitempty"`
	Children   []Element `yaml:"children,omitempty" json:"children,omitempty"`
}

// ViewID implements Node.
func (e *Element) ViewID() string {
	return e.ResourceID
}

// ScreenBounds implements Node.
func (e *Element) ScreenBounds() [4]int {
	return e.Bounds
}

// FindByViewID implements Node with a depth-first search of the children.
// The element itself is not part of the result.
func (e *Element) FindByViewID(id string) []Node {
	var result []Node
	for i := range e.Children {
		collectByViewID(&e.Children[i], id, &result)
	}
	return result
}

func collectByViewID(e *Element, id string, result *[]Node) {
	if e.ResourceID == id {
		*result = append(*result, e)
	}
	for i := range e.Children {
		collectByViewID(&e.Children[i], id, result)
	}
}

// FindFocused returns the first focused element in the tree, or nil.
func FindFocused(elements []Element) *Element {
	for i := range elements {
		if elements[i].Focused {
			return &elements[i]
		}
		if found := FindFocused(elements[i].Children); found != nil {
			return found
		}
	}
	return nil
}
