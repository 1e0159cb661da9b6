package model

// FlatElement is an element with a path breadcrumb instead of children.
type FlatElement struct {
	ResourceID string `yaml:"view_id,omitempty" json:"view_id,omitempty"`
	Role       string `yaml:"role,omitempty"    json:"role,omitempty"`
	Text       string `yaml:"text,omitempty"    json:"text,omitempty"`
	Bounds     [4]int `yaml:"bounds,flow"       json:"bounds"`
	Path       string `yaml:"path,omitempty"    json:"path,omitempty"`
}

// FlattenElements converts a tree of elements into a flat list.
// Each element gets a path string showing its location in the tree
// using roles (or "node" when the role is empty) joined with " > ".
func FlattenElements(elements []Element) []FlatElement {
	var result []FlatElement
	for _, el := range elements {
		flattenRecursive(el, "", &result)
	}
	return result
}

func flattenRecursive(el Element, parentPath string, result *[]FlatElement) {
	role := el.Role
	if role == "" {
		role = "node"
	}
	currentPath := role
	if parentPath != "" {
		currentPath = parentPath + " > " + role
	}

	*result = append(*result, FlatElement{
		ResourceID: el.ResourceID,
		Role:       el.Role,
		Text:       el.Text,
		Bounds:     el.Bounds,
		Path:       currentPath,
	})

	for _, child := range el.Children {
		flattenRecursive(child, currentPath, result)
	}
}

