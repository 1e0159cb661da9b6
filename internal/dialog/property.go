package dialog

// Property names a piece of presentation state that changed.
type Property int

const (
	ExpandIcon Property = iota
	ExpandIconFastMode
	DialogVisibility
	DialogExpanded
	DialogPosition
	DialogInitialPosition
	FastModeButtonIcon
	DataSet
	DataSetScrollPosition
)

var propertyNames = [...]string{
	ExpandIcon:            "expand_icon",
	ExpandIconFastMode:    "expand_icon_fast_mode",
	DialogVisibility:      "dialog_visibility",
	DialogExpanded:        "dialog_expanded",
	DialogPosition:        "dialog_position",
	DialogInitialPosition: "dialog_initial_position",
	FastModeButtonIcon:    "fast_mode_button_icon",
	DataSet:               "data_set",
	DataSetScrollPosition: "data_set_scroll_position",
}

func (p Property) String() string {
	if p >= 0 && int(p) < len(propertyNames) {
		return propertyNames[p]
	}
	return "unknown"
}

// Observer is notified after a property changed. It reads the new state
// back from the Model.
type Observer interface {
	OnPropertyChanged(p Property)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(p Property)

// OnPropertyChanged implements Observer.
func (f ObserverFunc) OnPropertyChanged(p Property) { f(p) }

// Actions are the side effects the Model asks the host to perform.
type Actions interface {
	// SetText writes text into the focused node.
	SetText(text string)
	// PasteText copies text to the clipboard and pastes it into the node.
	PasteText(text string)
	// OpenApp brings up the companion app.
	OpenApp()
	// SaveFastModeState persists the fast mode flag.
	SaveFastModeState(enabled bool)
}

// ViewType flags describe how a list row is drawn.
type ViewType int

const (
	ViewTypeSelected  ViewType = 1
	ViewTypeNormal    ViewType = 1 << 1
	ViewTypeRemovable ViewType = 1 << 2
)

// State is the visibility state of the dialog.
type State int

const (
	Hidden State = iota
	Collapsed
	Expanded
)

func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanded:
		return "expanded"
	default:
		return "hidden"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
