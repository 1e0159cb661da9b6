package resolver

import (
	"fmt"
	"strings"

	"github.com/mj1618/formfill/internal/model"
)

// Kind is the type of UI event that triggered resolution.
type Kind int

const (
	Unknown Kind = iota
	Click
	LongClick
	Focus
)

func (k Kind) String() string {
	switch k {
	case Click:
		return "click"
	case LongClick:
		return "long-click"
	case Focus:
		return "focus"
	default:
		return "unknown"
	}
}

// ParseKind converts a name such as "long-click" or "longClick" to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(s)) {
	case "click":
		return Click, nil
	case "longclick":
		return LongClick, nil
	case "focus", "focused":
		return Focus, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return Unknown, fmt.Errorf("unknown event kind %q (expected click, long-click, or focus)", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Event is a UI event delivered by the host platform.
type Event struct {
	PackageName string
	Kind        Kind
	Source      model.Node
}
