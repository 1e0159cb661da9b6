package config

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mj1618/formfill/internal/model"
	"github.com/rs/zerolog"
)

// VariablePattern matches variable tokens such as "&device_model;" inside
// item text. The first group is the variable key.
const VariablePattern = `&(\w+);`

// Listener receives what a Reader finds, in document order.
type Listener interface {
	// OnPackageName is called for every <package> element.
	OnPackageName(name string)
	// OnConfigurationItem is called for every configuration item.
	OnConfigurationItem(item *model.Item)
	// OnReadingCompleted is called once after the whole source was read.
	OnReadingCompleted()
	// OnReadingFailed is called once when the source cannot be read or parsed.
	OnReadingFailed(message string)
}

// ConfigurationError describes a configuration source that could not be loaded.
type ConfigurationError struct {
	Source Source
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("read configuration %s: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// containerNames are skipped when they appear outside a profile.
var containerNames = map[string]bool{
	"filltheformconfig": true,
	"formfillconfig":    true,
	"root":              true,
	"config":            true,
	"packages":          true,
	"profiles":          true,
}

// XMLReader reads configuration files written in the XML dialect:
//
//	<root>
//	  <packages><package>com.example.app</package></packages>
//	  <profiles>
//	    <profile name="p1"><first_name label="Ivan">Ivan</first_name></profile>
//	  </profiles>
//	  <email rememberLastEntryFor="confirm_email">&random_email;</email>
//	</root>
type XMLReader struct {
	opener *Opener
	logger zerolog.Logger
}

// NewXMLReader creates a reader that resolves sources with opener.
func NewXMLReader(opener *Opener, logger zerolog.Logger) *XMLReader {
	if opener == nil {
		opener = &Opener{}
	}
	return &XMLReader{
		opener: opener,
		logger: logger.With().Str("component", "config-reader").Logger(),
	}
}

// Opener returns the opener used to resolve sources.
func (r *XMLReader) Opener() *Opener {
	return r.opener
}

// VariablePattern returns the pattern for variable tokens in item text.
func (r *XMLReader) VariablePattern() string {
	return VariablePattern
}

// Read opens src and streams its contents to l. Failures are reported to l
// exactly once and also returned as a *ConfigurationError.
func (r *XMLReader) Read(ctx context.Context, src Source, l Listener) error {
	rc, err := r.opener.Open(ctx, src)
	if err != nil {
		return r.fail(src, err, l)
	}
	defer rc.Close()

	if err := Parse(rc, l); err != nil {
		return r.fail(src, err, l)
	}
	r.logger.Debug().Str("source", src.String()).Msg("Configuration read")
	return nil
}

func (r *XMLReader) fail(src Source, err error, l Listener) error {
	cerr := &ConfigurationError{Source: src, Err: err}
	r.logger.Error().Err(err).Str("source", src.String()).Msg("Configuration reading failed")
	l.OnReadingFailed(err.Error())
	return cerr
}

// Parse walks the XML document in rd and reports packages and items to l.
// OnReadingCompleted is called on success; on error nothing more is
// reported and the error is returned.
func Parse(rd io.Reader, l Listener) error {
	dec := xml.NewDecoder(rd)
	// Unknown entities such as &device_model; must survive as literal text.
	dec.Strict = false

	var profile string
	inProfile := false
	sawElement := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			sawElement = true
			name := t.Name.Local
			switch {
			case strings.EqualFold(name, "package"):
				text, err := elementText(dec, name)
				if err != nil {
					return err
				}
				l.OnPackageName(strings.TrimSpace(text))
			case strings.EqualFold(name, "profile"):
				profile = attr(t, "name")
				inProfile = profile != ""
			case inProfile || !containerNames[strings.ToLower(name)]:
				text, err := elementText(dec, name)
				if err != nil {
					return err
				}
				item := model.NewItem(name, profile, text)
				if label, ok := lookupAttr(t, "label"); ok {
					item.SetLabel(label)
				}
				item.RememberLastEntryFor = splitIDs(attr(t, "rememberLastEntryFor"))
				l.OnConfigurationItem(item)
			}
		case xml.EndElement:
			if strings.EqualFold(t.Name.Local, "profile") && inProfile {
				profile = ""
				inProfile = false
			}
		}
	}

	if !sawElement {
		return errors.New("configuration document has no elements")
	}
	l.OnReadingCompleted()
	return nil
}

// elementText reads character data up to the end tag of the element that
// was just opened. Nested elements are an error.
func elementText(dec *xml.Decoder, name string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("unexpected end of document inside <%s>", name)
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			return sb.String(), nil
		case xml.StartElement:
			return "", fmt.Errorf("unexpected element <%s> inside <%s>", t.Name.Local, name)
		}
	}
}

func lookupAttr(el xml.StartElement, name string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func attr(el xml.StartElement, name string) string {
	v, _ := lookupAttr(el, name)
	return v
}

func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
}
