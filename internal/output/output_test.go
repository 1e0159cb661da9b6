package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

type sample struct {
	Action string   `yaml:"action"           json:"action"`
	Rows   []string `yaml:"rows,omitempty"   json:"rows,omitempty"`
	Note   string   `yaml:"note,omitempty"   json:"note,omitempty"`
	Count  int      `yaml:"count"            json:"count"`
}

func capture(t *testing.T, format Format, pretty bool, v any) string {
	t.Helper()
	oldW, oldF, oldP := Writer, OutputFormat, PrettyOutput
	defer func() { Writer, OutputFormat, PrettyOutput = oldW, oldF, oldP }()

	var buf bytes.Buffer
	Writer, OutputFormat, PrettyOutput = &buf, format, pretty
	if err := Print(v); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestPrint_YAML(t *testing.T) {
	out := capture(t, FormatYAML, false, sample{Action: "load", Rows: []string{"a", "b"}, Count: 2})

	if bytes.Count([]byte(out), []byte("\n")) <= 1 {
		t.Errorf("YAML output should be multi-line, got:\n%s", out)
	}
	var decoded sample
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if decoded.Action != "load" || len(decoded.Rows) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestPrint_JSONCompact(t *testing.T) {
	out := capture(t, FormatJSON, false, sample{Action: "load", Count: 1})

	if bytes.Count([]byte(out), []byte("\n")) > 1 {
		t.Errorf("compact output should be single line, got:\n%s", out)
	}
	var decoded sample
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Count != 1 {
		t.Errorf("count: got %d, want 1", decoded.Count)
	}
}

func TestPrint_JSONPretty(t *testing.T) {
	out := capture(t, FormatJSON, true, sample{Action: "load", Rows: []string{"a"}})
	if bytes.Count([]byte(out), []byte("\n")) <= 1 {
		t.Errorf("pretty output should be multi-line, got:\n%s", out)
	}
}

func TestPrint_JSONDoesNotEscapeHTML(t *testing.T) {
	out := capture(t, FormatJSON, false, sample{Action: "<&>"})
	if !bytes.Contains([]byte(out), []byte("<&>")) {
		t.Errorf("expected raw characters, got %s", out)
	}
}

func TestPrint_UnsupportedFormat(t *testing.T) {
	oldF := OutputFormat
	defer func() { OutputFormat = oldF }()
	OutputFormat = "xml"
	if err := Print(sample{}); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestResult_OmitEmpty(t *testing.T) {
	data, err := yaml.Marshal(Result{OK: true, Action: "mode", TS: 123})
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["message"]; ok {
		t.Error("empty message should be omitted")
	}
	if _, ok := m["data"]; ok {
		t.Error("nil data should be omitted")
	}
	if _, ok := m["ts"]; !ok {
		t.Error("ts should always be present")
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"yaml", "json"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q): %v", s, err)
		}
	}
	if _, err := ParseFormat("toml"); err == nil {
		t.Error("expected an error for toml")
	}
}
