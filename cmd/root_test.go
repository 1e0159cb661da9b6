package cmd

import (
	"testing"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	expected := []string{"load", "vars", "replay", "mode", "serve"}
	commands := rootCmd.Commands()

	found := make(map[string]bool)
	for _, c := range commands {
		found[c.Name()] = true
	}

	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
}

func TestHasScheme(t *testing.T) {
	tests := map[string]bool{
		"file:///tmp/c.xml":  true,
		"https://x/c.xml":    true,
		"http://x/c.xml":     true,
		"/tmp/c.xml":         false,
		"config/c.xml":       false,
		"C:\\configs\\c.xml": false,
	}
	for path, want := range tests {
		if got := hasScheme(path); got != want {
			t.Errorf("hasScheme(%q) = %v, want %v", path, got, want)
		}
	}
}
