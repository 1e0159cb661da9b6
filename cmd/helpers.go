package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mj1618/formfill/internal/config"
	"github.com/mj1618/formfill/internal/engine"
	"github.com/mj1618/formfill/internal/prefs"
	"github.com/spf13/cobra"
)

// addSourceFlags registers the flags that tell how configuration paths
// are resolved.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "uri", "How the path is resolved: uri, external, assets")
	cmd.Flags().String("assets-dir", "", "Directory used for --source assets (default: bundled sample)")
	cmd.Flags().String("external-root", "", "Root directory for --source external (default: home directory)")
}

func getOpener(cmd *cobra.Command) *config.Opener {
	o := &config.Opener{}
	if dir, _ := cmd.Flags().GetString("assets-dir"); dir != "" {
		o.Assets = os.DirFS(dir)
	}
	o.ExternalRoot, _ = cmd.Flags().GetString("external-root")
	return o
}

func getSource(cmd *cobra.Command, path string) (config.Source, error) {
	kindFlag, _ := cmd.Flags().GetString("source")
	kind, err := config.ParseSourceKind(kindFlag)
	if err != nil {
		return config.Source{}, err
	}
	if kind == config.SourceURI && path != "" && !hasScheme(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return config.Source{Kind: kind, Path: path}, nil
}

func hasScheme(path string) bool {
	for _, prefix := range []string{"file://", "http://", "https://"} {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// addEngineFlags registers the engine identity flags.
func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().String("self-package", engine.DefaultSelfPackage, "Own package name; its events are ignored")
	cmd.Flags().String("system-ui-package", "", "System UI package whose events are ignored")
	cmd.Flags().Bool("legacy-input", false, "Deliver all values through the clipboard")
}

func getEngineOptions(cmd *cobra.Command) engine.Options {
	self, _ := cmd.Flags().GetString("self-package")
	sysUI, _ := cmd.Flags().GetString("system-ui-package")
	return engine.Options{
		SelfPackage:     self,
		SystemUIPackage: sysUI,
		Opener:          getOpener(cmd),
	}
}

// openPrefs returns the preferences file named by --prefs or the default.
func openPrefs() (*prefs.FileStore, error) {
	path, _ := rootCmd.PersistentFlags().GetString("prefs")
	if path == "" {
		var err error
		path, err = prefs.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("resolve preferences path: %w", err)
		}
	}
	return prefs.NewFileStore(path), nil
}

// startEngine runs e until the returned stop function is called.
func startEngine(ctx context.Context, e *engine.Engine) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = e.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
