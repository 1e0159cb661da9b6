package config

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

//go:embed assets/*.xml
var bundledAssets embed.FS

// SourceKind tells how a Source path is resolved.
type SourceKind string

const (
	// SourceAssets resolves the path inside the asset filesystem.
	SourceAssets SourceKind = "assets"
	// SourceExternal resolves the path relative to the external storage root.
	SourceExternal SourceKind = "external"
	// SourceURI treats the path as a file:// or http(s):// URI, or a plain path.
	SourceURI SourceKind = "uri"
)

// Source describes where a configuration file lives.
type Source struct {
	Kind SourceKind `yaml:"kind" json:"kind" validate:"required,oneof=assets external uri"`
	Path string     `yaml:"path" json:"path"`
}

func (s Source) String() string {
	return fmt.Sprintf("%s:%s", s.Kind, s.Path)
}

// ParseSourceKind converts a flag value to a SourceKind.
func ParseSourceKind(s string) (SourceKind, error) {
	switch SourceKind(s) {
	case SourceAssets, SourceExternal, SourceURI:
		return SourceKind(s), nil
	case "":
		return SourceURI, nil
	default:
		return "", fmt.Errorf("unknown source kind %q (expected assets, external, or uri)", s)
	}
}

// ErrEmptyPath is returned when a Source has no path.
var ErrEmptyPath = errors.New("configuration file path is empty")

var validate = validator.New()

// Opener resolves Sources to byte streams.
type Opener struct {
	// Assets is searched for SourceAssets. Nil means the bundled sample assets.
	Assets fs.FS
	// ExternalRoot is the directory SourceExternal paths are relative to.
	// Empty means the user's home directory.
	ExternalRoot string
	// HTTPClient fetches http(s) URIs. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// Open returns a reader for the source. The caller closes it.
func (o *Opener) Open(ctx context.Context, src Source) (io.ReadCloser, error) {
	if src.Path == "" {
		return nil, ErrEmptyPath
	}
	if err := validate.Struct(src); err != nil {
		return nil, fmt.Errorf("invalid source %s: %w", src, err)
	}

	switch src.Kind {
	case SourceAssets:
		assets := o.Assets
		if assets == nil {
			sub, err := fs.Sub(bundledAssets, "assets")
			if err != nil {
				return nil, err
			}
			assets = sub
		}
		return assets.Open(src.Path)
	case SourceExternal:
		root := o.ExternalRoot
		if root == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve external storage root: %w", err)
			}
			root = home
		}
		return os.Open(filepath.Join(root, src.Path))
	default:
		return o.openURI(ctx, src.Path)
	}
}

func (o *Opener) openURI(ctx context.Context, raw string) (io.ReadCloser, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Plain filesystem path (a single-letter scheme is a Windows drive).
		return os.Open(raw)
	}
	switch u.Scheme {
	case "file":
		return os.Open(u.Path)
	case "http", "https":
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
		if err != nil {
			return nil, err
		}
		client := o.HTTPClient
		if client == nil {
			client = http.DefaultClient
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetch %s: %s", raw, resp.Status)
		}
		return resp.Body, nil
	default:
		return nil, fmt.Errorf("unsupported uri scheme %q", u.Scheme)
	}
}

// LocalPath returns the filesystem path a source reads from, if any.
// Bundled assets and http(s) sources have none.
func (o *Opener) LocalPath(src Source) (string, bool) {
	switch src.Kind {
	case SourceExternal:
		if o.ExternalRoot == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", false
			}
			return filepath.Join(home, src.Path), true
		}
		return filepath.Join(o.ExternalRoot, src.Path), true
	case SourceURI:
		u, err := url.Parse(src.Path)
		if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
			return src.Path, src.Path != ""
		}
		if u.Scheme == "file" {
			return u.Path, true
		}
	}
	return "", false
}
