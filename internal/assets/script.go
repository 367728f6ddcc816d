package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// MaxScriptSize bounds a downloaded or read script (1MB).
const MaxScriptSize = 1 << 20

// DefaultScriptTimeout bounds the script download.
const DefaultScriptTimeout = 30 * time.Second

// ScriptLoader provides the iframe-resizer script. It is called once per
// compilation.
type ScriptLoader interface {
	LoadScript(ctx context.Context) (string, error)
}

// NewScriptLoader picks a loader for source: http(s) URLs are downloaded,
// anything else is read as a local file.
func NewScriptLoader(source string) ScriptLoader {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return &HTTPScriptLoader{URL: source}
	}
	return FileScriptLoader{Path: source}
}

// HTTPScriptLoader downloads the script.
type HTTPScriptLoader struct {
	URL    string
	Client *http.Client // nil uses a client with DefaultScriptTimeout
}

// LoadScript implements ScriptLoader.
func (l *HTTPScriptLoader) LoadScript(ctx context.Context) (string, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultScriptTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptLoad, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptLoad, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %s", ErrScriptLoad, l.URL, resp.Status)
	}

	return readLimited(resp.Body)
}

// FileScriptLoader reads the script from disk.
type FileScriptLoader struct {
	Path string
}

// LoadScript implements ScriptLoader.
func (l FileScriptLoader) LoadScript(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, err := os.Open(l.Path) // #nosec G304 -- path from configuration
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptLoad, err)
	}
	defer func() { _ = f.Close() }()

	return readLimited(f)
}

// StaticScript is a script known in advance.
type StaticScript string

// LoadScript implements ScriptLoader.
func (s StaticScript) LoadScript(context.Context) (string, error) {
	return string(s), nil
}

func readLimited(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxScriptSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrScriptLoad, err)
	}
	if len(data) > MaxScriptSize {
		return "", fmt.Errorf("%w: script exceeds %d bytes", ErrScriptLoad, MaxScriptSize)
	}
	return string(data), nil
}

// Compile-time interface checks.
var (
	_ ScriptLoader = (*HTTPScriptLoader)(nil)
	_ ScriptLoader = FileScriptLoader{}
	_ ScriptLoader = StaticScript("")
)
