package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*.html
var pageTemplates embed.FS

// EmbeddedLoader serves the wrapper templates compiled into the binary.
type EmbeddedLoader struct {
	fsys fs.FS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	sub, err := fs.Sub(pageTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("assets: embedded templates: %v", err))
	}
	return &EmbeddedLoader{fsys: sub}
}

// LoadTemplate implements AssetLoader.
func (e *EmbeddedLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := fs.ReadFile(e.fsys, name+".html")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return string(content), nil
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
