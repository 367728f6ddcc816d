package assets

import (
	"fmt"
	"regexp"
)

// AssetLoader defines the contract for loading page templates.
type AssetLoader interface {
	// LoadTemplate loads an HTML template by name (without .html extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) (string, error)
}

// IframeTemplateName is the built-in wrapper page published for every
// rendered leaf.
const IframeTemplateName = "iframe"

// Template names are bare identifiers; they map to {name}.html.
var assetName = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateAssetName rejects names that are empty or could escape the
// templates directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if !assetName.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
