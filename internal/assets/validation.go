package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe to use as a filename
// fragment. Empty names, path separators, and dots (extension or traversal
// manipulation) are rejected with ErrInvalidAssetName.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
