package pipeline

import (
	"bytes"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// ErrHighlightCSS indicates highlight stylesheet generation failed.
var ErrHighlightCSS = errors.New("highlight stylesheet generation failed")

// HighlightCSS renders the class-based chroma stylesheet for a named style.
// The formatter must be configured with classes exactly like the goldmark
// highlighting extension, or the generated selectors won't match.
// Unknown style names resolve to chroma's fallback style.
func HighlightCSS(styleName string) (string, error) {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := chromahtml.New(chromahtml.WithClasses(true))

	var buf bytes.Buffer
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("%w: %v", ErrHighlightCSS, err)
	}

	return buf.String(), nil
}
