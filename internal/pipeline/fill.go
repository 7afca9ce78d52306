package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

// Sentinel errors for template filling.
var (
	ErrDocumentRender = errors.New("document template rendering failed")
	ErrCardRender     = errors.New("card template rendering failed")
)

// DocumentFill renders a markdown document template with record data.
// It uses text/template: markdown punctuation must survive intact, and
// HTML escaping happens downstream in the Goldmark conversion.
type DocumentFill struct {
	tmpl *texttemplate.Template
}

// NewDocumentFill parses markdown template content.
// Returns error if the template cannot be parsed.
func NewDocumentFill(tmplContent string) (*DocumentFill, error) {
	tmpl, err := texttemplate.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing document template: %w", err)
	}

	return &DocumentFill{tmpl: tmpl}, nil
}

// Fill renders the template with data.
func (f *DocumentFill) Fill(data any) (string, error) {
	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// CardFill renders an HTML card template with record data.
// It uses html/template so roster fields are escaped on the way in.
type CardFill struct {
	tmpl *htmltemplate.Template
}

// NewCardFill parses HTML card template content.
// Returns error if the template cannot be parsed.
func NewCardFill(tmplContent string) (*CardFill, error) {
	tmpl, err := htmltemplate.New("card").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("parsing card template: %w", err)
	}

	return &CardFill{tmpl: tmpl}, nil
}

// Fill renders the template with data.
func (f *CardFill) Fill(data any) (string, error) {
	var buf bytes.Buffer
	if err := f.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCardRender, err)
	}
	return buf.String(), nil
}
