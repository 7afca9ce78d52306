// Package pipeline implements the document-to-HTML rendering pipeline.
//
// This package handles template filling, HTML conversion, and HTML injection:
//   - Template filling (receipt markdown via text/template, ID card HTML
//     via html/template)
//   - Markdown to HTML conversion via Goldmark
//   - CSS injection into HTML documents
//   - Syntax-highlight stylesheet generation via chroma
//
// PDF printing and screenshot capture are handled separately by the root
// docmill package using headless Chrome (go-rod). This separation keeps the
// pipeline focused on document structure and content, while rendering
// handles page layout, viewports, and browser concerns.
package pipeline
