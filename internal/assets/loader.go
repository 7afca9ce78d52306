package assets

// Style names shipped with the embedded assets. Theme styles double as ID
// card themes: the service loads the style named after the configured theme.
const (
	StyleReceipt = "receipt"
	StyleModern  = "modern"
	StyleClassic = "classic"
	StyleMinimal = "minimal"
)

// Template names understood by loaders.
const (
	TemplateReceipt = "receipt"
	TemplateIDCard  = "idcard"
)

// templateFiles maps template names to file names. Receipts are markdown
// (converted to HTML downstream), ID cards are HTML.
var templateFiles = map[string]string{
	TemplateReceipt: "receipt.md",
	TemplateIDCard:  "idcard.html",
}

// AssetLoader defines the contract for loading CSS styles and document templates.
// Implementations may load from embedded assets, filesystem, S3, database, etc.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a document template by name (TemplateReceipt or
	// TemplateIDCard). Returns ErrTemplateNotFound if the template doesn't
	// exist. Returns ErrInvalidAssetName if the name contains invalid
	// characters.
	LoadTemplate(name string) (string, error)
}
