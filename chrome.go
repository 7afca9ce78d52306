package docmill

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/alnah/go-docmill/internal/assets"
	"github.com/alnah/go-docmill/internal/dateutil"
	"github.com/alnah/go-docmill/internal/fileutil"
	"github.com/alnah/go-docmill/internal/locales"
	"github.com/alnah/go-docmill/internal/pipeline"
	"github.com/alnah/go-docmill/internal/process"
)

// ID card themes.
const (
	ThemeModern  = "modern"
	ThemeClassic = "classic"
	ThemeMinimal = "minimal"
)

// DefaultTheme is the ID card theme used when none is configured.
const DefaultTheme = ThemeModern

// DefaultInstitution appears on documents when none is configured.
const DefaultInstitution = "INTERNATIONAL EDUCATION INSTITUTE"

// defaultRenderTimeout bounds a single page render in the browser.
const defaultRenderTimeout = 30 * time.Second

// Receipt page dimensions in inches (US Letter format).
const (
	paperWidthInches  = 8.5
	paperHeightInches = 11
	marginInches      = 0.5
)

// ID card viewport: 3.375in x 2.125in at 300 DPI.
const (
	idCardWidth  = 1013
	idCardHeight = 638
)

// qrCodeSize is the QR code edge length in pixels.
const qrCodeSize = 256

// chromaStyle names the stylesheet for fenced code blocks on receipts.
const chromaStyle = "github"

// renderSettings configures the default renderer.
type renderSettings struct {
	theme       string
	qrEnabled   bool
	timeout     time.Duration
	assetPath   string
	dateFormat  string
	institution string
}

// chromeRenderer renders documents in headless Chrome via go-rod.
// Receipts run markdown through goldmark and print the page to PDF;
// ID cards fill an HTML card template and capture a fixed-size PNG
// screenshot. The browser launches lazily on first render and is shared
// by all workers; rod pages are independent, so concurrent renders are
// safe. Rod downloads Chromium on first run if no browser is found.
type chromeRenderer struct {
	settings     renderSettings
	logger       Logger
	now          func() time.Time
	dateLayout   string
	md           *pipeline.GoldmarkConverter
	cssInjector  *pipeline.CSSInjection
	receiptFill  *pipeline.DocumentFill
	cardFill     *pipeline.CardFill
	receiptCSS   string
	cardCSS      string
	highlightCSS string

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// newChromeRenderer loads templates and styles, failing fast on broken
// assets so render-time errors stay per-record.
func newChromeRenderer(settings renderSettings, logger Logger) (*chromeRenderer, error) {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	if settings.theme == "" {
		settings.theme = DefaultTheme
	}
	if settings.timeout <= 0 {
		settings.timeout = defaultRenderTimeout
	}
	if settings.institution == "" {
		settings.institution = DefaultInstitution
	}
	if settings.dateFormat == "" {
		settings.dateFormat = "long"
	}

	var loader assets.AssetLoader = assets.NewEmbeddedLoader()
	if settings.assetPath != "" {
		resolver, err := assets.NewAssetResolver(settings.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		loader = resolver
	}

	receiptTmpl, err := loader.LoadTemplate(assets.TemplateReceipt)
	if err != nil {
		return nil, fmt.Errorf("loading receipt template: %w", err)
	}
	cardTmpl, err := loader.LoadTemplate(assets.TemplateIDCard)
	if err != nil {
		return nil, fmt.Errorf("loading ID card template: %w", err)
	}
	receiptCSS, err := loader.LoadStyle(assets.StyleReceipt)
	if err != nil {
		return nil, fmt.Errorf("loading receipt style: %w", err)
	}
	cardCSS, err := loader.LoadStyle(settings.theme)
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", settings.theme, err)
	}

	receiptFill, err := pipeline.NewDocumentFill(receiptTmpl)
	if err != nil {
		return nil, err
	}
	cardFill, err := pipeline.NewCardFill(cardTmpl)
	if err != nil {
		return nil, err
	}

	highlightCSS, err := pipeline.HighlightCSS(chromaStyle)
	if err != nil {
		return nil, err
	}

	format := settings.dateFormat
	if preset, ok := dateutil.DatePresets[strings.ToLower(format)]; ok {
		format = preset
	}
	dateLayout, err := dateutil.ParseDateFormat(format)
	if err != nil {
		return nil, err
	}

	return &chromeRenderer{
		settings:     settings,
		logger:       logger,
		now:          time.Now,
		dateLayout:   dateLayout,
		md:           pipeline.NewGoldmarkConverter(),
		cssInjector:  &pipeline.CSSInjection{},
		receiptFill:  receiptFill,
		cardFill:     cardFill,
		receiptCSS:   receiptCSS,
		cardCSS:      cardCSS,
		highlightCSS: highlightCSS,
	}, nil
}

// Render implements Renderer.
func (r *chromeRenderer) Render(ctx context.Context, rec Record, op Operation, photo []byte) ([]byte, error) {
	switch op {
	case OperationIDCard:
		return r.renderIDCard(ctx, rec, photo)
	default:
		return r.renderReceipt(ctx, rec)
	}
}

// receiptData feeds the receipt markdown template.
type receiptData struct {
	Institution string
	ReceiptNo   string
	Date        string
	StudentID   string
	Name        string
	Course      string
	Amount      string
	Currency    string
	Status      string
	Transaction string // JSON detail block, syntax-highlighted in the PDF
}

// buildReceiptData localizes the fee and derives the receipt number.
// Records without a transaction ID get a generated RCP number.
func (r *chromeRenderer) buildReceiptData(rec Record) (receiptData, error) {
	loc := locales.Lookup(rec.Country)

	currency := rec.Currency
	if currency == "" {
		currency = loc.Currency
	}

	receiptNo := rec.TransactionID
	if receiptNo == "" {
		receiptNo = "RCP-" + strings.ToUpper(uuid.New().String()[:8])
	}

	now := r.now()
	detail, err := json.MarshalIndent(struct {
		ReceiptNo string  `json:"receipt_no"`
		StudentID string  `json:"student_id"`
		Amount    float64 `json:"amount"`
		Currency  string  `json:"currency"`
		Status    string  `json:"status"`
		IssuedAt  string  `json:"issued_at"`
	}{receiptNo, rec.ID, rec.FeeAmount, currency, "PAID", now.Format(time.RFC3339)}, "", "  ")
	if err != nil {
		return receiptData{}, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}

	return receiptData{
		Institution: r.settings.institution,
		ReceiptNo:   receiptNo,
		Date:        now.Format(r.dateLayout),
		StudentID:   rec.ID,
		Name:        rec.Name,
		Course:      rec.Course,
		Amount:      loc.Symbol + formatAmount(rec.FeeAmount),
		Currency:    currency,
		Status:      "PAID",
		Transaction: string(detail),
	}, nil
}

// renderReceipt fills the markdown template, converts it to HTML with the
// receipt and highlight styles, and prints the page to PDF.
func (r *chromeRenderer) renderReceipt(ctx context.Context, rec Record) ([]byte, error) {
	data, err := r.buildReceiptData(rec)
	if err != nil {
		return nil, err
	}

	md, err := r.receiptFill.Fill(data)
	if err != nil {
		return nil, err
	}

	htmlContent, err := r.md.ToHTML(ctx, md)
	if err != nil {
		return nil, err
	}
	htmlContent = r.cssInjector.InjectCSS(ctx, htmlContent, r.receiptCSS+"\n"+r.highlightCSS)

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.openPage(ctx, tmpPath)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBytes, nil
}

// cardData feeds the ID card HTML template. Photo and QR images are
// embedded as data URIs; template.URL keeps html/template from rejecting
// the data scheme.
type cardData struct {
	Institution string
	Theme       string
	Name        string
	StudentID   string
	Course      string
	Country     string
	Enrolled    string
	Expires     string
	PhotoSrc    template.URL
	QRSrc       template.URL
}

// renderIDCard fills the card template and captures it as a PNG at the
// fixed card viewport.
func (r *chromeRenderer) renderIDCard(ctx context.Context, rec Record, photo []byte) ([]byte, error) {
	htmlContent, err := r.cardFill.Fill(r.buildCardData(rec, photo))
	if err != nil {
		return nil, err
	}
	htmlContent = r.cssInjector.InjectCSS(ctx, htmlContent, r.cardCSS)

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := r.openPage(ctx, tmpPath)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             idCardWidth,
		Height:            idCardHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	shot, err := page.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScreenshot, err)
	}

	return shot, nil
}

// buildCardData assembles template data for one card. A QR failure is
// logged and the card renders without one.
func (r *chromeRenderer) buildCardData(rec Record, photo []byte) cardData {
	data := cardData{
		Institution: r.settings.institution,
		Theme:       r.settings.theme,
		Name:        strings.ToUpper(rec.Name),
		StudentID:   rec.ID,
		Course:      rec.Course,
		Country:     rec.Country,
		Enrolled:    formatMonthYear(rec.EnrollmentDate),
		Expires:     formatMonthYear(rec.ExpiryDate),
	}

	if len(photo) > 0 {
		data.PhotoSrc = dataURI(photo)
	}

	if r.settings.qrEnabled {
		qr, err := r.buildQRCode(rec)
		if err != nil {
			r.logger.Warn("render: QR code skipped for %s: %v", rec.ID, err)
		} else {
			data.QRSrc = dataURI(qr)
		}
	}

	return data
}

// buildQRCode encodes the verification payload as a PNG QR code.
func (r *chromeRenderer) buildQRCode(rec Record) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		"id":                rec.ID,
		"name":              rec.Name,
		"course":            rec.Course,
		"verification_hash": verificationHash(rec.ID, rec.Name, r.now()),
	})
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(string(payload), qrcode.Medium, qrCodeSize)
}

// verificationHash derives a short check value, stable within a day, that
// verifiers can recompute from the card's visible fields.
func verificationHash(id, name string, now time.Time) string {
	sum := sha256.Sum256([]byte(id + name + now.Format("20060102")))
	return hex.EncodeToString(sum[:])[:16]
}

// ensureBrowser lazily launches and connects the shared browser.
func (r *chromeRenderer) ensureBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.launcher = l
	r.browser = browser
	r.logger.Debug("render: browser started")
	return nil
}

// Close shuts the browser down. The process group kill is a fallback so
// no Chrome children outlive the service.
func (r *chromeRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}

	err := r.browser.Close()
	if r.launcher != nil {
		pid := r.launcher.PID()
		r.launcher.Kill()
		if pid > 0 {
			process.KillProcessGroup(pid)
		}
	}

	r.browser = nil
	r.launcher = nil
	return err
}

// openPage loads a local HTML file and waits for it, bounded by the render
// timeout or the context deadline, whichever is tighter.
func (r *chromeRenderer) openPage(ctx context.Context, filePath string) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := r.settings.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			_ = page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		_ = page.Close()
		return nil, err
	}

	return page, nil
}

// dataURI wraps raw bytes as a data: URL with a sniffed content type.
func dataURI(data []byte) template.URL {
	mime := http.DetectContentType(data)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

// formatAmount renders a fee with thousands separators: 1500 -> "1,500.00".
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	return sign + b.String() + "." + fracPart
}

// formatMonthYear shortens an ISO date to MM/YYYY, passing through values
// it cannot parse.
func formatMonthYear(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("01/2006")
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
