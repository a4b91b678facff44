// Package page loads editor pages for title inference, either live over
// HTTP or from a saved HTML snapshot.
package page

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/coverr"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
)

// Defaults for remote page loads.
const (
	DefaultUserAgent    = "Mozilla/5.0 (compatible; cover-generator/1.0)"
	DefaultFetchTimeout = 15 * time.Second
)

// restrictedPrefixes are browser-internal pages that no script can read.
var restrictedPrefixes = []string{"chrome://", "chrome-extension://", "edge://", "about:"}

var errEmptyBody = errors.New("empty response body")

// Page is a loaded document and where it came from.
type Page struct {
	Address  string
	Origin   string
	Platform string
	Document *title.HTMLDocument
}

// Loader fetches pages. It is safe for concurrent use.
type Loader struct {
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
	rules     title.Rules
	log       logger.Logger
}

// LoaderConfig configures a Loader.
type LoaderConfig struct {
	UserAgent string
	Timeout   time.Duration
	// Transport is used for remote fetches. Nil uses the colly default.
	Transport http.RoundTripper
	// Rules identifies supported editors. Zero value uses title.DefaultRules.
	Rules *title.Rules
}

// NewLoader creates a Loader.
func NewLoader(cfg LoaderConfig, log logger.Logger) *Loader {
	l := &Loader{
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		transport: cfg.Transport,
		rules:     title.DefaultRules(),
		log:       log,
	}
	if l.userAgent == "" {
		l.userAgent = DefaultUserAgent
	}
	if l.timeout <= 0 {
		l.timeout = DefaultFetchTimeout
	}
	if cfg.Rules != nil {
		l.rules = *cfg.Rules
	}
	return l
}

// Load reads the page at address. Browser-internal addresses fail with
// UnsupportedPage before any I/O; fetch and parse failures are PageUnavailable.
func (l *Loader) Load(ctx context.Context, address string) (*Page, error) {
	address = strings.TrimSpace(address)
	if address == "" || IsRestricted(address) {
		return nil, coverr.UnsupportedPage(address)
	}

	var (
		p   *Page
		err error
	)
	switch scheme := schemeOf(address); scheme {
	case "http", "https":
		p, err = l.fetch(ctx, address)
	case "file", "":
		p, err = LoadSnapshot(address)
	default:
		return nil, coverr.UnsupportedPage(address)
	}
	if err != nil {
		return nil, err
	}

	if platform, ok := l.rules.Match(p.Origin); ok {
		p.Platform = platform.Name
		l.log.Debug("Supported editor detected",
			logger.String("origin", p.Origin),
			logger.String("platform", platform.Name),
		)
	} else {
		l.log.Debug("Unrecognised editor, using generic title rules", logger.String("origin", p.Origin))
	}

	return p, nil
}

// IsRestricted reports whether address is a browser-internal page.
func IsRestricted(address string) bool {
	lower := strings.ToLower(address)
	for _, prefix := range restrictedPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// IsSupportedEditor reports whether origin belongs to a named editor platform.
func IsSupportedEditor(rules title.Rules, origin string) bool {
	_, ok := rules.Match(origin)
	return ok
}

// schemeOf returns the lower-case URL scheme, or "" for filesystem paths.
func schemeOf(address string) string {
	if filepath.IsAbs(address) || filepath.VolumeName(address) != "" {
		return ""
	}
	u, err := url.Parse(address)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

func (l *Loader) fetch(ctx context.Context, address string) (*Page, error) {
	c := colly.NewCollector(
		colly.StdlibContext(ctx),
		colly.UserAgent(l.userAgent),
		colly.IgnoreRobotsTxt(),
		colly.DetectCharset(),
	)
	c.SetRequestTimeout(l.timeout)
	if l.transport != nil {
		c.WithTransport(l.transport)
	}

	var (
		body     []byte
		finalURL *url.URL
	)
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		finalURL = r.Request.URL
	})

	var visitErr error
	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		visitErr = fmt.Errorf("fetch %s: HTTP %d: %w", address, status, err)
	})

	if err := c.Visit(address); err != nil && visitErr == nil {
		visitErr = fmt.Errorf("fetch %s: %w", address, err)
	}
	if visitErr != nil {
		return nil, coverr.PageUnavailable(address, visitErr)
	}
	if len(body) == 0 {
		return nil, coverr.PageUnavailable(address, errEmptyBody)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, coverr.PageUnavailable(address, fmt.Errorf("parse %s: %w", address, err))
	}

	final := address
	host := ""
	if finalURL != nil {
		final = finalURL.String()
		host = finalURL.Hostname()
	}

	return &Page{Address: final, Origin: host, Document: title.NewHTMLDocument(doc)}, nil
}

// LoadSnapshot reads a saved HTML page from a path or file:// URL. The
// page's canonical link or og:url supplies its address and origin.
func LoadSnapshot(address string) (*Page, error) {
	path, err := snapshotPath(address)
	if err != nil {
		return nil, coverr.PageUnavailable(address, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, coverr.PageUnavailable(address, fmt.Errorf("read snapshot: %w", err))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, coverr.PageUnavailable(address, fmt.Errorf("parse snapshot: %w", err))
	}

	p := &Page{Address: (&url.URL{Scheme: "file", Path: path}).String(), Document: title.NewHTMLDocument(doc)}
	if recorded := RecordedAddress(doc); recorded != "" {
		p.Address = recorded
		if u, parseErr := url.Parse(recorded); parseErr == nil {
			p.Origin = u.Hostname()
		}
	}

	return p, nil
}

// RecordedAddress returns the address a snapshot was saved from.
func RecordedAddress(doc *goquery.Document) string {
	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok && strings.TrimSpace(href) != "" {
		return strings.TrimSpace(href)
	}
	if content, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok {
		return strings.TrimSpace(content)
	}
	return ""
}

func snapshotPath(address string) (string, error) {
	if !strings.HasPrefix(strings.ToLower(address), "file://") {
		return filepath.Clean(address), nil
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}
	return filepath.FromSlash(u.Path), nil
}
