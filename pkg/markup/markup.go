// Package markup renders document bodies from markdown to sanitized HTML.
package markup

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultCacheSize is the number of rendered bodies kept by NewRenderer.
const DefaultCacheSize = 512

// Renderer converts markdown to HTML and strips anything executable.
// It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	cache  *lru.Cache[string, string]
}

// NewRenderer creates a renderer caching up to cacheSize results.
// A non-positive size disables the cache.
func NewRenderer(cacheSize int) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		// Raw HTML is handed to the sanitizer instead of being dropped,
		// so safe inline markup survives and scripts lose their content.
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)

	r := &Renderer{
		md:     md,
		policy: bluemonday.UGCPolicy(),
	}
	if cacheSize > 0 {
		r.cache, _ = lru.New[string, string](cacheSize)
	}
	return r
}

// Render converts markdown source to sanitized HTML.
func (r *Renderer) Render(src string) (string, error) {
	key := digest(src)
	if r.cache != nil {
		if out, ok := r.cache.Get(key); ok {
			return out, nil
		}
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	out := r.Sanitize(buf.String())

	if r.cache != nil {
		r.cache.Add(key, out)
	}
	return out, nil
}

// Sanitize strips executable markup from HTML, keeping structure and text.
func (r *Renderer) Sanitize(s string) string {
	return strings.TrimSpace(r.policy.Sanitize(s))
}

// CacheLen reports how many rendered bodies are cached.
func (r *Renderer) CacheLen() int {
	if r.cache == nil {
		return 0
	}
	return r.cache.Len()
}

func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// PlainText flattens HTML to its text with whitespace collapsed.
// Input that does not parse is returned with whitespace collapsed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns at most n runes of the plain text of s, cut on a word
// boundary when one is available.
func Excerpt(s string, n int) string {
	text := PlainText(s)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "..."
}
