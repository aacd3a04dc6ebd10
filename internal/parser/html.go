package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLParser parses HTML email bodies to plain text
type HTMLParser struct {
	whitespaceRegex *regexp.Regexp
	newlineRegex    *regexp.Regexp
	invisibleRegex  *regexp.Regexp
}

// NewHTMLParser creates a new HTML parser
func NewHTMLParser() *HTMLParser {
	return &HTMLParser{
		whitespaceRegex: regexp.MustCompile(`[^\S\n]+`),
		newlineRegex:    regexp.MustCompile(`\n{3,}`),
		// Remove invisible Unicode characters (zero-width spaces, etc.)
		invisibleRegex: regexp.MustCompile(`[\x{200B}-\x{200D}\x{FEFF}\x{00AD}\x{2060}-\x{2064}\x{FE00}-\x{FE0F}]+`),
	}
}

// Parse converts HTML to clean plain text. Plain-text input passes through
// with the same whitespace normalization applied.
func (p *HTMLParser) Parse(html string) (string, error) {
	if html == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}

	// Remove script and style elements
	doc.Find("script, style, head, meta, link").Remove()

	// Add newlines before block elements
	doc.Find("p, div, br, h1, h2, h3, h4, h5, h6, li, tr").Each(func(i int, s *goquery.Selection) {
		s.PrependHtml("\n")
	})

	text := doc.Text()

	// Remove invisible Unicode characters first
	text = p.invisibleRegex.ReplaceAllString(text, "")

	// Clean up whitespace (but preserve newlines)
	text = p.whitespaceRegex.ReplaceAllString(text, " ")

	// Trim each line and drop empty ones
	lines := strings.Split(text, "\n")
	var cleanLines []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanLines = append(cleanLines, line)
		}
	}
	text = strings.Join(cleanLines, "\n")

	// Normalize newlines (max 2 consecutive)
	text = p.newlineRegex.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text), nil
}

// Preview derives a single-line snippet of at most maxLen runes from an
// email body, for list views that carry no server-provided preview.
func (p *HTMLParser) Preview(body string, maxLen int) (string, error) {
	text, err := p.Parse(body)
	if err != nil {
		return "", err
	}

	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text, nil
	}
	return strings.TrimSpace(string(runes[:maxLen])) + "...", nil
}
