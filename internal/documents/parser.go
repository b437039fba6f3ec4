package documents

import (
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/adforge/adforge-backend/pkg/errors"
)

// Metadata holds fields scraped from a brief document.
type Metadata struct {
	Brand       string
	ProductName string
}

var (
	brandPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)brand name[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)brand[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)company[:\s]+([^\n]+)`),
	}
	productPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)product name[:\s]+([^\n]+)`),
		regexp.MustCompile(`(?i)product[:\s]+([^\n]+)`),
	}
)

// ExtractText reads the document and returns its plain-text content.
// Only text-based formats (.txt, .md) are supported.
func ExtractText(filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md", "":
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported document type "+ext)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "failed to read document")
	}
	if !utf8.Valid(data) {
		data = decodeLatin1(data)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "no text content found in document")
	}
	return text, nil
}

// ExtractMetadata scrapes brand and product name from document text using
// label patterns ("Brand:", "Product Name:", "Company:").
func ExtractMetadata(text string) Metadata {
	var meta Metadata
	for _, re := range brandPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			meta.Brand = strings.TrimSpace(m[1])
			break
		}
	}
	for _, re := range productPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			meta.ProductName = strings.TrimSpace(m[1])
			break
		}
	}
	return meta
}

func decodeLatin1(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	for _, b := range data {
		out = utf8.AppendRune(out, rune(b))
	}
	return out
}
