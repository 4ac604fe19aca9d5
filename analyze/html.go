package analyze

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

var htmlExtensions = []string{".html", ".htm", ".xhtml"}

func isHTML(name string) bool {
	for _, ext := range htmlExtensions {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return true
		}
	}
	return false
}

// extractStyles collects stylesheet text embedded into HTML document: content
// of <style> elements and inline style attributes. Attribute declarations are
// wrapped into universal rule so they are seen as declarations, one rule per
// attribute.
func extractStyles(data []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "")
	if err != nil {
		return "", fmt.Errorf("unable to detect document encoding: %w", err)
	}

	var (
		sb      strings.Builder
		inStyle bool
	)
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", fmt.Errorf("unable to parse document: %w", err)
			}
			return sb.String(), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Style && tt == html.StartTagToken {
				inStyle = true
			}
			for _, a := range tok.Attr {
				if a.Namespace == "" && strings.EqualFold(a.Key, "style") && strings.TrimSpace(a.Val) != "" {
					// own lines, so unterminated string ends before the brace
					sb.WriteString("* {\n")
					sb.WriteString(a.Val)
					sb.WriteString("\n}\n")
				}
			}

		case html.EndTagToken:
			if tok := z.Token(); tok.DataAtom == atom.Style {
				inStyle = false
			}

		case html.TextToken:
			if inStyle {
				sb.Write(z.Text())
				sb.WriteByte('\n')
			}
		}
	}
}
