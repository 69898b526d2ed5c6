package console

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chanlic/license-console/pkg/apiclient"
)

// Pretty renders a value for a result panel: strings verbatim, everything
// else as two-space indented JSON.
func Pretty(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimRight(buf.String(), "\n")
}

// RenderEnvelope renders a resolved response. HTML text bodies are reduced to
// their readable text.
func RenderEnvelope(env apiclient.Envelope) string {
	if env.JSON {
		return Pretty(env.Value)
	}
	text := env.Text()
	if isHTML(env.ContentType) {
		return htmlText(text)
	}
	return text
}

// RenderFailure renders what a rejected outcome shows.
func RenderFailure(err error) string {
	var ve *apiclient.ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	var re *apiclient.ResponseError
	if errors.As(err, &re) && !re.JSON && isHTML(re.ContentType) {
		if m, ok := re.Payload.(map[string]any); ok {
			if s, ok := m["error"].(string); ok {
				return Pretty(map[string]any{"error": htmlText(s)})
			}
		}
	}
	return Pretty(apiclient.FailurePayload(err))
}

func isHTML(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

// htmlText flattens an HTML document into one line per text node, title
// first. Unparseable input is returned unchanged.
func htmlText(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	add := func(s string) {
		s = strings.Join(strings.Fields(s), " ")
		if s == "" {
			return
		}
		if n := len(lines); n > 0 && lines[n-1] == s {
			return
		}
		lines = append(lines, s)
	}

	add(doc.Find("head title").First().Text())

	var walk func(sel *goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(_ int, node *goquery.Selection) {
			if goquery.NodeName(node) == "#text" {
				add(node.Text())
				return
			}
			walk(node)
		})
	}
	walk(doc.Find("body"))

	if len(lines) == 0 {
		return strings.TrimSpace(raw)
	}
	return strings.Join(lines, "\n")
}
