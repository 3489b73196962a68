package cdpbackend

import (
	"strings"

	"github.com/ISmeneger/webform-e2e/internal/domain"
	"github.com/PuerkitoBio/goquery"
)

// parseLabels returns the caption of every element matching selector in
// fragment. Only the element's own text nodes count, so the options of a
// wrapped select or the value of a wrapped input never leak in.
func parseLabels(fragment, selector string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, err
	}

	var out []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		var b strings.Builder
		sel.Contents().Each(func(_ int, c *goquery.Selection) {
			if goquery.NodeName(c) == "#text" {
				b.WriteString(c.Text())
				b.WriteString(" ")
			}
		})
		out = append(out, domain.NormalizeLabel(strings.Join(strings.Fields(b.String()), " ")))
	})
	return out, nil
}
