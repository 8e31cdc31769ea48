package handler

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/alexisbeaulieu97/pprunner/internal/domain/scenario"
)

// FallbackOption returns the value of the second child of the select element
// matched by selector in html. The first option is usually a placeholder.
func FallbackOption(html, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse page markup: %w", err)
	}
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("no element matches %s", selector)
	}
	option := sel.Children().Eq(1)
	if option.Length() == 0 {
		return "", fmt.Errorf("%s has fewer than two options", selector)
	}
	if value, ok := option.Attr("value"); ok {
		return value, nil
	}
	return strings.TrimSpace(option.Text()), nil
}

// RadioExists reports whether html contains a radio under selector with the
// given value attribute.
func RadioExists(html, selector, value string) (bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false, fmt.Errorf("parse page markup: %w", err)
	}
	found := false
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("value"); v == value {
			found = true
			return false
		}
		return true
	})
	return found, nil
}

// RequireRadio fails when html has no radio matching r. Drivers that wait for
// a missing element until their timeout check it before clicking.
func RequireRadio(html string, r *scenario.Radio) error {
	ok, err := RadioExists(html, r.Selector, r.Value)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no radio %s with value %q", r.Selector, r.Value)
	}
	return nil
}

// PageTitle extracts the document title. Markup dumps log it.
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
