package testutil

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// ParseHTML parses an HTML payload into a goquery document for assertions.
func ParseHTML(t testing.TB, body []byte) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

// ParseFragment is ParseHTML for rendered fragments.
func ParseFragment(t testing.TB, fragment template.HTML) *goquery.Document {
	t.Helper()
	return ParseHTML(t, []byte(fragment))
}
