package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// richText renders markdown from the data files and strips anything outside the UGC policy.
type richText struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func newRichText() *richText {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &richText{
		md:     goldmark.New(goldmark.WithExtensions(extension.Linkify)),
		policy: policy,
	}
}

// HTML converts markdown source. Conversion failures fall back to escaped text.
func (rt *richText) HTML(src string) template.HTML {
	src = strings.TrimSpace(src)
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := rt.md.Convert([]byte(src), &buf); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(src) + "</p>")
	}
	return template.HTML(rt.policy.SanitizeBytes(buf.Bytes()))
}
