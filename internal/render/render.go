// Package render turns catalog records into HTML fragments. Every fragment is a
// pure function of its inputs: no clock, no randomness, no request state.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/fantravel1/realitytvtravel/internal/presentation"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Options hold the display budgets. Zero values take the defaults.
type Options struct {
	TruncateChars int
	MaxHighlights int
	MaxCardShows  int
	SimilarCount  int
}

// DefaultOptions returns the stock budgets: 150 characters, 2 highlights, 2 show names, 3 similar items.
func DefaultOptions() Options {
	return Options{TruncateChars: 150, MaxHighlights: 2, MaxCardShows: 2, SimilarCount: 3}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TruncateChars <= 0 {
		o.TruncateChars = d.TruncateChars
	}
	if o.MaxHighlights <= 0 {
		o.MaxHighlights = d.MaxHighlights
	}
	if o.MaxCardShows <= 0 {
		o.MaxCardShows = d.MaxCardShows
	}
	if o.SimilarCount <= 0 {
		o.SimilarCount = d.SimilarCount
	}
	return o
}

// FavoriteSet answers membership for favorite toggles on cards.
type FavoriteSet interface {
	Has(id string) bool
}

type noFavorites struct{}

func (noFavorites) Has(string) bool { return false }

// Renderer owns the parsed templates and presentation tables.
type Renderer struct {
	tables *presentation.Tables
	opts   Options
	tmpl   *template.Template
	rich   *richText
}

// New parses the embedded templates. A nil tables value uses the embedded defaults.
func New(tables *presentation.Tables, opts Options) (*Renderer, error) {
	if tables == nil {
		tables = presentation.Default()
	}
	tmpl, err := template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &Renderer{
		tables: tables,
		opts:   opts.withDefaults(),
		tmpl:   tmpl,
		rich:   newRichText(),
	}, nil
}

// Options reports the effective budgets.
func (r *Renderer) Options() Options { return r.opts }

// Tables exposes the presentation tables in use.
func (r *Renderer) Tables() *presentation.Tables { return r.tables }

var funcMap = template.FuncMap{
	"join": strings.Join,
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

func favoritesOrEmpty(favs FavoriteSet) FavoriteSet {
	if favs == nil {
		return noFavorites{}
	}
	return favs
}
