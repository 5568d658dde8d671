// Package lazyload defers card background images until they scroll into view.
// Markup carries class="lazy-bg" data-bg="<url>"; the embedded script swaps the
// image in, and Rewrite does the same on the server for clients without script.
package lazyload

import (
	"bytes"
	"embed"
	"io/fs"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed assets/*.js
var assetFS embed.FS

// Assets is the static file tree served under /assets.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Mode selects how Rewrite treats deferred backgrounds.
type Mode int

const (
	// ModeDeferred leaves markup for the observer script.
	ModeDeferred Mode = iota
	// ModeEager inlines every background immediately.
	ModeEager
)

const (
	dataAttr      = "data-bg"
	defaultMargin = "200px"
)

// Controller decides the mode per request and rewrites markup.
type Controller struct {
	forceEager bool
	margin     string
}

// NewController builds a controller. forceEager pins every request to ModeEager.
func NewController(forceEager bool, margin string) *Controller {
	margin = strings.TrimSpace(margin)
	if margin == "" {
		margin = defaultMargin
	}
	return &Controller{forceEager: forceEager, margin: margin}
}

// RootMargin is the observer margin handed to the script.
func (c *Controller) RootMargin() string { return c.margin }

// Mode picks ModeEager when forced by config or requested with ?eager=1.
func (c *Controller) Mode(r *http.Request) Mode {
	if c.forceEager {
		return ModeEager
	}
	if v := r.URL.Query().Get("eager"); v == "1" || strings.EqualFold(v, "true") {
		return ModeEager
	}
	return ModeDeferred
}

// EagerURL is the current URL with eager=1 set, for the noscript link.
func EagerURL(u *url.URL) string {
	q := u.Query()
	q.Set("eager", "1")
	return u.Path + "?" + q.Encode()
}

// Rewrite returns markup unchanged in ModeDeferred. In ModeEager every element
// carrying data-bg gets an inline background-image and loses the attribute.
// Both full documents and fragments are accepted.
func (c *Controller) Rewrite(markup []byte, mode Mode) ([]byte, error) {
	if mode != ModeEager || !bytes.Contains(markup, []byte(dataAttr)) {
		return markup, nil
	}
	if isDocument(markup) {
		doc, err := html.Parse(bytes.NewReader(markup))
		if err != nil {
			return nil, err
		}
		inline(doc)
		var buf bytes.Buffer
		if err := html.Render(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(markup), body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		inline(n)
		if err := html.Render(&buf, n); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func isDocument(markup []byte) bool {
	head := bytes.ToLower(bytes.TrimSpace(markup[:min(len(markup), 64)]))
	return bytes.HasPrefix(head, []byte("<!doctype")) || bytes.HasPrefix(head, []byte("<html"))
}

func inline(n *html.Node) {
	if n.Type == html.ElementNode {
		swapAttr(n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		inline(child)
	}
}

func swapAttr(n *html.Node) {
	idx := -1
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == dataAttr {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	src := n.Attr[idx].Val
	n.Attr = append(n.Attr[:idx], n.Attr[idx+1:]...)

	decl, ok := backgroundDecl(src)
	if !ok {
		return
	}
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == "style" {
			style := strings.TrimRight(strings.TrimSpace(a.Val), ";")
			if style != "" {
				style += "; "
			}
			n.Attr[i].Val = style + decl
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: decl})
}

// backgroundDecl accepts http(s) and relative URLs only.
func backgroundDecl(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if raw == "" || err != nil {
		return "", false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	quoted := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", "", "\r", "").Replace(u.String())
	return `background-image: url("` + quoted + `")`, true
}
