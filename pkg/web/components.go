package web

import (
	"strings"

	config "sales-forecast-web/configs"
)

// NavLink is one entry of the navbar or footer.
type NavLink struct {
	Name string
	Href string
}

// Navbar はナビゲーションバーの表示状態です。
// 保持する状態はモバイルメニューの開閉のみです。
type Navbar struct {
	Links []NavLink
	Open  bool
}

// NewNavbar builds the navbar from the configured links.
func NewNavbar(links []config.Link, open bool) Navbar {
	return Navbar{Links: toNavLinks(links), Open: open}
}

// Toggle はメニューボタンが押されたときの動作です。
func (n *Navbar) Toggle() {
	n.Open = !n.Open
}

// SelectLink closes the mobile menu after a link was chosen.
func (n *Navbar) SelectLink() {
	n.Open = false
}

// ToggleHref is the link the menu button follows when scripts are disabled:
// the page in the state Toggle would leave the navbar in.
func (n Navbar) ToggleHref() string {
	next := n
	next.Toggle()
	return next.pageHref()
}

// LinkHref is the href of a link in the mobile menu. In-page anchors reload
// the page in the state SelectLink leaves behind, so the menu closes without
// scripts too.
func (n Navbar) LinkHref(href string) string {
	if !strings.HasPrefix(href, "#") {
		return href
	}
	next := n
	next.SelectLink()
	if next.Open == n.Open {
		return href
	}
	return next.pageHref() + href
}

func (n Navbar) pageHref() string {
	if n.Open {
		return "/?menu=open"
	}
	return "/"
}

// Footer フッターの表示内容
type Footer struct {
	Links     []NavLink
	Copyright string
}

// NewFooter builds the footer from page content.
func NewFooter(content *config.PageContent) Footer {
	return Footer{
		Links:     toNavLinks(content.Footer.Links),
		Copyright: content.Footer.Copyright,
	}
}

// Section wraps a block of the page under an anchor id.
type Section struct {
	ID    string
	Class string
}

// ClassName はsection要素のclass属性値を返します。
func (s Section) ClassName() string {
	return strings.TrimSpace(s.Class + " scroll-mt")
}

// StepCard is an icon card with a title and description.
type StepCard struct {
	Icon        string
	Title       string
	Description string
	Gradient    string
}

// NewStepCards converts configured cards into step cards.
func NewStepCards(cards []config.Card) []StepCard {
	steps := make([]StepCard, 0, len(cards))
	for _, c := range cards {
		steps = append(steps, StepCard{
			Icon:        c.Icon,
			Title:       c.Title,
			Description: c.Description,
			Gradient:    c.Gradient,
		})
	}
	return steps
}

// ClassName グラデーション指定の有無でカードのclassを切り替えます。
func (s StepCard) ClassName() string {
	if s.Gradient == "" {
		return "card"
	}
	return "card card--gradient card--" + s.Gradient
}

func toNavLinks(links []config.Link) []NavLink {
	out := make([]NavLink, 0, len(links))
	for _, l := range links {
		out = append(out, NavLink{Name: l.Name, Href: l.Href})
	}
	return out
}

// iconGlyphs maps icon names used by content and presenter to glyphs.
var iconGlyphs = map[string]string{
	"fire":       "🔥",
	"box-open":   "📦",
	"chart-line": "📈",
	"warning":    "⚠️",
	"id-card":    "🪪",
	"calendar":   "📅",
	"money-bill": "💵",
	"boxes":      "🗃️",
	"store":      "🏪",
}

// IconGlyph returns the glyph for an icon name, or the name itself if unknown.
func IconGlyph(name string) string {
	if g, ok := iconGlyphs[name]; ok {
		return g
	}
	return name
}
