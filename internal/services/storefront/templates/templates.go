// Package templates renders storefront pages. Pages are html/template
// files adapted into templ components so the layout can wrap them as
// children.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/louisbranch/storefront/internal/platform/i18n"
	// Registers the message catalogs the page templates translate with.
	_ "github.com/louisbranch/storefront/internal/platform/i18n/catalog"
	"github.com/louisbranch/storefront/internal/services/shared/i18nhttp"
	"github.com/louisbranch/storefront/internal/services/storefront/module"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
)

//go:embed html/*.gohtml
var htmlFS embed.FS

var pages = template.Must(template.New("storefront").ParseFS(htmlFS, "html/*.gohtml"))

// View is the per-request state every page template can reach.
type View struct {
	Locale  i18n.Locale
	Viewer  module.Viewer
	printer *message.Printer
}

// NewView builds a view for loc, falling back to the default locale.
func NewView(loc i18n.Locale, viewer module.Viewer) View {
	if !loc.Valid() {
		loc = i18n.Default
	}
	return View{Locale: loc, Viewer: viewer, printer: loc.Printer()}
}

// T translates key with args in the view locale.
func (v View) T(key string, args ...any) string {
	if v.printer == nil {
		return i18n.T(i18n.Default.Printer(), key, args...)
	}
	return i18n.T(v.printer, key, args...)
}

// Lang is the value of the document lang attribute.
func (v View) Lang() string {
	return v.Locale.Tag().String()
}

// FlashView is a rendered flash notice.
type FlashView struct {
	Kind    string
	Message string
}

// Chrome is the data for the page layout around a module fragment.
type Chrome struct {
	View
	Title     string
	Flash     *FlashView
	Languages []i18nhttp.LanguageOption
	Nav       Nav
}

// Nav holds layout link targets.
type Nav struct {
	Home     string
	Products string
	Cart     string
	Orders   string
	Login    string
	Register string
	Logout   string
}

// DefaultNav returns the storefront navigation links.
func DefaultNav() Nav {
	return Nav{
		Home:     routepath.Root,
		Products: routepath.Products,
		Cart:     routepath.Cart,
		Orders:   routepath.Orders,
		Login:    routepath.Login,
		Register: routepath.Register,
		Logout:   routepath.Logout,
	}
}

// NewChrome assembles layout data. The notice is localized here so the
// layout never sees raw keys.
func NewChrome(view View, title string, notice *flash.Notice, routePath, rawQuery string) Chrome {
	chrome := Chrome{
		View:      view,
		Title:     strings.TrimSpace(title),
		Languages: i18nhttp.LanguageOptions(view.Locale, routePath, rawQuery),
		Nav:       DefaultNav(),
	}
	if notice != nil {
		args := make([]any, 0, len(notice.Args))
		for _, arg := range notice.Args {
			args = append(args, arg)
		}
		chrome.Flash = &FlashView{Kind: string(notice.Kind), Message: view.T(notice.Key, args...)}
	}
	return chrome
}

// PageTitle joins a page title with the site name.
func (c Chrome) PageTitle() string {
	site := c.T("core.site.title")
	if c.Title == "" {
		return site
	}
	return c.Title + " | " + site
}

type layoutData struct {
	Chrome
	Content template.HTML
}

// Layout renders the full document around its templ children.
func Layout(chrome Chrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		content, err := templ.ToGoHTML(templ.ClearChildren(ctx), templ.GetChildren(ctx))
		if err != nil {
			return err
		}
		return execute(w, "layout", layoutData{Chrome: chrome, Content: content})
	})
}

// Fragment renders only the flash region (out-of-band) and the children,
// for HTMX swaps into the main element.
func Fragment(chrome Chrome) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := execute(w, "flash_oob", chrome); err != nil {
			return err
		}
		return templ.GetChildren(ctx).Render(templ.ClearChildren(ctx), w)
	})
}

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return execute(w, name, data)
	})
}

func execute(w io.Writer, name string, data any) error {
	tmpl := pages.Lookup(name)
	if tmpl == nil {
		return fmt.Errorf("template %q is not defined", name)
	}
	return templ.FromGoHTML(tmpl, data).Render(context.Background(), w)
}
