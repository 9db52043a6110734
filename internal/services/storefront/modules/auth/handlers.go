package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/httpx"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/requestmeta"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/sessioncookie"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

type handlers struct {
	modulehandler.Base
	service service
	limiter Limiter
	binder  *forms.Binder
	scheme  requestmeta.SchemePolicy
}

func newHandlers(s service, limiter Limiter, binder *forms.Binder, scheme requestmeta.SchemePolicy, base modulehandler.Base) handlers {
	if binder == nil {
		binder = forms.NewBinder()
	}
	return handlers{Base: base, service: s, limiter: limiter, binder: binder, scheme: scheme}
}

func (h handlers) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	next := routepath.SafeNext(r.URL.Query().Get(routepath.NextQueryKey))
	if h.ResolveRequestViewer(r).Authenticated {
		h.Redirect(w, r, landing(next))
		return
	}
	h.writeLogin(w, r, http.StatusOK, templates.LoginView{Next: next})
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	fieldErrs, err := h.binder.Bind(r, &form, loginMessages)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	next := routepath.SafeNext(form.Next)
	view := templates.LoginView{Email: form.Email, Next: next, Errors: fieldErrs}
	if len(fieldErrs) > 0 {
		h.writeLogin(w, r, http.StatusUnprocessableEntity, view)
		return
	}
	if h.limiter != nil && !h.limiter.Allow(requestmeta.ClientIP(r, h.scheme)) {
		view.Failed = "core.error.too_many_requests"
		h.writeLogin(w, r, http.StatusTooManyRequests, view)
		return
	}

	record, err := h.service.login(h.RequestContext(r), form.Email, form.Password)
	if err != nil {
		if errors.Is(err, errInvalidCredentials) {
			view.Failed = "auth.login.failed"
		} else {
			h.Logger(r).WithError(err).Warn("login failed")
			view.Failed = "core.error.request_failed"
		}
		h.writeLogin(w, r, http.StatusUnprocessableEntity, view)
		return
	}
	sessioncookie.Write(w, r, record.ID, record.ExpiresAt, h.RequestCookiePolicy())
	h.FlashAndRedirect(w, r, flash.Success("auth.flash.logged_in"), landing(next))
}

func (h handlers) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	if h.ResolveRequestViewer(r).Authenticated {
		h.Redirect(w, r, routepath.Root)
		return
	}
	h.writeRegister(w, r, http.StatusOK, templates.RegisterView{})
}

func (h handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	fieldErrs, err := h.binder.Bind(r, &form, registerMessages)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := templates.RegisterView{Name: form.Name, Email: form.Email, Errors: fieldErrs}
	if len(fieldErrs) > 0 {
		h.writeRegister(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	err = h.service.register(h.RequestContext(r), form)
	if err != nil {
		var rejected registrationRejected
		if errors.As(err, &rejected) {
			view.Failed = "auth.register.failed"
			view.Detail = rejected.detail
		} else {
			h.Logger(r).WithError(err).Warn("register failed")
			view.Failed = "core.error.request_failed"
		}
		h.writeRegister(w, r, http.StatusUnprocessableEntity, view)
		return
	}
	h.FlashAndRedirect(w, r, flash.Success("auth.flash.registered"), routepath.Login)
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID := h.RequestSessionID(r); sessionID != "" {
		if err := h.service.logout(h.RequestContext(r), sessionID); err != nil {
			h.Logger(r).WithError(err).Warn("logout: delete session")
		}
	} else if cookieID, ok := sessioncookie.Read(r); ok {
		if err := h.service.logout(h.RequestContext(r), cookieID); err != nil {
			h.Logger(r).WithError(err).Warn("logout: delete session")
		}
	}
	sessioncookie.Clear(w, r, h.RequestCookiePolicy())
	h.FlashAndRedirect(w, r, flash.Info("auth.flash.logged_out"), routepath.Root)
}

// writeLogin renders the login form. Rejections keep the 4xx status on
// full page loads; HTMX requests get 200 so the form is swapped in.
func (h handlers) writeLogin(w http.ResponseWriter, r *http.Request, status int, view templates.LoginView) {
	view.View = h.View(r)
	view.Action = routepath.Login
	h.writeForm(w, r, view.T("auth.login.title"), status, templates.LoginPage(view))
}

func (h handlers) writeRegister(w http.ResponseWriter, r *http.Request, status int, view templates.RegisterView) {
	view.View = h.View(r)
	view.Action = routepath.Register
	h.writeForm(w, r, view.T("auth.register.title"), status, templates.RegisterPage(view))
}

func (h handlers) writeForm(w http.ResponseWriter, r *http.Request, title string, status int, fragment templ.Component) {
	if status != http.StatusOK && httpx.IsHTMXRequest(r) {
		status = http.StatusOK
	}
	h.WritePage(w, r, title, status, fragment)
}

func landing(next string) string {
	if next = strings.TrimSpace(next); next != "" {
		return next
	}
	return routepath.Root
}
