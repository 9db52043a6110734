package checkout

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"

	"github.com/louisbranch/storefront/internal/platform/assets/imagecdn"
	checkoutflow "github.com/louisbranch/storefront/internal/services/storefront/checkout"
	"github.com/louisbranch/storefront/internal/services/storefront/payment"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/flash"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/forms"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/modulehandler"
	"github.com/louisbranch/storefront/internal/services/storefront/platform/orderview"
	"github.com/louisbranch/storefront/internal/services/storefront/routepath"
	"github.com/louisbranch/storefront/internal/services/storefront/templates"
)

type handlers struct {
	modulehandler.Base
	service        service
	images         imagecdn.Resolver
	binder         *forms.Binder
	publishableKey string
}

func newHandlers(s service, cfg Config, base modulehandler.Base) handlers {
	images := cfg.Images
	if images == nil {
		images = imagecdn.Passthrough{}
	}
	binder := cfg.Binder
	if binder == nil {
		binder = forms.NewBinder()
	}
	return handlers{Base: base, service: s, images: images, binder: binder, publishableKey: cfg.PublishableKey}
}

// handleStart opens a fresh flow at the shipping step.
func (h handlers) handleStart(w http.ResponseWriter, r *http.Request) {
	flow, err := h.service.start(h.RequestSessionID(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.Redirect(w, r, routepath.CheckoutFlow(flow.ID))
}

func (h handlers) handleFlow(w http.ResponseWriter, r *http.Request) {
	flow, summary, err := h.service.load(h.RequestContext(r), h.RequestSessionID(r), r.PathValue("flowID"))
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}
	if flow.Step == checkoutflow.StepPayment {
		h.writePayment(w, r, http.StatusOK, flow, summary, h.paymentView(flow))
		return
	}
	h.writeShipping(w, r, http.StatusOK, flow, summary, templates.ShippingView{Address: flow.ShippingAddress})
}

func (h handlers) handleShipping(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	owner := h.RequestSessionID(r)
	flowID := r.PathValue("flowID")

	var form shippingForm
	fieldErrs, err := h.binder.Bind(r, &form, shippingMessages)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		flow, summary, err := h.service.load(ctx, owner, flowID)
		if err != nil {
			h.writeFlowError(w, r, err)
			return
		}
		view := templates.ShippingView{Address: form.Address}
		view.Errors = fieldErrs
		h.writeShipping(w, r, http.StatusUnprocessableEntity, flow, summary, view)
		return
	}

	flow, err := h.service.submitShipping(ctx, owner, flowID, form.Address)
	if err != nil {
		var failure stepFailure
		if !errors.As(err, &failure) {
			h.writeFlowError(w, r, err)
			return
		}
		if !errors.Is(err, checkoutflow.ErrEmptyCart) {
			h.Logger(r).WithError(err).WithField("flow_id", flowID).Warn("checkout shipping failed")
		}
		flow, summary, loadErr := h.service.load(ctx, owner, flowID)
		if loadErr != nil {
			h.writeFlowError(w, r, loadErr)
			return
		}
		view := templates.ShippingView{Address: form.Address}
		view.Failed = failure.key
		view.Detail = failure.detail
		h.writeShipping(w, r, http.StatusUnprocessableEntity, flow, summary, view)
		return
	}
	h.Redirect(w, r, routepath.CheckoutFlow(flow.ID))
}

func (h handlers) handleBack(w http.ResponseWriter, r *http.Request) {
	flow, err := h.service.back(h.RequestSessionID(r), r.PathValue("flowID"))
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}
	h.Redirect(w, r, routepath.CheckoutFlow(flow.ID))
}

func (h handlers) handlePayment(w http.ResponseWriter, r *http.Request) {
	ctx := h.RequestContext(r)
	owner := h.RequestSessionID(r)
	flowID := r.PathValue("flowID")

	details, view, fieldErrs, err := h.bindPayment(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		h.rewritePayment(w, r, owner, flowID, view, func(v *templates.PaymentView) { v.Errors = fieldErrs })
		return
	}

	result, err := h.service.submitPayment(ctx, owner, flowID, details)
	if err != nil {
		var failure stepFailure
		if !errors.As(err, &failure) {
			h.writeFlowError(w, r, err)
			return
		}
		h.Logger(r).WithError(err).WithField("flow_id", flowID).Warn("checkout payment failed")
		h.rewritePayment(w, r, owner, flowID, view, func(v *templates.PaymentView) {
			v.Failed = failure.key
			v.Detail = failure.detail
		})
		return
	}
	if !result.Completed {
		outcome := result.Outcome
		h.rewritePayment(w, r, owner, flowID, view, func(v *templates.PaymentView) {
			v.Failed = outcome.Key
			if v.Failed == "" {
				v.Failed = payment.KeyFailed
			}
			v.Detail = outcome.Message
		})
		return
	}
	h.FlashAndRedirect(w, r, flash.Success("checkout.success"), routepath.CheckoutConfirmationFor(result.Flow.OrderID))
}

func (h handlers) handleConfirmation(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.confirmation(h.RequestContext(r), r.URL.Query().Get(routepath.OrderIDQueryKey))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	view := h.View(r)
	h.WritePage(w, r, view.T("checkout.confirmation.title"), http.StatusOK, templates.ConfirmationPage(templates.ConfirmationView{
		View:  view,
		Order: orderview.Map(view.Locale, order),
	}))
}

// bindPayment decodes the form for the configured payment variant. The
// returned view keeps the non-secret fields for re-rendering.
func (h handlers) bindPayment(r *http.Request) (payment.Details, templates.PaymentView, forms.Errors, error) {
	if h.service.paymentMode() == payment.ModeGateway {
		var form gatewayForm
		if err := h.binder.Decode(r, &form); err != nil {
			return payment.Details{}, templates.PaymentView{}, nil, err
		}
		return form.details(), templates.PaymentView{CardName: form.Name}, nil, nil
	}
	var form cardForm
	fieldErrs, err := h.binder.Bind(r, &form, cardMessages)
	if err != nil {
		return payment.Details{}, templates.PaymentView{}, nil, err
	}
	return form.details(), templates.PaymentView{CardName: form.Name, Expiry: form.Expiry}, fieldErrs, nil
}

// rewritePayment reloads the flow and re-renders the payment step with
// the submitted fields and an inline failure.
func (h handlers) rewritePayment(w http.ResponseWriter, r *http.Request, owner, flowID string, submitted templates.PaymentView, apply func(*templates.PaymentView)) {
	flow, summary, err := h.service.load(h.RequestContext(r), owner, flowID)
	if err != nil {
		h.writeFlowError(w, r, err)
		return
	}
	view := h.paymentView(flow)
	view.CardName = submitted.CardName
	view.Expiry = submitted.Expiry
	apply(&view)
	h.writePayment(w, r, http.StatusUnprocessableEntity, flow, summary, view)
}

func (h handlers) paymentView(flow checkoutflow.Flow) templates.PaymentView {
	view := templates.PaymentView{}
	if h.service.paymentMode() == payment.ModeGateway {
		view.Gateway = true
		view.PublishableKey = h.publishableKey
		view.ClientSecret = flow.ClientSecret
		view.IntentID = flow.PaymentIntentID
	}
	return view
}

func (h handlers) writeShipping(w http.ResponseWriter, r *http.Request, status int, flow checkoutflow.Flow, summary checkoutflow.Snapshot, view templates.ShippingView) {
	view.CheckoutView = h.checkoutView(r, flow, summary, view.CheckoutView)
	view.Action = routepath.CheckoutShipping(flow.ID)
	if flow.HasOrder() {
		view.Locked = true
		view.Address = flow.ShippingAddress
	}
	h.writeStep(w, r, status, templates.ShippingPage(view))
}

func (h handlers) writePayment(w http.ResponseWriter, r *http.Request, status int, flow checkoutflow.Flow, summary checkoutflow.Snapshot, view templates.PaymentView) {
	view.CheckoutView = h.checkoutView(r, flow, summary, view.CheckoutView)
	view.Action = routepath.CheckoutPayment(flow.ID)
	view.BackAction = routepath.CheckoutBack(flow.ID)
	h.writeStep(w, r, status, templates.PaymentPage(view))
}

func (h handlers) checkoutView(r *http.Request, flow checkoutflow.Flow, summary checkoutflow.Snapshot, base templates.CheckoutView) templates.CheckoutView {
	view := h.View(r)
	base.View = view
	base.FlowID = flow.ID
	base.Step = string(flow.Step)
	base.Summary = summaryView(view.Locale, h.images, summary)
	return base
}

func (h handlers) writeStep(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	title := h.T(r, "checkout.title")
	if status == http.StatusOK {
		h.WritePage(w, r, title, status, page)
		return
	}
	h.WriteFormPage(w, r, title, page)
}

// writeFlowError sends expired or foreign flows back to the cart and steps
// taken out of order back to the flow's current step.
func (h handlers) writeFlowError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, checkoutflow.ErrFlowNotFound):
		h.FlashAndRedirect(w, r, flash.Error("checkout.error.flow_expired"), routepath.Cart)
	case errors.Is(err, checkoutflow.ErrWrongStep):
		h.Redirect(w, r, routepath.CheckoutFlow(r.PathValue("flowID")))
	default:
		h.WriteError(w, r, err)
	}
}
