package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/checkout"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/payment"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

type CheckoutHandler struct {
	Store        *store.Store
	Checkout     *checkout.Service
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Show renders the checkout page with the cart summary and the available
// payment methods. An empty cart bounces back to the cart page.
func (h *CheckoutHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)

	items, err := h.Store.GetCart(user.ID)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}
	if len(items) == 0 {
		session.AddFlash(FlashMessage{Type: "error", Message: "Your cart is empty."})
		session.Save(r, w)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	tmpl := h.Templates.Get("checkout.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	data := map[string]interface{}{
		"Items":          items,
		"Totals":         checkout.ComputeTotals(items),
		"PaymentMethods": payment.ListMethods(),
		"CsrfField":      csrf.TemplateField(r),
		"Flashes":        GetFlash(session),
		"User":           user,
		"LoggedIn":       true,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Submit places the order from the posted address and payment details. On
// success it redirects to the order confirmation page; on any failure it
// flashes the reason and returns to the checkout form.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	addr := addressFromForm(r)
	details := paymentDetailsFromForm(r)
	method := r.FormValue("payment_method")

	order, _, err := h.Checkout.PlaceOrder(user.ID, addr, method, details)
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: checkoutErrorMessage(err)})
		target := "/checkout"
		if errors.Is(err, checkout.ErrEmptyCart) {
			target = "/cart"
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Order placed successfully!"})
	http.Redirect(w, r, "/orders/"+strconv.Itoa(order.ID), http.StatusSeeOther)
}

func addressFromForm(r *http.Request) models.ShippingAddress {
	return models.ShippingAddress{
		FullName:     strings.TrimSpace(r.FormValue("full_name")),
		AddressLine1: strings.TrimSpace(r.FormValue("address_line1")),
		AddressLine2: strings.TrimSpace(r.FormValue("address_line2")),
		City:         strings.TrimSpace(r.FormValue("city")),
		State:        strings.TrimSpace(r.FormValue("state")),
		PostalCode:   strings.TrimSpace(r.FormValue("postal_code")),
		Country:      strings.TrimSpace(r.FormValue("country")),
		Phone:        strings.TrimSpace(r.FormValue("phone")),
	}
}

func paymentDetailsFromForm(r *http.Request) payment.Details {
	month, _ := strconv.Atoi(r.FormValue("expiry_month"))
	year, _ := strconv.Atoi(r.FormValue("expiry_year"))
	return payment.Details{
		CardNumber:     strings.TrimSpace(r.FormValue("card_number")),
		CardholderName: strings.TrimSpace(r.FormValue("cardholder_name")),
		CVV:            strings.TrimSpace(r.FormValue("cvv")),
		ExpiryMonth:    month,
		ExpiryYear:     year,
	}
}

func checkoutErrorMessage(err error) string {
	var valErr *checkout.ValidationError
	var payErr *checkout.PaymentError
	var stockErr *store.InsufficientStockError
	switch {
	case errors.As(err, &valErr):
		return valErr.Message
	case errors.As(err, &payErr):
		return "Payment failed: " + payErr.Message
	case errors.As(err, &stockErr):
		return stockErr.Error()
	case errors.Is(err, checkout.ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, payment.ErrUnknownMethod):
		return "Selected payment method is not available."
	default:
		return "Could not place your order. Please try again."
	}
}
