package controllers

import (
	"net/http"

	"github.com/atacadolink/atacadolink-backend/api/responses"
	"github.com/atacadolink/atacadolink-backend/api/validators"
	pkgcart "github.com/atacadolink/atacadolink-backend/internal/cart"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type cartResponse struct {
	Lines []pkgcart.Line `json:"lines"`
}

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

type adjustCartItemRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// CartGet returns the session's cart contents.
func CartGet(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Lines: ctrl.CartLines()})
	}
}

// CartAddItem puts one unit of a catalog product into the cart.
func CartAddItem(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := ctrl.AddToCart(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cartResponse{Lines: lines})
	}
}

// CartAdjustItem shifts the quantity of an existing cart line by a delta.
func CartAdjustItem(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body adjustCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Lines: ctrl.AdjustCartQuantity(productID, body.Delta)})
	}
}

// CartRemoveItem drops the product's line from the cart.
func CartRemoveItem(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := parsePathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cartResponse{Lines: ctrl.RemoveFromCart(productID)})
	}
}

// CartClear empties the cart.
func CartClear(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ctrl.ClearCart()
		responses.WriteSuccess(w, cartResponse{Lines: ctrl.CartLines()})
	}
}

// CartSubmit turns the cart into an order for the active entity.
func CartSubmit(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := ctrl.SubmitCart(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
