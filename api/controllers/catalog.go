package controllers

import (
	"net/http"

	"github.com/atacadolink/atacadolink-backend/api/responses"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
)

// Catalog serves the live product catalog for the session.
func Catalog(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ctrl.Catalog())
	}
}

// OrderHistory serves the session's visible order history, newest first.
func OrderHistory(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ctrl.OrderHistory())
	}
}
