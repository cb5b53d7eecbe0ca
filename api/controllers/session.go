package controllers

import (
	"net/http"

	"github.com/atacadolink/atacadolink-backend/api/responses"
	"github.com/atacadolink/atacadolink-backend/api/validators"
	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/profiles"
	"github.com/atacadolink/atacadolink-backend/pkg/enums"
	pkgerrors "github.com/atacadolink/atacadolink-backend/pkg/errors"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/google/uuid"
)

type sessionStateResponse struct {
	Profile      *profiles.ProfileDTO `json:"profile"`
	View         enums.SessionView    `json:"view"`
	ActiveEntity *entities.EntityDTO  `json:"active_entity,omitempty"`
	ChooserOpen  bool                 `json:"entity_chooser_open"`
}

type selectViewRequest struct {
	View string `json:"view" validate:"required"`
}

type selectEntityRequest struct {
	EntityID uuid.UUID `json:"entity_id" validate:"required"`
}

// SessionState reports the session's profile, view, and active entity.
func SessionState(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sessionStateResponse{
			Profile:      ctrl.Profile(),
			View:         ctrl.View(),
			ActiveEntity: ctrl.ActiveEntity(),
			ChooserOpen:  ctrl.EntityChooserOpen(),
		})
	}
}

// SessionSelectView switches the session to another view.
func SessionSelectView(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body selectViewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := enums.ParseSessionView(body.View)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse view"))
			return
		}
		if err := ctrl.SelectView(view); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"view": view.String()})
	}
}

// SessionEntities lists the entities the profile may act as.
func SessionEntities(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ctrl.VisibleEntities())
	}
}

// SessionSelectEntity switches the active entity. The cart carries over.
func SessionSelectEntity(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body selectEntityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		selected, err := ctrl.SelectEntity(body.EntityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, selected)
	}
}

// SessionReopenEntityChooser routes the session back to entity selection
// without dropping the current selection or the cart.
func SessionReopenEntityChooser(hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctrl.ReopenEntityChooser()
		responses.WriteSuccess(w, sessionStateResponse{
			Profile:      ctrl.Profile(),
			View:         ctrl.View(),
			ActiveEntity: ctrl.ActiveEntity(),
			ChooserOpen:  ctrl.EntityChooserOpen(),
		})
	}
}
