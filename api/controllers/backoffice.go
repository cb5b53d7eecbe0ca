package controllers

import (
	"net/http"

	"github.com/atacadolink/atacadolink-backend/api/responses"
	"github.com/atacadolink/atacadolink-backend/api/validators"
	"github.com/atacadolink/atacadolink-backend/internal/backoffice"
	"github.com/atacadolink/atacadolink-backend/internal/entities"
	"github.com/atacadolink/atacadolink-backend/internal/products"
	"github.com/atacadolink/atacadolink-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createProductRequest struct {
	SKU         string   `json:"sku" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	PriceCents  int      `json:"price_cents" validate:"required,min=1"`
	Available   *bool    `json:"available,omitempty"`
}

type updateProductRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	PriceCents  *int      `json:"price_cents,omitempty"`
	Available   *bool     `json:"available,omitempty"`
}

type createEntityRequest struct {
	Name         string  `json:"name" validate:"required"`
	TradeName    *string `json:"trade_name,omitempty"`
	CNPJ         string  `json:"cnpj" validate:"required"`
	AddressLine1 string  `json:"address_line1" validate:"required"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         string  `json:"city" validate:"required"`
	State        string  `json:"state" validate:"required"`
	PostalCode   string  `json:"postal_code" validate:"required"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type updateEntityRequest struct {
	Name         *string `json:"name,omitempty"`
	TradeName    *string `json:"trade_name,omitempty"`
	AddressLine1 *string `json:"address_line1,omitempty"`
	AddressLine2 *string `json:"address_line2,omitempty"`
	City         *string `json:"city,omitempty"`
	State        *string `json:"state,omitempty"`
	PostalCode   *string `json:"postal_code,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type setProfileEntitiesRequest struct {
	EntityIDs []uuid.UUID `json:"entity_ids" validate:"required"`
}

// BackofficeCreateProduct adds a product to the catalog.
func BackofficeCreateProduct(svc backoffice.Service, hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateProduct(r.Context(), ctrl.Profile(), products.CreateProductDTO{
			SKU:         body.SKU,
			Name:        body.Name,
			Description: body.Description,
			Tags:        body.Tags,
			PriceCents:  body.PriceCents,
			Available:   body.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// BackofficeUpdateProduct mutates an existing product.
func BackofficeUpdateProduct(svc backoffice.Service, hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
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

		var body updateProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProduct(r.Context(), ctrl.Profile(), productID, products.UpdateProductDTO{
			Name:        body.Name,
			Description: body.Description,
			Tags:        body.Tags,
			PriceCents:  body.PriceCents,
			Available:   body.Available,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// BackofficeListProducts lists the full catalog including unavailable items.
func BackofficeListProducts(svc backoffice.Service, hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListProducts(r.Context(), ctrl.Profile())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BackofficeCreateEntity registers a new buyer entity.
func BackofficeCreateEntity(svc backoffice.Service, hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createEntityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateEntity(r.Context(), ctrl.Profile(), entities.CreateEntityDTO{
			Name:         body.Name,
			TradeName:    body.TradeName,
			CNPJ:         body.CNPJ,
			AddressLine1: body.AddressLine1,
			AddressLine2: body.AddressLine2,
			City:         body.City,
			State:        body.State,
			PostalCode:   body.PostalCode,
			IsActive:     body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// BackofficeUpdateEntity mutates an existing entity.
func BackofficeUpdateEntity(svc backoffice.Service, hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entityID, err := parsePathUUID(chi.URLParam(r, "entityId"), "entity id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateEntityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateEntity(r.Context(), ctrl.Profile(), entityID, entities.UpdateEntityDTO{
			Name:         body.Name,
			TradeName:    body.TradeName,
			AddressLine1: body.AddressLine1,
			AddressLine2: body.AddressLine2,
			City:         body.City,
			State:        body.State,
			PostalCode:   body.PostalCode,
			IsActive:     body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// BackofficeListEntities lists every entity including inactive ones.
func BackofficeListEntities(svc backoffice.Service, hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListEntities(r.Context(), ctrl.Profile())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BackofficeSetProfileEntities replaces a representative's authorized entity set.
func BackofficeSetProfileEntities(svc backoffice.Service, hub *SessionHub, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := hub.Controller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profileID, err := parsePathUUID(chi.URLParam(r, "profileId"), "profile id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setProfileEntitiesRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.SetAuthorizedEntities(r.Context(), ctrl.Profile(), profileID, body.EntityIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
