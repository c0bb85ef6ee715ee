package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/api/responses"
	"github.com/foodheaven/storefront-backend/api/validators"
	menusvc "github.com/foodheaven/storefront-backend/internal/menu"
	"github.com/foodheaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
)

type createItemRequest struct {
	Name        string          `json:"name" validate:"required"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	ImageURL    *string         `json:"image_url"`
	IsNew       bool            `json:"is_new"`
	IsAvailable *bool           `json:"is_available"`
}

type updateItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	ImageURL    *string          `json:"image_url"`
	IsNew       *bool            `json:"is_new"`
	IsAvailable *bool            `json:"is_available"`
}

// AdminItemCreate adds a menu item and invalidates the cached menu.
func AdminItemCreate(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		var payload createItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseMenuCategory(payload.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		item, err := svc.CreateItem(r.Context(), menusvc.CreateItemDTO{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			Category:    category,
			ImageURL:    payload.ImageURL,
			IsNew:       payload.IsNew,
			IsAvailable: payload.IsAvailable,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// AdminItemUpdate edits a menu item; nil fields stay unchanged.
func AdminItemUpdate(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto := menusvc.UpdateItemDTO{
			Name:        payload.Name,
			Description: payload.Description,
			Price:       payload.Price,
			ImageURL:    payload.ImageURL,
			IsNew:       payload.IsNew,
			IsAvailable: payload.IsAvailable,
		}
		if payload.Category != nil {
			category, err := enums.ParseMenuCategory(*payload.Category)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			dto.Category = &category
		}

		if err := svc.UpdateItem(r.Context(), itemID, dto); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Editing an item deleted in the meantime is a silent no-op, so
		// the re-read may legitimately find nothing.
		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
				responses.WriteSuccess(w, map[string]string{"status": "unchanged"})
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// AdminItemDelete removes a menu item.
func AdminItemDelete(svc menusvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		if err := svc.DeleteItem(r.Context(), itemID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
