// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package getrecipe

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/curioswitch/robochef/internal/handler/httpjson"
	"github.com/curioswitch/robochef/internal/i18n"
	"github.com/curioswitch/robochef/internal/robodb"
)

// RecipeStore loads stored canonical recipes.
type RecipeStore interface {
	Get(ctx context.Context, recipeID string) (*robodb.CanonicalRecipe, error)
}

// Localizer renders canonical recipes in a target language.
type Localizer interface {
	Localize(ctx context.Context, recipe *robodb.CanonicalRecipe, lang string) (*robodb.LocalizedRecipe, error)
}

func NewHandler(recipes RecipeStore, localizer Localizer, defaultLang string) *Handler {
	return &Handler{
		recipes:     recipes,
		localizer:   localizer,
		defaultLang: defaultLang,
	}
}

type Handler struct {
	recipes     RecipeStore
	localizer   Localizer
	defaultLang string
}

type response struct {
	RecipeID        string                 `json:"recipe_id"`
	Lang            string                 `json:"lang"`
	Origin          robodb.Origin          `json:"origin"`
	CanonicalRecipe robodb.CanonicalRecipe `json:"canonical_recipe"`
	Localized       robodb.LocalizedRecipe `json:"localized"`
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	recipeID := chi.URLParam(r, "recipeID")

	recipe, err := h.recipes.Get(ctx, recipeID)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}

	lang := i18n.UserLanguage(ctx)
	if lang == "" {
		lang = h.defaultLang
	}
	localized, err := h.localizer.Localize(ctx, recipe, lang)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}

	httpjson.Respond(w, http.StatusOK, &response{
		RecipeID:        recipeID,
		Lang:            lang,
		Origin:          robodb.OriginInternal,
		CanonicalRecipe: *recipe,
		Localized:       *localized,
	})
}
