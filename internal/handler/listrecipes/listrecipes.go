// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package listrecipes

import (
	"context"
	"net/http"

	"github.com/curioswitch/robochef/internal/handler/httpjson"
	"github.com/curioswitch/robochef/internal/robodb"
)

// RecipeLister lists stored recipe summaries.
type RecipeLister interface {
	ListMeta(ctx context.Context) ([]robodb.RecipeMeta, error)
}

func NewHandler(recipes RecipeLister) *Handler {
	return &Handler{recipes: recipes}
}

type Handler struct {
	recipes RecipeLister
}

type response struct {
	Recipes []robodb.RecipeMeta `json:"recipes"`
}

func (h *Handler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	metas, err := h.recipes.ListMeta(r.Context())
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}
	if metas == nil {
		metas = []robodb.RecipeMeta{}
	}
	httpjson.Respond(w, http.StatusOK, &response{Recipes: metas})
}
