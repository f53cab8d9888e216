// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package generaterecipe

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/curioswitch/robochef/internal/handler/httpjson"
	"github.com/curioswitch/robochef/internal/i18n"
	"github.com/curioswitch/robochef/internal/robodb"
)

// Generator starts generation rounds.
type Generator interface {
	Start(ctx context.Context, req *robodb.GenerateRequest) (*robodb.GenerateResponse, error)
}

// RecipeSaver persists resolved canonical recipes.
type RecipeSaver interface {
	Save(ctx context.Context, recipeID string, recipe *robodb.CanonicalRecipe) error
}

func NewHandler(generator Generator, recipes RecipeSaver) *Handler {
	return &Handler{
		generator: generator,
		recipes:   recipes,
	}
}

type Handler struct {
	generator Generator
	recipes   RecipeSaver
}

func (h *Handler) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req robodb.GenerateRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if req.Query == "" || req.RobotModel == "" {
		httpjson.Respond(w, http.StatusBadRequest, map[string]string{"error": "query and robot_model are required"})
		return
	}
	if req.Lang == "" {
		req.Lang = i18n.UserLanguage(ctx)
	}

	res, err := h.generator.Start(ctx, &req)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}

	if res.Result != nil {
		// Persistence is best effort; a write failure does not fail a
		// round the user already waited for.
		if err := h.recipes.Save(ctx, res.Result.RecipeID, &res.Result.CanonicalRecipe); err != nil {
			slog.ErrorContext(ctx, "generaterecipe: saving recipe", "id", res.Result.RecipeID, "error", err)
		}
	}

	httpjson.Respond(w, http.StatusOK, res)
}
