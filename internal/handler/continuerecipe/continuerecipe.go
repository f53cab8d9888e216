// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package continuerecipe

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/curioswitch/robochef/internal/handler/httpjson"
	"github.com/curioswitch/robochef/internal/robodb"
)

// Continuer resumes clarification sessions.
type Continuer interface {
	Continue(ctx context.Context, req *robodb.ContinueRequest) (*robodb.GenerateResponse, error)
}

// RecipeSaver persists resolved canonical recipes.
type RecipeSaver interface {
	Save(ctx context.Context, recipeID string, recipe *robodb.CanonicalRecipe) error
}

func NewHandler(generator Continuer, recipes RecipeSaver) *Handler {
	return &Handler{
		generator: generator,
		recipes:   recipes,
	}
}

type Handler struct {
	generator Continuer
	recipes   RecipeSaver
}

func (h *Handler) ContinueRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req robodb.ContinueRequest
	if !httpjson.Decode(w, r, &req) {
		return
	}
	if req.SessionID == "" {
		httpjson.Respond(w, http.StatusBadRequest, map[string]string{"error": "session_id is required"})
		return
	}

	res, err := h.generator.Continue(ctx, &req)
	if err != nil {
		httpjson.Error(w, r, err)
		return
	}

	if res.Result != nil {
		if err := h.recipes.Save(ctx, res.Result.RecipeID, &res.Result.CanonicalRecipe); err != nil {
			slog.ErrorContext(ctx, "continuerecipe: saving recipe", "id", res.Result.RecipeID, "error", err)
		}
	}

	httpjson.Respond(w, http.StatusOK, res)
}
