// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package store reads and writes the file-backed recipe and robot
// profile repositories.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/curioswitch/robochef/internal/robodb"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("store: not found")

// Recipes is a directory of canonical recipes, one JSON document each.
type Recipes struct {
	dir string
}

// NewRecipes returns a recipe repository rooted at dir.
func NewRecipes(dir string) *Recipes {
	return &Recipes{dir: dir}
}

// Get returns the stored recipe with the given ID.
func (r *Recipes) Get(_ context.Context, recipeID string) (*robodb.CanonicalRecipe, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, recipeID+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: recipe %s", ErrNotFound, recipeID)
		}
		return nil, fmt.Errorf("store: reading recipe %s: %w", recipeID, err)
	}
	var recipe robodb.CanonicalRecipe
	if err := json.Unmarshal(data, &recipe); err != nil {
		return nil, fmt.Errorf("store: unmarshalling recipe %s: %w", recipeID, err)
	}
	return &recipe, nil
}

// ListMeta returns summaries of all stored recipes, sorted by ID.
// Unreadable documents are skipped.
func (r *Recipes) ListMeta(ctx context.Context) ([]robodb.RecipeMeta, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: listing recipes: %w", err)
	}

	var metas []robodb.RecipeMeta
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		recipe, err := r.Get(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "store: skipping unreadable recipe", "id", id, "error", err)
			continue
		}
		metas = append(metas, robodb.RecipeMeta{
			ID:      id,
			Title:   recipe.Title,
			Tags:    recipe.Tags,
			PrepMin: recipe.PrepMin,
			CookMin: recipe.CookMin,
		})
	}
	sort.Slice(metas, func(i, j int) bool { return metas[i].ID < metas[j].ID })
	return metas, nil
}

// Save writes the recipe as the document for recipeID.
func (r *Recipes) Save(_ context.Context, recipeID string, recipe *robodb.CanonicalRecipe) error {
	data, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshalling recipe %s: %w", recipeID, err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("store: creating recipes dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, recipeID+".json"), data, 0o644); err != nil {
		return fmt.Errorf("store: writing recipe %s: %w", recipeID, err)
	}
	return nil
}
