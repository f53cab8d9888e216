// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/curioswitch/robochef/internal/llm"
	"github.com/curioswitch/robochef/internal/robodb"
)

// GenAILocalizer renders recipes into a target language with a Gemini
// model. The canonical native language is formatted locally without a
// model call.
type GenAILocalizer struct {
	genAI      *genai.Client
	model      string
	nativeLang string
}

// NewGenAILocalizer returns a GenAILocalizer. nativeLang is the
// canonical recipe language, localized by pure formatting.
func NewGenAILocalizer(genAI *genai.Client, model string, nativeLang string) *GenAILocalizer {
	return &GenAILocalizer{
		genAI:      genAI,
		model:      model,
		nativeLang: nativeLang,
	}
}

func (l *GenAILocalizer) Localize(ctx context.Context, recipe *robodb.CanonicalRecipe, lang string) (*robodb.LocalizedRecipe, error) {
	if strings.HasPrefix(strings.ToLower(lang), l.nativeLang) {
		return FormatNative(recipe), nil
	}

	recipeJSON, err := json.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("recipegen: marshalling recipe for localization: %w", err)
	}

	res, err := l.genAI.Models.GenerateContent(ctx, l.model, []*genai.Content{
		genai.NewContentFromText(llm.LocalizeRequest(lang, string(recipeJSON)), genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.LocalizePrompt(), genai.RoleModel),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    robodb.LocalizedRecipeSchema,
	})
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("localizing recipe: %w", err)}
	}
	text := res.Text()
	if text == "" {
		return nil, &UpstreamError{Err: fmt.Errorf("unexpected localization response from genai: %v", res)}
	}

	var localized robodb.LocalizedRecipe
	if err := json.Unmarshal([]byte(text), &localized); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("unmarshalling localized recipe: %w", err)}
	}
	return &localized, nil
}

// FormatNative renders the recipe in its canonical language as a pure
// local transform.
func FormatNative(recipe *robodb.CanonicalRecipe) *robodb.LocalizedRecipe {
	ingredients := make([]string, len(recipe.Ingredients))
	for i, ing := range recipe.Ingredients {
		ingredients[i] = formatIngredient(ing)
	}
	steps := make([]string, len(recipe.Steps))
	for i, step := range recipe.Steps {
		steps[i] = step.Text
	}
	return &robodb.LocalizedRecipe{
		Title:       recipe.Title,
		Ingredients: ingredients,
		Steps:       steps,
	}
}

func formatIngredient(ing robodb.Ingredient) string {
	if ing.Qty == nil || ing.Unit == "" {
		return ing.Name
	}
	return ing.Name + " — " + strconv.FormatFloat(*ing.Qty, 'g', -1, 64) + " " + string(ing.Unit)
}
