// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"

	"github.com/curioswitch/robochef/internal/robodb"
)

type howToStep struct {
	Text string `json:"text"`
}

type recipeSchema struct {
	Type               string      `json:"@type"`
	Name               string      `json:"name"`
	Description        string      `json:"description"`
	RecipeIngredient   []string    `json:"recipeIngredient"`
	RecipeInstructions []howToStep `json:"recipeInstructions"`
	RecipeYield        string      `json:"recipeYield"`
	PrepTime           string      `json:"prepTime"`
	CookTime           string      `json:"cookTime"`
}

type graphSchema struct {
	Graph []recipeSchema `json:"@graph"`
}

// URLExtractor extracts a canonical recipe directly from a recipe
// page's schema.org ld+json markup, without a model call.
type URLExtractor struct {
	baseCollector *colly.Collector
}

// NewURLExtractor returns a URLExtractor sharing baseCollector's
// settings.
func NewURLExtractor(baseCollector *colly.Collector) *URLExtractor {
	return &URLExtractor{baseCollector: baseCollector}
}

func (e *URLExtractor) Extract(ctx context.Context, url string) (*robodb.CanonicalRecipe, error) {
	// Avoid clone since we don't want to share storage.
	c := colly.NewCollector(
		colly.UserAgent(e.baseCollector.UserAgent),
		colly.StdlibContext(ctx),
	)

	var recipe *robodb.CanonicalRecipe
	c.OnHTML(`script[type="application/ld+json"]`, func(el *colly.HTMLElement) {
		if recipe != nil {
			return
		}
		if r, ok := parseRecipeJSONLD([]byte(el.Text), url); ok {
			recipe = r
		}
	})

	if err := c.Visit(url); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("scraping recipe page: %w", err)}
	}
	if recipe == nil {
		return nil, &UpstreamError{Err: fmt.Errorf("no schema.org recipe found at %s", url)}
	}
	return recipe, nil
}

// parseRecipeJSONLD parses one ld+json script body into a canonical
// recipe. Both bare Recipe objects and @graph wrappers are handled.
func parseRecipeJSONLD(data []byte, sourceURL string) (*robodb.CanonicalRecipe, bool) {
	var schema recipeSchema
	if err := json.Unmarshal(data, &schema); err == nil && schema.Type == "Recipe" {
		return recipeFromSchema(&schema, sourceURL), true
	}

	var graph graphSchema
	if err := json.Unmarshal(data, &graph); err == nil {
		for i := range graph.Graph {
			if graph.Graph[i].Type == "Recipe" {
				return recipeFromSchema(&graph.Graph[i], sourceURL), true
			}
		}
	}
	return nil, false
}

func recipeFromSchema(schema *recipeSchema, sourceURL string) *robodb.CanonicalRecipe {
	ingredients := make([]robodb.Ingredient, len(schema.RecipeIngredient))
	for i, text := range schema.RecipeIngredient {
		ingredients[i] = parseIngredientText(text)
	}

	steps := make([]robodb.RecipeStep, len(schema.RecipeInstructions))
	for i, instr := range schema.RecipeInstructions {
		steps[i] = robodb.RecipeStep{
			Index:      i + 1,
			Text:       instr.Text,
			ActionType: robodb.ActionUnknown,
		}
	}

	recipe := &robodb.CanonicalRecipe{
		Title:       schema.Name,
		Notes:       schema.Description,
		Ingredients: ingredients,
		Steps:       steps,
		SourceURLs:  []string{sourceURL},
	}
	if servings, ok := parseLeadingInt(schema.RecipeYield); ok {
		recipe.Servings = robodb.Ptr(servings)
	}
	if mins, ok := parseISODurationMin(schema.PrepTime); ok {
		recipe.PrepMin = robodb.Ptr(mins)
	}
	if mins, ok := parseISODurationMin(schema.CookTime); ok {
		recipe.CookMin = robodb.Ptr(mins)
	}
	return recipe
}

var unitAliases = map[string]robodb.QuantityUnit{
	"g":     robodb.UnitGram,
	"gram":  robodb.UnitGram,
	"grams": robodb.UnitGram,
	"kg":    robodb.UnitKilogram,
	"ml":    robodb.UnitMilliliter,
	"l":     robodb.UnitLiter,
	"pcs":   robodb.UnitPiece,
	"tsp":   robodb.UnitTeaspoon,
	"tbsp":  robodb.UnitTablespoon,
}

// parseIngredientText structures lines of the common "<qty> <unit>
// <name>" shape. Anything else keeps the whole line as the name.
func parseIngredientText(text string) robodb.Ingredient {
	fields := strings.Fields(text)
	if len(fields) >= 3 {
		if qty, err := strconv.ParseFloat(fields[0], 64); err == nil {
			if unit, ok := unitAliases[strings.ToLower(fields[1])]; ok {
				return robodb.Ingredient{
					Name: strings.Join(fields[2:], " "),
					Qty:  robodb.Ptr(qty),
					Unit: unit,
				}
			}
		}
	}
	return robodb.Ingredient{Name: text}
}

func parseLeadingInt(text string) (int, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// parseISODurationMin parses the PT#H#M durations used by schema.org
// time fields.
func parseISODurationMin(text string) (int, bool) {
	text, ok := strings.CutPrefix(text, "PT")
	if !ok || text == "" {
		return 0, false
	}
	minutes := 0
	if h, rest, found := cutNumber(text, 'H'); found {
		minutes += h * 60
		text = rest
	}
	if m, rest, found := cutNumber(text, 'M'); found {
		minutes += m
		text = rest
	}
	if text != "" || minutes == 0 {
		return 0, false
	}
	return minutes, true
}

func cutNumber(text string, suffix byte) (int, string, bool) {
	idx := strings.IndexByte(text, suffix)
	if idx < 0 {
		return 0, text, false
	}
	n, err := strconv.Atoi(text[:idx])
	if err != nil {
		return 0, text, false
	}
	return n, text[idx+1:], true
}
