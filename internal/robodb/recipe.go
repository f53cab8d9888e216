// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package robodb

import (
	"google.golang.org/genai"
)

type Origin string

const (
	// OriginInternal is the origin for recipes from the local store.
	OriginInternal Origin = "internal"
	// OriginWeb is the origin for recipes extracted from the web.
	OriginWeb Origin = "web"
)

// QuantityUnit is a unit for an ingredient quantity, from a closed set.
type QuantityUnit string

const (
	UnitGram       QuantityUnit = "g"
	UnitKilogram   QuantityUnit = "kg"
	UnitMilliliter QuantityUnit = "ml"
	UnitLiter      QuantityUnit = "l"
	UnitPiece      QuantityUnit = "pcs"
	UnitTeaspoon   QuantityUnit = "tsp"
	UnitTablespoon QuantityUnit = "tbsp"
)

// ActionType is a structured hint tagging what a recipe step does.
type ActionType string

const (
	ActionChop    ActionType = "CHOP"
	ActionMix     ActionType = "MIX"
	ActionWhisk   ActionType = "WHISK"
	ActionKnead   ActionType = "KNEAD"
	ActionHeat    ActionType = "HEAT"
	ActionSteam   ActionType = "STEAM"
	ActionRest    ActionType = "REST"
	ActionBake    ActionType = "BAKE"
	ActionFry     ActionType = "FRY"
	ActionBoil    ActionType = "BOIL"
	ActionUnknown ActionType = "UNKNOWN"
)

// Ingredient represents an ingredient in a canonical recipe.
type Ingredient struct {
	// Name is the ingredient name in the canonical language.
	Name string `json:"name"`

	// Qty is the normalized quantity, if known.
	Qty *float64 `json:"qty,omitempty"`

	// Unit is the unit for Qty.
	Unit QuantityUnit `json:"unit,omitempty"`

	// Notes are free-form notes about the ingredient.
	Notes string `json:"notes,omitempty"`
}

// RecipeStep represents a step in a canonical recipe.
type RecipeStep struct {
	// Index is the 1-based position of the step.
	Index int `json:"idx"`

	// Text is the human-readable step text in the canonical language.
	Text string `json:"text"`

	// ActionType tags the step for adaptation.
	ActionType ActionType `json:"action_type,omitempty"`

	// DurationSec is a duration hint for the step.
	DurationSec *int `json:"duration_sec,omitempty"`

	// TemperatureC is a temperature hint for the step.
	TemperatureC *int `json:"temperature_c,omitempty"`

	// Speed is a speed hint for the step.
	Speed *int `json:"speed,omitempty"`

	// Attachment is an attachment hint for the step.
	Attachment string `json:"attachment,omitempty"`
}

// CanonicalRecipe is the language-neutral source-of-truth recipe from
// which localization and device adaptation are both derived. It is
// produced once per generation request and never mutated afterwards.
type CanonicalRecipe struct {
	// Title is the title of the recipe.
	Title string `json:"title"`

	// Servings is the number of servings the recipe makes.
	Servings *int `json:"servings,omitempty"`

	// PrepMin is the preparation time in minutes.
	PrepMin *int `json:"prep_min,omitempty"`

	// CookMin is the cooking time in minutes.
	CookMin *int `json:"cook_min,omitempty"`

	// Ingredients are the ingredients of the recipe, in order.
	Ingredients []Ingredient `json:"ingredients"`

	// Steps are the steps of the recipe, in order.
	Steps []RecipeStep `json:"steps"`

	// Tags are free-form tags for the recipe.
	Tags []string `json:"tags,omitempty"`

	// SourceURLs are the URLs the recipe was extracted from.
	SourceURLs []string `json:"source_urls,omitempty"`

	// Notes are free-form notes about the recipe.
	Notes string `json:"notes,omitempty"`
}

// LocalizedRecipe is display text for a recipe in one target language.
type LocalizedRecipe struct {
	// Title is the localized title.
	Title string `json:"title"`

	// Ingredients are rendered ingredient lines.
	Ingredients []string `json:"ingredients"`

	// Steps are rendered step lines.
	Steps []string `json:"steps"`
}

var ingredientsSchema = &genai.Schema{
	Type:        "array",
	Description: "The ingredients of the recipe, in order.",
	Items: &genai.Schema{
		Type:        "object",
		Description: "An ingredient in the recipe.",
		Properties: map[string]*genai.Schema{
			"name": {
				Type:        "string",
				Description: "The name of the ingredient in the canonical language.",
			},
			"qty": {
				Type:        "number",
				Description: "The normalized quantity of the ingredient, null if unknown.",
				Nullable:    genai.Ptr(true),
			},
			"unit": {
				Type:        "string",
				Description: "The unit for qty, null if unknown.",
				Enum:        []string{"g", "kg", "ml", "l", "pcs", "tsp", "tbsp"},
				Nullable:    genai.Ptr(true),
			},
			"notes": {
				Type:        "string",
				Description: "Free-form notes about the ingredient.",
				Nullable:    genai.Ptr(true),
			},
		},
		Required: []string{"name"},
	},
}

// CanonicalRecipeSchema constrains extraction output to CanonicalRecipe.
var CanonicalRecipeSchema = &genai.Schema{
	Type:        "object",
	Description: "A language-neutral canonical recipe.",
	Required:    []string{"title", "ingredients", "steps"},
	Properties: map[string]*genai.Schema{
		"title": {
			Type:        "string",
			Description: "The title of the recipe.",
		},
		"servings": {
			Type:        "integer",
			Description: "The number of servings, null if unknown.",
			Nullable:    genai.Ptr(true),
		},
		"prep_min": {
			Type:        "integer",
			Description: "The preparation time in minutes, null if unknown.",
			Nullable:    genai.Ptr(true),
		},
		"cook_min": {
			Type:        "integer",
			Description: "The cooking time in minutes, null if unknown.",
			Nullable:    genai.Ptr(true),
		},
		"ingredients": ingredientsSchema,
		"steps": {
			Type:        "array",
			Description: "The steps of the recipe, in order.",
			Items: &genai.Schema{
				Type:        "object",
				Description: "A step in the recipe.",
				Properties: map[string]*genai.Schema{
					"idx": {
						Type:        "integer",
						Description: "The 1-based index of the step.",
					},
					"text": {
						Type:        "string",
						Description: "The human-readable step text.",
					},
					"action_type": {
						Type:        "string",
						Description: "A structured action tag for the step.",
						Enum: []string{
							"CHOP", "MIX", "WHISK", "KNEAD", "HEAT", "STEAM",
							"REST", "BAKE", "FRY", "BOIL", "UNKNOWN",
						},
					},
					"duration_sec": {
						Type:        "integer",
						Description: "A duration hint in seconds, null if unknown.",
						Nullable:    genai.Ptr(true),
					},
					"temperature_c": {
						Type:        "integer",
						Description: "A temperature hint in Celsius, null if unknown.",
						Nullable:    genai.Ptr(true),
					},
					"speed": {
						Type:        "integer",
						Description: "A speed hint, null if unknown.",
						Nullable:    genai.Ptr(true),
					},
					"attachment": {
						Type:        "string",
						Description: "An attachment hint for the step.",
						Nullable:    genai.Ptr(true),
					},
				},
				Required: []string{"idx", "text"},
			},
		},
		"tags": {
			Type:        "array",
			Description: "Free-form tags for the recipe.",
			Items:       &genai.Schema{Type: "string"},
		},
		"source_urls": {
			Type:        "array",
			Description: "The URLs the recipe was extracted from.",
			Items:       &genai.Schema{Type: "string"},
		},
		"notes": {
			Type:        "string",
			Description: "Free-form notes about the recipe.",
			Nullable:    genai.Ptr(true),
		},
	},
}

// LocalizedRecipeSchema constrains localization output to LocalizedRecipe.
var LocalizedRecipeSchema = &genai.Schema{
	Type:        "object",
	Description: "Display text for a recipe in one target language.",
	Required:    []string{"title", "ingredients", "steps"},
	Properties: map[string]*genai.Schema{
		"title": {
			Type:        "string",
			Description: "The localized title of the recipe.",
		},
		"ingredients": {
			Type:        "array",
			Description: "The rendered ingredient lines.",
			Items:       &genai.Schema{Type: "string"},
		},
		"steps": {
			Type:        "array",
			Description: "The rendered step lines.",
			Items:       &genai.Schema{Type: "string"},
		},
	},
}
