// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package robodb

// GenerateRequest starts a generation round from a free-text query.
type GenerateRequest struct {
	// Query is the recipe request, either a dish name or a recipe URL.
	Query string `json:"query"`

	// Lang is the target language for localized output.
	Lang string `json:"lang"`

	// RobotModel is the device to adapt the recipe for.
	RobotModel string `json:"robot_model"`

	// Constraints are caller constraints passed opaquely to the planner.
	Constraints map[string]any `json:"constraints,omitempty"`
}

// ContinueRequest resumes a clarification session with new answers.
type ContinueRequest struct {
	// SessionID identifies the session returned by a previous round.
	SessionID string `json:"session_id"`

	// Answers are answers to previously returned questions, keyed by
	// question key. They merge into the session's accumulated answers.
	Answers map[string]any `json:"answers,omitempty"`
}

// RecipeResponse is the fully assembled result of a resolved round.
type RecipeResponse struct {
	// RecipeID identifies the generated recipe.
	RecipeID string `json:"recipe_id"`

	// Lang is the language of the localized content.
	Lang string `json:"lang"`

	// Origin is where the canonical recipe came from.
	Origin Origin `json:"origin"`

	// CanonicalRecipe is the language-neutral recipe.
	CanonicalRecipe CanonicalRecipe `json:"canonical_recipe"`

	// Localized is the display text in Lang.
	Localized LocalizedRecipe `json:"localized"`

	// RobotProgram is the validated device program.
	RobotProgram []ProgramStep `json:"robot_program"`

	// ManualSteps are actions the user performs by hand.
	ManualSteps []string `json:"manual_steps"`

	// Warnings are non-fatal issues from planning and validation.
	Warnings []string `json:"warnings"`

	// Questions echoes the plan's open questions. Empty on a resolved
	// round.
	Questions []map[string]any `json:"questions"`

	// SourceURLs are the canonical recipe's source URLs.
	SourceURLs []string `json:"source_urls"`
}

// GenerateResponse is the outcome of one clarification round. Exactly
// one of Result or a non-empty Questions is populated.
type GenerateResponse struct {
	// SessionID identifies the session for follow-up rounds.
	SessionID string `json:"session_id"`

	// Result is the assembled result when the round resolved.
	Result *RecipeResponse `json:"result,omitempty"`

	// Questions are the open questions when the round awaits answers.
	Questions []map[string]any `json:"questions"`
}

// RecipeMeta is a summary entry for the stored recipe listing.
type RecipeMeta struct {
	// ID is the stored recipe identifier.
	ID string `json:"id"`

	// Title is the recipe title.
	Title string `json:"title"`

	// Tags are the recipe tags.
	Tags []string `json:"tags,omitempty"`

	// PrepMin is the preparation time in minutes.
	PrepMin *int `json:"prep_min,omitempty"`

	// CookMin is the cooking time in minutes.
	CookMin *int `json:"cook_min,omitempty"`
}
