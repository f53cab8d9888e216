// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package llm holds the prompt text sent to the generative collaborator.
package llm

import (
	"fmt"
)

const extractRecipePrompt = `You are a culinary data extraction engine. Your job: find a recipe by name
using web search if needed, then extract it into the given JSON schema. Do NOT invent ingredients or
steps. Prefer authoritative sources. Keep quantities and units consistent; if missing, set them to null.
Return ONLY valid JSON conforming to the schema.
`

// ExtractRecipePrompt returns the system prompt for recipe extraction.
func ExtractRecipePrompt() string {
	return extractRecipePrompt
}

// ExtractRecipeQuery returns the user message for extracting the recipe
// named by query.
func ExtractRecipeQuery(query string) string {
	return fmt.Sprintf(`Recipe name: %s
Use web search to find 2-3 sources. Extract one coherent recipe variant.
Include source URLs in source_urls.
Output must be JSON only.`, query)
}

const adaptToRobotPrompt = `You are a cooking-to-robot planner. Given a canonical recipe, a robot
profile, mapping hints, constraints, and prior answers, output a robot plan in the schema. Never exceed
robot limits. If impossible, add cannot_map and ask questions.
`

// AdaptToRobotPrompt returns the system prompt for robot adaptation.
func AdaptToRobotPrompt() string {
	return adaptToRobotPrompt
}

// AdaptToRobotRequest returns the user message for one adaptation
// round. payloadJSON is the serialized adaptation input.
func AdaptToRobotRequest(payloadJSON string) string {
	return `Create a robot_program compatible with the robot profile.
Also provide manual_steps (what user does), warnings, questions if needed.

IMPORTANT:
- Use 'answers' to resolve previous questions. Never re-ask an answered question.
- If still missing data, return questions[] with concise prompts.
- Never exceed robot limits.
- robot_program should be runnable and explicit (mode/speed/temp/duration/attachment).
- Return ONLY valid JSON for the RobotPlan schema.

INPUT_PAYLOAD:
` + payloadJSON
}

const localizePrompt = `You are a professional culinary translator. Translate recipe title, ingredients
list and steps into the target language. Do not change quantities, units, or meaning.
`

// LocalizePrompt returns the system prompt for recipe localization.
func LocalizePrompt() string {
	return localizePrompt
}

// LocalizeRequest returns the user message for localizing recipeJSON
// into lang.
func LocalizeRequest(lang string, recipeJSON string) string {
	return fmt.Sprintf(`Target language: %s
Return ONLY JSON for the LocalizedRecipe schema.

%s`, lang, recipeJSON)
}
