// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"github.com/curioswitch/go-curiostack/config"
)

// LLM configures the generative collaborators.
type LLM struct {
	// Planner selects the adaptation planner backend, either "genai" or
	// "openai".
	Planner string `koanf:"planner"`

	// ExtractModel is the model used for recipe extraction.
	ExtractModel string `koanf:"extractmodel"`

	// PlanModel is the model used for robot adaptation.
	PlanModel string `koanf:"planmodel"`

	// LocalizeModel is the model used for localization.
	LocalizeModel string `koanf:"localizemodel"`

	// NativeLanguage is the canonical recipe language, localized without
	// a model call.
	NativeLanguage string `koanf:"nativelanguage"`
}

// Data configures the file-backed stores.
type Data struct {
	// RecipesDir is the directory holding recipe JSON documents.
	RecipesDir string `koanf:"recipesdir"`

	// ProfilesDir is the directory holding robot profile YAML documents.
	ProfilesDir string `koanf:"profilesdir"`
}

// Sessions configures the clarification session table.
type Sessions struct {
	// TTLHours is how long an untouched session stays resumable.
	TTLHours int `koanf:"ttlhours"`

	// MaxSize is the maximum number of live sessions.
	MaxSize int `koanf:"maxsize"`
}

// Cache configures extraction memoization.
type Cache struct {
	// TTLMinutes is how long a cached extraction stays fresh.
	TTLMinutes int `koanf:"ttlminutes"`

	// MaxSize is the maximum number of cached extractions.
	MaxSize int `koanf:"maxsize"`
}

// Search steers web search during extraction.
type Search struct {
	// AllowedDomains are preferred source domains.
	AllowedDomains []string `koanf:"alloweddomains"`

	// ExcludedDomains are domains never used as sources.
	ExcludedDomains []string `koanf:"excludeddomains"`
}

type Config struct {
	config.Common

	// LLM is the configuration for generative collaborators.
	LLM LLM `koanf:"llm"`

	// Data is the configuration for the file-backed stores.
	Data Data `koanf:"data"`

	// Sessions is the configuration for the session table.
	Sessions Sessions `koanf:"sessions"`

	// Cache is the configuration for extraction memoization.
	Cache Cache `koanf:"cache"`

	// Search is the configuration for web search.
	Search Search `koanf:"search"`
}
