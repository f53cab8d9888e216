// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipegen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/curioswitch/robochef/internal/llm"
	"github.com/curioswitch/robochef/internal/robodb"
)

// GenAIExtractor extracts canonical recipes with a search-grounded
// generative model. Queries that are themselves recipe URLs are scraped
// directly instead of going through the model.
type GenAIExtractor struct {
	genAI           *genai.Client
	model           string
	urls            *URLExtractor
	allowedDomains  []string
	excludedDomains []string
}

// NewGenAIExtractor returns a GenAIExtractor. urls may be nil to
// disable URL-direct extraction. Domain lists steer web search and may
// be empty.
func NewGenAIExtractor(genAI *genai.Client, model string, urls *URLExtractor,
	allowedDomains []string, excludedDomains []string,
) *GenAIExtractor {
	return &GenAIExtractor{
		genAI:           genAI,
		model:           model,
		urls:            urls,
		allowedDomains:  allowedDomains,
		excludedDomains: excludedDomains,
	}
}

func (e *GenAIExtractor) Extract(ctx context.Context, query string) (*robodb.CanonicalRecipe, error) {
	if e.urls != nil && isRecipeURL(query) {
		return e.urls.Extract(ctx, query)
	}

	userMsg := llm.ExtractRecipeQuery(query)
	if hints := e.domainHints(); hints != "" {
		userMsg += "\n" + hints
	}

	res, err := e.genAI.Models.GenerateContent(ctx, e.model, []*genai.Content{
		genai.NewContentFromText(userMsg, genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.ExtractRecipePrompt(), genai.RoleModel),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   robodb.CanonicalRecipeSchema,
	})
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("extracting recipe: %w", err)}
	}
	text := res.Text()
	if text == "" {
		return nil, &UpstreamError{Err: fmt.Errorf("unexpected extraction response from genai: %v", res)}
	}

	var recipe robodb.CanonicalRecipe
	if err := json.Unmarshal([]byte(text), &recipe); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("unmarshalling extracted recipe: %w", err)}
	}
	return &recipe, nil
}

// domainHints renders the allow/deny domain lists into prompt text.
// Lists are capped small to keep the search focused.
func (e *GenAIExtractor) domainHints() string {
	var b strings.Builder
	if len(e.allowedDomains) > 0 {
		b.WriteString("Prefer sources from these domains: ")
		b.WriteString(strings.Join(capDomains(e.allowedDomains), ", "))
		b.WriteString(".\n")
	}
	if len(e.excludedDomains) > 0 {
		b.WriteString("Never use these domains as sources: ")
		b.WriteString(strings.Join(capDomains(e.excludedDomains), ", "))
		b.WriteString(".\n")
	}
	return b.String()
}

func capDomains(domains []string) []string {
	if len(domains) > 5 {
		return domains[:5]
	}
	return domains
}

func isRecipeURL(query string) bool {
	return strings.HasPrefix(query, "https://") || strings.HasPrefix(query, "http://")
}
