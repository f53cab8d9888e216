// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipegen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
	"google.golang.org/genai"

	"github.com/curioswitch/robochef/internal/llm"
	"github.com/curioswitch/robochef/internal/robodb"
)

// GenAIPlanner adapts recipes to robot plans with a Gemini model.
type GenAIPlanner struct {
	genAI *genai.Client
	model string
}

// NewGenAIPlanner returns a GenAIPlanner using the given model.
func NewGenAIPlanner(genAI *genai.Client, model string) *GenAIPlanner {
	return &GenAIPlanner{
		genAI: genAI,
		model: model,
	}
}

func (p *GenAIPlanner) Adapt(ctx context.Context, in *AdaptInput) (*robodb.RobotPlan, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("recipegen: marshalling adaptation payload: %w", err)
	}

	res, err := p.genAI.Models.GenerateContent(ctx, p.model, []*genai.Content{
		genai.NewContentFromText(llm.AdaptToRobotRequest(string(payload)), genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(llm.AdaptToRobotPrompt(), genai.RoleModel),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    robodb.RobotPlanSchema,
	})
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("adapting recipe: %w", err)}
	}
	text := res.Text()
	if text == "" {
		return nil, &UpstreamError{Err: fmt.Errorf("unexpected adaptation response from genai: %v", res)}
	}

	return parsePlan([]byte(text))
}

// OpenAIPlanner adapts recipes to robot plans through an
// OpenAI-compatible chat completion endpoint, such as xAI's.
type OpenAIPlanner struct {
	client *openai.Client
	model  string
}

// NewOpenAIPlanner returns an OpenAIPlanner using the given model.
func NewOpenAIPlanner(client *openai.Client, model string) *OpenAIPlanner {
	return &OpenAIPlanner{
		client: client,
		model:  model,
	}
}

func (p *OpenAIPlanner) Adapt(ctx context.Context, in *AdaptInput) (*robodb.RobotPlan, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("recipegen: marshalling adaptation payload: %w", err)
	}

	res, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(llm.AdaptToRobotPrompt()),
			openai.UserMessage(llm.AdaptToRobotRequest(string(payload))),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("adapting recipe: %w", err)}
	}
	if len(res.Choices) != 1 || res.Choices[0].Message.Content == "" {
		return nil, &UpstreamError{Err: fmt.Errorf("unexpected adaptation response from chat completion: %v", res)}
	}

	return parsePlan([]byte(res.Choices[0].Message.Content))
}

// parsePlan parses planner output. A parse failure is a hard error for
// the round, never repaired here; only the safety validator repairs
// plans, and only their numeric and attachment values.
func parsePlan(data []byte) (*robodb.RobotPlan, error) {
	var plan robodb.RobotPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("unmarshalling robot plan: %w", err)}
	}
	return &plan, nil
}
