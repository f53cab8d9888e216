// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package recipegen turns a free-text recipe request into a validated
// robot program, asking the user clarifying questions over multiple
// rounds when the recipe cannot be unambiguously mapped onto the robot.
package recipegen

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/curioswitch/robochef/internal/cache"
	"github.com/curioswitch/robochef/internal/robodb"
	"github.com/curioswitch/robochef/internal/session"
	"github.com/curioswitch/robochef/internal/validate"
)

// ErrSessionNotFound is returned when a continuation names a session
// that does not exist or has expired.
var ErrSessionNotFound = errors.New("recipegen: session not found")

// UpstreamError marks a failure of a generative collaborator, either an
// unavailable service or output that does not parse into the expected
// shape.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return "recipegen: upstream: " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AdaptInput is the full structured input of one adaptation round. It
// is serialized verbatim into the planner request.
type AdaptInput struct {
	// Recipe is the canonical recipe to adapt.
	Recipe robodb.CanonicalRecipe `json:"recipe"`

	// RobotProfile is the target device's capability profile.
	RobotProfile robodb.RobotProfile `json:"robot_profile"`

	// MappingRules are opaque mapping hints for the planner.
	MappingRules map[string]any `json:"mapping_rules"`

	// Constraints are the caller's constraints, passed through.
	Constraints map[string]any `json:"constraints"`

	// Answers are the accumulated user answers from earlier rounds.
	Answers map[string]any `json:"answers"`

	// TargetLanguage echoes the request's target language.
	TargetLanguage string `json:"target_language"`

	// RecipeQuery echoes the original query.
	RecipeQuery string `json:"recipe_query"`
}

// Extractor produces a canonical recipe from a free-text query.
type Extractor interface {
	Extract(ctx context.Context, query string) (*robodb.CanonicalRecipe, error)
}

// Planner produces a robot plan for one adaptation round.
type Planner interface {
	Adapt(ctx context.Context, in *AdaptInput) (*robodb.RobotPlan, error)
}

// Localizer renders a canonical recipe as display text in a target
// language.
type Localizer interface {
	Localize(ctx context.Context, recipe *robodb.CanonicalRecipe, lang string) (*robodb.LocalizedRecipe, error)
}

// ProfileStore loads robot capability profiles.
type ProfileStore interface {
	Get(ctx context.Context, robotModel string) (*robodb.RobotProfile, error)
}

// DefaultMappingRules are the built-in mapping hints passed opaquely to
// the planner. Verb stems are matched against canonical (RU) step text.
var DefaultMappingRules = map[string]any{
	"verbs_to_modes": map[string]any{
		"измельч": "CHOP",
		"нареж":   "CHOP",
		"смеш":    "MIX",
		"взбей":   "WHISK",
		"замес":   "KNEAD",
		"нагре":   "HEAT",
		"вари":    "HEAT",
		"туш":     "HEAT",
		"пари":    "STEAM",
	},
}

// Generator orchestrates extraction, adaptation, validation, and
// localization into the start and continue operations of the service.
type Generator struct {
	extractor Extractor
	planner   Planner
	localizer Localizer
	profiles  ProfileStore
	sessions  *session.Store
	responses *cache.Cache
	rules     map[string]any
}

// New returns a Generator. responses may be nil to disable extraction
// memoization.
func New(extractor Extractor, planner Planner, localizer Localizer, profiles ProfileStore,
	sessions *session.Store, responses *cache.Cache,
) *Generator {
	return &Generator{
		extractor: extractor,
		planner:   planner,
		localizer: localizer,
		profiles:  profiles,
		sessions:  sessions,
		responses: responses,
		rules:     DefaultMappingRules,
	}
}

// Start runs the initial round: extract, adapt, validate, localize,
// assemble. The returned response carries either an assembled result or
// a non-empty question set, never both, along with the session ID for
// follow-up rounds.
func (g *Generator) Start(ctx context.Context, req *robodb.GenerateRequest) (*robodb.GenerateResponse, error) {
	profile, err := g.profiles.Get(ctx, req.RobotModel)
	if err != nil {
		return nil, fmt.Errorf("recipegen: loading robot profile: %w", err)
	}

	canonical, err := g.extractRecipe(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.NewString()
	result, plan, err := g.runRound(ctx, sessionID, canonical, profile, req, map[string]any{})
	if err != nil {
		return nil, err
	}

	g.sessions.Put(&session.Session{
		ID:            sessionID,
		Request:       *req,
		Canonical:     *canonical,
		Answers:       map[string]any{},
		LastQuestions: plan.Questions,
		State:         roundState(plan),
	})

	return assemble(sessionID, result, plan), nil
}

// Continue resumes a clarification session: merge answers, re-adapt
// using the stored canonical recipe, revalidate, localize, assemble.
// The canonical recipe is never re-extracted.
func (g *Generator) Continue(ctx context.Context, req *robodb.ContinueRequest) (*robodb.GenerateResponse, error) {
	sess, ok := g.sessions.Get(req.SessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	profile, err := g.profiles.Get(ctx, sess.Request.RobotModel)
	if err != nil {
		return nil, fmt.Errorf("recipegen: loading robot profile: %w", err)
	}

	answers, ok := g.sessions.MergeAnswers(req.SessionID, req.Answers)
	if !ok {
		return nil, ErrSessionNotFound
	}

	result, plan, err := g.runRound(ctx, req.SessionID, &sess.Canonical, profile, &sess.Request, answers)
	if err != nil {
		return nil, err
	}

	sess.LastQuestions = plan.Questions
	sess.State = roundState(plan)
	g.sessions.Put(sess)

	return assemble(req.SessionID, result, plan), nil
}

// runRound performs one adapt+validate round together with
// localization. The two legs only share the canonical recipe, so they
// run concurrently.
func (g *Generator) runRound(ctx context.Context, recipeID string, canonical *robodb.CanonicalRecipe,
	profile *robodb.RobotProfile, req *robodb.GenerateRequest, answers map[string]any,
) (*robodb.RecipeResponse, *robodb.RobotPlan, error) {
	var plan *robodb.RobotPlan
	var localized *robodb.LocalizedRecipe

	grp, grpCtx := errgroup.WithContext(ctx)
	grp.Go(func() error {
		p, err := g.planner.Adapt(grpCtx, &AdaptInput{
			Recipe:         *canonical,
			RobotProfile:   *profile,
			MappingRules:   g.rules,
			Constraints:    req.Constraints,
			Answers:        answers,
			TargetLanguage: req.Lang,
			RecipeQuery:    req.Query,
		})
		if err != nil {
			return fmt.Errorf("recipegen: adapting recipe: %w", err)
		}
		plan = validate.Plan(p, profile)
		return nil
	})
	grp.Go(func() error {
		l, err := g.localizer.Localize(grpCtx, canonical, req.Lang)
		if err != nil {
			return fmt.Errorf("recipegen: localizing recipe: %w", err)
		}
		localized = l
		return nil
	})
	if err := grp.Wait(); err != nil {
		return nil, nil, err
	}

	result := &robodb.RecipeResponse{
		RecipeID:        recipeID,
		Lang:            req.Lang,
		Origin:          robodb.OriginWeb,
		CanonicalRecipe: *canonical,
		Localized:       *localized,
		RobotProgram:    plan.Program,
		ManualSteps:     plan.ManualSteps,
		Warnings:        plan.Warnings,
		Questions:       plan.Questions,
		SourceURLs:      canonical.SourceURLs,
	}
	return result, plan, nil
}

func (g *Generator) extractRecipe(ctx context.Context, query string) (*robodb.CanonicalRecipe, error) {
	var key string
	if g.responses != nil {
		key = cache.Key("extract", map[string]any{"query": query})
		if cached, ok := g.responses.Get(key); ok {
			if recipe, ok := cached.(*robodb.CanonicalRecipe); ok {
				return recipe, nil
			}
		}
	}

	recipe, err := g.extractor.Extract(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("recipegen: extracting recipe: %w", err)
	}

	if g.responses != nil {
		g.responses.Set(key, recipe)
	}
	return recipe, nil
}

func roundState(plan *robodb.RobotPlan) session.State {
	if plan.Resolved() {
		return session.StateResolved
	}
	return session.StateAwaitingAnswers
}

// assemble builds the round outcome: a result only when the plan is
// fully resolved, otherwise the open question set.
func assemble(sessionID string, result *robodb.RecipeResponse, plan *robodb.RobotPlan) *robodb.GenerateResponse {
	res := &robodb.GenerateResponse{
		SessionID: sessionID,
		Questions: plan.Questions,
	}
	if plan.Resolved() {
		res.Result = result
	}
	return res
}
