package recipegen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/robochef/internal/cache"
	"github.com/curioswitch/robochef/internal/robodb"
	"github.com/curioswitch/robochef/internal/session"
	"github.com/curioswitch/robochef/internal/store"
)

type fakeExtractor struct {
	recipe *robodb.CanonicalRecipe
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, _ string) (*robodb.CanonicalRecipe, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	recipe := *f.recipe
	return &recipe, nil
}

// fakePlanner asks questions until all keys in wantAnswers have
// answers, then returns the resolved plan.
type fakePlanner struct {
	wantAnswers []string
	plan        *robodb.RobotPlan
	err         error
	lastInput   *AdaptInput
	calls       int
}

func (f *fakePlanner) Adapt(_ context.Context, in *AdaptInput) (*robodb.RobotPlan, error) {
	f.calls++
	f.lastInput = in
	if f.err != nil {
		return nil, f.err
	}
	var questions []map[string]any
	for _, key := range f.wantAnswers {
		if _, ok := in.Answers[key]; !ok {
			questions = append(questions, map[string]any{"key": key, "prompt": "please clarify " + key})
		}
	}
	if len(questions) > 0 {
		return &robodb.RobotPlan{Questions: questions}, nil
	}
	plan := *f.plan
	plan.Program = append([]robodb.ProgramStep(nil), f.plan.Program...)
	plan.Warnings = append([]string(nil), f.plan.Warnings...)
	return &plan, nil
}

type fakeLocalizer struct{}

func (fakeLocalizer) Localize(_ context.Context, recipe *robodb.CanonicalRecipe, _ string) (*robodb.LocalizedRecipe, error) {
	return FormatNative(recipe), nil
}

type fakeProfiles struct {
	profiles map[string]*robodb.RobotProfile
}

func (f *fakeProfiles) Get(_ context.Context, robotModel string) (*robodb.RobotProfile, error) {
	profile, ok := f.profiles[robotModel]
	if !ok {
		return nil, store.ErrNotFound
	}
	return profile, nil
}

func chef1Profile() *robodb.RobotProfile {
	return &robodb.RobotProfile{
		RobotModel:     "chef1",
		BowlCapacityML: 2500,
		BowlMaxFillML:  2000,
		BowlMaxMassG:   1500,
		Attachments:    []string{"blade"},
		Modes: []robodb.ModeSpec{
			{Mode: "HEAT", TempCRange: &[2]int{50, 120}, MaxDurationSec: robodb.Ptr(600)},
		},
	}
}

func testRecipe() *robodb.CanonicalRecipe {
	return &robodb.CanonicalRecipe{
		Title: "Борщ",
		Ingredients: []robodb.Ingredient{
			{Name: "свёкла", Qty: robodb.Ptr(300.0), Unit: robodb.UnitGram},
		},
		Steps: []robodb.RecipeStep{
			{Index: 1, Text: "Варите час.", ActionType: robodb.ActionHeat},
		},
		SourceURLs: []string{"https://example.com/borscht"},
	}
}

func newTestGenerator(extractor Extractor, planner Planner, responses *cache.Cache) *Generator {
	return New(extractor, planner, fakeLocalizer{}, &fakeProfiles{
		profiles: map[string]*robodb.RobotProfile{"chef1": chef1Profile()},
	}, session.NewStore(100, time.Hour), responses)
}

func startRequest() *robodb.GenerateRequest {
	return &robodb.GenerateRequest{
		Query:      "борщ",
		Lang:       "ru",
		RobotModel: "chef1",
	}
}

func TestStart_Resolved(t *testing.T) {
	planner := &fakePlanner{
		plan: &robodb.RobotPlan{
			Program:     []robodb.ProgramStep{{Mode: "HEAT", DurationSec: 300, TemperatureC: robodb.Ptr(100)}},
			ManualSteps: []string{"подать со сметаной"},
		},
	}
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, planner, nil)

	res, err := g.Start(context.Background(), startRequest())
	require.NoError(t, err)

	require.NotNil(t, res.Result)
	assert.Empty(t, res.Questions)
	assert.NotEmpty(t, res.SessionID)
	assert.Equal(t, res.SessionID, res.Result.RecipeID)
	assert.Equal(t, robodb.OriginWeb, res.Result.Origin)
	assert.Equal(t, "Борщ", res.Result.Localized.Title)
	assert.Equal(t, []string{"свёкла — 300 g"}, res.Result.Localized.Ingredients)
	assert.Equal(t, []string{"https://example.com/borscht"}, res.Result.SourceURLs)

	// Planner sees the full adaptation payload.
	require.NotNil(t, planner.lastInput)
	assert.Equal(t, "борщ", planner.lastInput.RecipeQuery)
	assert.Equal(t, "ru", planner.lastInput.TargetLanguage)
	assert.Equal(t, "chef1", planner.lastInput.RobotProfile.RobotModel)
	assert.Equal(t, DefaultMappingRules, planner.lastInput.MappingRules)
	assert.Empty(t, planner.lastInput.Answers)
}

func TestStart_ValidatorRepairsPlan(t *testing.T) {
	planner := &fakePlanner{
		plan: &robodb.RobotPlan{
			Program: []robodb.ProgramStep{
				{Mode: "HEAT", DurationSec: 900, TemperatureC: robodb.Ptr(200)},
			},
		},
	}
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, planner, nil)

	res, err := g.Start(context.Background(), startRequest())
	require.NoError(t, err)
	require.NotNil(t, res.Result)

	step := res.Result.RobotProgram[0]
	assert.Equal(t, 600, step.DurationSec)
	assert.Equal(t, 120, *step.TemperatureC)
	require.Len(t, res.Result.Warnings, 2)
	assert.Contains(t, res.Result.Warnings[0], "duration 900s > max 600s")
	assert.Contains(t, res.Result.Warnings[1], "temp 200°C out of range 50-120")
}

func TestStart_AwaitingAnswers(t *testing.T) {
	planner := &fakePlanner{
		wantAnswers: []string{"attachment_substitute"},
		plan:        &robodb.RobotPlan{Program: []robodb.ProgramStep{{Mode: "HEAT", DurationSec: 60}}},
	}
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, planner, nil)

	res, err := g.Start(context.Background(), startRequest())
	require.NoError(t, err)

	assert.Nil(t, res.Result)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "attachment_substitute", res.Questions[0]["key"])
	assert.NotEmpty(t, res.SessionID)
}

func TestStart_ProfileNotFound(t *testing.T) {
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, &fakePlanner{plan: &robodb.RobotPlan{}}, nil)

	req := startRequest()
	req.RobotModel = "chef9000"
	_, err := g.Start(context.Background(), req)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStart_UpstreamExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: &UpstreamError{Err: errors.New("search timed out")}}
	g := newTestGenerator(extractor, &fakePlanner{plan: &robodb.RobotPlan{}}, nil)

	_, err := g.Start(context.Background(), startRequest())
	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
}

func TestStart_CachesExtraction(t *testing.T) {
	extractor := &fakeExtractor{recipe: testRecipe()}
	g := newTestGenerator(extractor, &fakePlanner{plan: &robodb.RobotPlan{}}, cache.New(10, time.Hour))

	_, err := g.Start(context.Background(), startRequest())
	require.NoError(t, err)
	_, err = g.Start(context.Background(), startRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, extractor.calls)
}

func TestContinue_ResolvesAfterAnswer(t *testing.T) {
	extractor := &fakeExtractor{recipe: testRecipe()}
	planner := &fakePlanner{
		wantAnswers: []string{"attachment_substitute"},
		plan:        &robodb.RobotPlan{Program: []robodb.ProgramStep{{Mode: "HEAT", DurationSec: 60}}},
	}
	g := newTestGenerator(extractor, planner, nil)
	ctx := context.Background()

	started, err := g.Start(ctx, startRequest())
	require.NoError(t, err)
	require.Nil(t, started.Result)

	res, err := g.Continue(ctx, &robodb.ContinueRequest{
		SessionID: started.SessionID,
		Answers:   map[string]any{"attachment_substitute": "use the blade"},
	})
	require.NoError(t, err)

	require.NotNil(t, res.Result)
	assert.Empty(t, res.Questions)
	assert.Equal(t, started.SessionID, res.SessionID)

	// The stored canonical recipe is reused, never re-extracted.
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 2, planner.calls)
	assert.Equal(t, "use the blade", planner.lastInput.Answers["attachment_substitute"])
}

func TestContinue_AnswersAccumulateAndOverwrite(t *testing.T) {
	planner := &fakePlanner{
		wantAnswers: []string{"a", "b"},
		plan:        &robodb.RobotPlan{},
	}
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, planner, nil)
	ctx := context.Background()

	started, err := g.Start(ctx, startRequest())
	require.NoError(t, err)

	res, err := g.Continue(ctx, &robodb.ContinueRequest{
		SessionID: started.SessionID,
		Answers:   map[string]any{"a": "first"},
	})
	require.NoError(t, err)
	// Still awaiting b.
	assert.Nil(t, res.Result)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "b", res.Questions[0]["key"])

	res, err = g.Continue(ctx, &robodb.ContinueRequest{
		SessionID: started.SessionID,
		Answers:   map[string]any{"a": "second", "b": "done"},
	})
	require.NoError(t, err)
	require.NotNil(t, res.Result)

	// Repeated key overwrote, earlier key persisted across rounds.
	assert.Equal(t, "second", planner.lastInput.Answers["a"])
	assert.Equal(t, "done", planner.lastInput.Answers["b"])
}

func TestContinue_UnknownSession(t *testing.T) {
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, &fakePlanner{plan: &robodb.RobotPlan{}}, nil)

	_, err := g.Continue(context.Background(), &robodb.ContinueRequest{
		SessionID: "00000000-0000-0000-0000-000000000000",
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestContinue_PlannerFailurePropagates(t *testing.T) {
	planner := &fakePlanner{
		wantAnswers: []string{"a"},
		plan:        &robodb.RobotPlan{},
	}
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, planner, nil)
	ctx := context.Background()

	started, err := g.Start(ctx, startRequest())
	require.NoError(t, err)

	planner.err = &UpstreamError{Err: errors.New("503 from upstream")}
	_, err = g.Continue(ctx, &robodb.ContinueRequest{
		SessionID: started.SessionID,
		Answers:   map[string]any{"a": "x"},
	})
	var upstream *UpstreamError
	assert.ErrorAs(t, err, &upstream)
}

func TestRound_ResultAndQuestionsMutuallyExclusive(t *testing.T) {
	planner := &fakePlanner{
		wantAnswers: []string{"q"},
		plan:        &robodb.RobotPlan{},
	}
	g := newTestGenerator(&fakeExtractor{recipe: testRecipe()}, planner, nil)
	ctx := context.Background()

	res, err := g.Start(ctx, startRequest())
	require.NoError(t, err)
	assert.True(t, (res.Result == nil) != (len(res.Questions) == 0))

	res, err = g.Continue(ctx, &robodb.ContinueRequest{
		SessionID: res.SessionID,
		Answers:   map[string]any{"q": "answered"},
	})
	require.NoError(t, err)
	assert.True(t, (res.Result == nil) != (len(res.Questions) == 0))
}
