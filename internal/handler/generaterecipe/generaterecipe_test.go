package generaterecipe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curioswitch/robochef/internal/i18n"
	"github.com/curioswitch/robochef/internal/recipegen"
	"github.com/curioswitch/robochef/internal/robodb"
)

type fakeGenerator struct {
	res     *robodb.GenerateResponse
	err     error
	lastReq *robodb.GenerateRequest
}

func (f *fakeGenerator) Start(_ context.Context, req *robodb.GenerateRequest) (*robodb.GenerateResponse, error) {
	f.lastReq = req
	return f.res, f.err
}

type fakeSaver struct {
	saved map[string]*robodb.CanonicalRecipe
}

func (f *fakeSaver) Save(_ context.Context, recipeID string, recipe *robodb.CanonicalRecipe) error {
	if f.saved == nil {
		f.saved = map[string]*robodb.CanonicalRecipe{}
	}
	f.saved[recipeID] = recipe
	return nil
}

func post(t *testing.T, h *Handler, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/recipes/generate", strings.NewReader(body))
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	mw := i18n.Middleware()
	mw(http.HandlerFunc(h.GenerateRecipe)).ServeHTTP(rec, req)
	return rec
}

func TestGenerateRecipe_Resolved(t *testing.T) {
	gen := &fakeGenerator{
		res: &robodb.GenerateResponse{
			SessionID: "sess-1",
			Result: &robodb.RecipeResponse{
				RecipeID:        "sess-1",
				CanonicalRecipe: robodb.CanonicalRecipe{Title: "Борщ"},
			},
		},
	}
	saver := &fakeSaver{}
	rec := post(t, NewHandler(gen, saver), `{"query": "борщ", "lang": "ru", "robot_model": "chef1"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var res robodb.GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "sess-1", res.SessionID)
	require.NotNil(t, res.Result)

	// Resolved rounds persist the canonical recipe.
	require.Contains(t, saver.saved, "sess-1")
	assert.Equal(t, "Борщ", saver.saved["sess-1"].Title)
}

func TestGenerateRecipe_AwaitingDoesNotSave(t *testing.T) {
	gen := &fakeGenerator{
		res: &robodb.GenerateResponse{
			SessionID: "sess-2",
			Questions: []map[string]any{{"key": "k", "prompt": "?"}},
		},
	}
	saver := &fakeSaver{}
	rec := post(t, NewHandler(gen, saver), `{"query": "борщ", "robot_model": "chef1"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, saver.saved)
}

func TestGenerateRecipe_LangFromAcceptLanguage(t *testing.T) {
	gen := &fakeGenerator{res: &robodb.GenerateResponse{SessionID: "s"}}
	header := http.Header{}
	header.Set("Accept-Language", "en-US,en;q=0.9")
	post(t, NewHandler(gen, &fakeSaver{}), `{"query": "борщ", "robot_model": "chef1"}`, header)

	require.NotNil(t, gen.lastReq)
	assert.Equal(t, "en-US", gen.lastReq.Lang)
}

func TestGenerateRecipe_BadRequest(t *testing.T) {
	h := NewHandler(&fakeGenerator{}, &fakeSaver{})

	rec := post(t, h, `{broken`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(t, h, `{"lang": "ru"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateRecipe_ErrorMapping(t *testing.T) {
	gen := &fakeGenerator{err: &recipegen.UpstreamError{Err: context.DeadlineExceeded}}
	rec := post(t, NewHandler(gen, &fakeSaver{}), `{"query": "борщ", "robot_model": "chef1"}`, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
