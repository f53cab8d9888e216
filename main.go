// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/curioswitch/go-curiostack/server"
	"github.com/gocolly/colly/v2"
	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"github.com/curioswitch/robochef/internal/cache"
	"github.com/curioswitch/robochef/internal/config"
	"github.com/curioswitch/robochef/internal/handler/continuerecipe"
	"github.com/curioswitch/robochef/internal/handler/generaterecipe"
	"github.com/curioswitch/robochef/internal/handler/getrecipe"
	"github.com/curioswitch/robochef/internal/handler/listrecipes"
	"github.com/curioswitch/robochef/internal/i18n"
	"github.com/curioswitch/robochef/internal/recipegen"
	"github.com/curioswitch/robochef/internal/session"
	"github.com/curioswitch/robochef/internal/store"
)

//go:embed conf/*.yaml
var confFiles embed.FS

func main() {
	conf, _ := fs.Sub(confFiles, "conf")
	os.Exit(server.Main(&config.Config{}, conf, setupServer))
}

func setupServer(ctx context.Context, conf *config.Config, s *server.Server) error {
	mux := server.Mux(s)

	genAI, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return fmt.Errorf("main: create genai client: %w", err)
	}

	baseCollector := colly.NewCollector(
		colly.UserAgent("RoboChefBot/0.1"),
	)
	urls := recipegen.NewURLExtractor(baseCollector)
	extractor := recipegen.NewGenAIExtractor(genAI, conf.LLM.ExtractModel, urls,
		conf.Search.AllowedDomains, conf.Search.ExcludedDomains)

	var planner recipegen.Planner
	switch conf.LLM.Planner {
	case "openai":
		oai := openai.NewClient()
		planner = recipegen.NewOpenAIPlanner(&oai, conf.LLM.PlanModel)
	default:
		planner = recipegen.NewGenAIPlanner(genAI, conf.LLM.PlanModel)
	}

	localizer := recipegen.NewGenAILocalizer(genAI, conf.LLM.LocalizeModel, conf.LLM.NativeLanguage)

	recipes := store.NewRecipes(conf.Data.RecipesDir)
	profiles := store.NewProfiles(conf.Data.ProfilesDir)

	sessions := session.NewStore(conf.Sessions.MaxSize, time.Duration(conf.Sessions.TTLHours)*time.Hour)
	responses := cache.New(conf.Cache.MaxSize, time.Duration(conf.Cache.TTLMinutes)*time.Minute)

	generator := recipegen.New(extractor, planner, localizer, profiles, sessions, responses)

	mux.Use(i18n.Middleware())

	mux.Post("/v1/recipes/generate", generaterecipe.NewHandler(generator, recipes).GenerateRecipe)
	mux.Post("/v1/recipes/generate/continue", continuerecipe.NewHandler(generator, recipes).ContinueRecipe)
	mux.Get("/v1/recipes", listrecipes.NewHandler(recipes).ListRecipes)
	mux.Get("/v1/recipes/{recipeID}", getrecipe.NewHandler(recipes, localizer, conf.LLM.NativeLanguage).GetRecipe)

	if err := server.Start(ctx, s); err != nil {
		return fmt.Errorf("main: start server: %w", err)
	}
	return nil
}
