package fx

import (
	"rivals-tracker/internal/browser"
	"rivals-tracker/internal/config"
	"rivals-tracker/internal/logger"
	"rivals-tracker/internal/ocr"
	"rivals-tracker/internal/scraper"
	"rivals-tracker/internal/server"
	"rivals-tracker/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(logger.New),
	fx.Invoke(config.LogSummary),
	// collaborators
	fx.Provide(
		fx.Annotate(ocr.NewTesseractRecognizer, fx.As(new(ocr.Recognizer))),
	),
	fx.Provide(browser.NewLauncher),
	// pipeline
	fx.Provide(scraper.NewPoller),
	fx.Provide(scraper.NewScraper),
	fx.Provide(service.NewTrackerService),
	// server
	fx.Provide(server.NewTrackerServer),
)
