package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rivals-tracker/internal/domain"
	fxmodules "rivals-tracker/internal/fx"
	"rivals-tracker/internal/ocr"
	"rivals-tracker/internal/report"
	"rivals-tracker/internal/service"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	imagePath   string
	handles     []string
	showHeroes  bool
	summaryOnly bool
)

var rootCmd = &cobra.Command{
	Use:   "scan (--image <screenshot.png> | --handle <name>...)",
	Short: "Scrapes tracker stats for every player on a loading screen and suggests bans.",
	Example: `  scan --image lobby.png
  scan --handle Karage --handle zed --heroes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if (imagePath == "") == (len(handles) == 0) {
			return fmt.Errorf("exactly one of --image or --handle is required")
		}
		return runScan(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVarP(&imagePath, "image", "i", "", "Loading screen screenshot to read player names from.")
	rootCmd.Flags().StringArrayVarP(&handles, "handle", "n", nil, "Player name to look up, repeatable.")
	rootCmd.Flags().BoolVar(&showHeroes, "heroes", false, "Print every scraped hero per player.")
	rootCmd.Flags().BoolVar(&summaryOnly, "summary", false, "Only print the ban summary lines.")
}

func runScan(ctx context.Context) error {
	var (
		tracker    *service.TrackerService
		recognizer ocr.Recognizer
		logger     zerolog.Logger
	)
	app := fx.New(
		fxmodules.Module,
		fx.NopLogger,
		fx.Populate(&tracker, &recognizer, &logger),
	)
	if err := app.Err(); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	names := handles
	if imagePath != "" {
		image, err := os.ReadFile(imagePath)
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}
		text, err := recognizer.Recognize(ctx, image)
		if err != nil {
			return err
		}
		names = ocr.ExtractHandles(text)
		logger.Info().Strs("handles", names).Msg("handles recognized")
		if len(names) == 0 {
			return fmt.Errorf("no player names found in %s", imagePath)
		}
	}

	results := tracker.Search(ctx, names)
	recs := service.Recommend(results)

	if summaryOnly {
		fmt.Println(service.RenderSummary(recs))
		return nil
	}

	report.WritePlayers(os.Stdout, results)
	if showHeroes {
		for _, r := range results {
			if r.Status == domain.StatusSuccess {
				report.WriteHeroes(os.Stdout, r)
			}
		}
	}
	report.WriteBans(os.Stdout, recs)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
