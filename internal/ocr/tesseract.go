package ocr

import (
	"context"
	"fmt"

	"rivals-tracker/internal/config"

	"github.com/otiai10/gosseract/v2"
	"github.com/rs/zerolog"
)

type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

type TesseractRecognizer struct {
	language string
	logger   zerolog.Logger
}

func NewTesseractRecognizer(cfg *config.Config, logger zerolog.Logger) *TesseractRecognizer {
	return &TesseractRecognizer{language: cfg.OCRLanguage, logger: logger}
}

// Recognize runs a fresh tesseract client per image; clients are not safe to
// share between concurrent uploads.
func (r *TesseractRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(image) == 0 {
		return "", fmt.Errorf("failed to recognize image: empty payload")
	}

	client := gosseract.NewClient()
	defer func() {
		if err := client.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close tesseract client")
		}
	}()

	if err := client.SetLanguage(r.language); err != nil {
		return "", fmt.Errorf("failed to set ocr language %q: %w", r.language, err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to load image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to recognize image: %w", err)
	}

	r.logger.Debug().Int("bytes", len(image)).Int("chars", len(text)).Msg("ocr completed")
	return text, nil
}
