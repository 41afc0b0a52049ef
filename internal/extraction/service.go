// Package extraction turns raw tender document text into a loosely-structured
// record via the generative inference backend, with credential failover and
// recovery of malformed model output.
package extraction

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arjun/tender-agent/internal/credentials"
	"github.com/arjun/tender-agent/internal/jsonrepair"
	"github.com/arjun/tender-agent/internal/llm"
	"github.com/arjun/tender-agent/internal/prompts"
)

const (
	// documentCharCap bounds the document text embedded in the prompt.
	documentCharCap = 15000
	// retryBackoff is the fixed wait between attempts after a failure.
	retryBackoff = time.Second

	extractionTemperature = 0.1
	extractionMaxTokens   = 8192
)

// Service performs structured extraction with multi-credential failover.
// Retries are strictly sequential; each attempt binds to the pool's current
// credential and the pool rotates on every failure.
type Service struct {
	pool      *credentials.Pool
	newClient llm.Factory
	log       *zap.Logger
	backoff   time.Duration
}

// NewService builds an extraction service over the given credential pool.
func NewService(pool *credentials.Pool, factory llm.Factory, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		pool:      pool,
		newClient: factory,
		log:       log,
		backoff:   retryBackoff,
	}
}

// Extract runs the primary extraction pass and returns the recovered record.
// It fails with *ExhaustedError once every credential has failed twice, or
// with a jsonrepair error when the backend answered but its output could not
// be recovered into JSON.
func (s *Service) Extract(ctx context.Context, documentText string) (map[string]any, error) {
	prompt := buildExtractionPrompt(truncate(documentText, documentCharCap))

	attempts := s.pool.Len() * 2
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := s.generate(ctx, prompt, llm.GenerateOptions{
			Tier:            llm.TierStandard,
			Temperature:     extractionTemperature,
			MaxOutputTokens: extractionMaxTokens,
		})
		if err != nil {
			lastErr = err
			s.log.Warn("extraction attempt failed",
				zap.Int("attempt", attempt),
				zap.Int("budget", attempts),
				zap.Error(err),
			)
			s.pool.MarkFailed()
			if attempt < attempts {
				if err := sleep(ctx, s.backoff); err != nil {
					return nil, err
				}
			}
			continue
		}

		// Recovery failures are not retried: the backend answered, the
		// output is just unusable, and another call would cost a credential
		// for the same document.
		return jsonrepair.Recover(text)
	}

	return nil, &ExhaustedError{Attempts: attempts, Last: lastErr}
}

// generate opens a client on the pool's current credential for a single call.
func (s *Service) generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	client, err := s.newClient(ctx, s.pool.Current())
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Close() }()

	return client.Generate(ctx, prompt, opts)
}

func buildExtractionPrompt(documentText string) string {
	template := prompts.MustGet("extraction.json", "extract-bid-record")
	return prompts.Format(template, map[string]string{
		"Document": documentText,
	})
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
