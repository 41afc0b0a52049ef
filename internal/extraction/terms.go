package extraction

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/arjun/tender-agent/internal/jsonrepair"
	"github.com/arjun/tender-agent/internal/llm"
	"github.com/arjun/tender-agent/internal/prompts"
)

// TermsSummary is the condensed terms-and-conditions section of a tender.
// It augments the analysis output and is never required for it.
type TermsSummary struct {
	PaymentTerms   string   `json:"payment_terms"`
	DeliveryTerms  string   `json:"delivery_terms"`
	WarrantyTerms  string   `json:"warranty_terms"`
	PenaltyClauses []string `json:"penalty_clauses"`
}

// IsEmpty reports whether the summary carries no content.
func (t TermsSummary) IsEmpty() bool {
	return t.PaymentTerms == "" && t.DeliveryTerms == "" &&
		t.WarrantyTerms == "" && len(t.PenaltyClauses) == 0
}

// Section markers for locating the terms block. Terms sections trail the
// document, so start markers are searched from the end.
var (
	termsStartMarkers = []string{
		"terms and conditions",
		"terms & conditions",
		"special terms and conditions",
		"additional terms and conditions",
	}
	termsEndMarkers = []string{
		"disclaimer",
		"annexure",
		"appendix",
	}
)

const (
	// termsWindow is taken after a start marker when no end marker follows.
	termsWindow = 5000
	// termsTail is the last-resort slice when no start marker exists at all.
	termsTail = 8000

	termsTemperature = 0.1
	termsMaxTokens   = 2048
)

// SummarizeTerms runs the secondary, narrower extraction pass over the
// terms-and-conditions slice of the document. Any failure degrades to an
// empty summary: this pass augments the primary pipeline, never blocks it.
func (s *Service) SummarizeTerms(ctx context.Context, documentText string) TermsSummary {
	section := sliceTermsSection(documentText)
	if strings.TrimSpace(section) == "" {
		return TermsSummary{}
	}

	template := prompts.MustGet("extraction.json", "summarize-terms")
	prompt := prompts.Format(template, map[string]string{"Section": section})

	text, err := s.generate(ctx, prompt, llm.GenerateOptions{
		Tier:            llm.TierLite,
		Temperature:     termsTemperature,
		MaxOutputTokens: termsMaxTokens,
	})
	if err != nil {
		s.log.Debug("terms summary generation failed", zap.Error(err))
		return TermsSummary{}
	}

	cleaned, err := jsonrepair.Clean(text)
	if err != nil {
		s.log.Debug("terms summary output unrecoverable", zap.Error(err))
		return TermsSummary{}
	}

	var summary TermsSummary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		s.log.Debug("terms summary parse failed", zap.Error(err))
		return TermsSummary{}
	}
	return summary
}

// sliceTermsSection locates the terms block. The last start-marker occurrence
// wins; the slice runs to the first end marker after it, or a fixed window
// when no end marker follows, or the document tail when no start marker
// exists at all.
func sliceTermsSection(documentText string) string {
	lower := strings.ToLower(documentText)

	start := -1
	for _, marker := range termsStartMarkers {
		if idx := strings.LastIndex(lower, marker); idx > start {
			start = idx
		}
	}

	if start == -1 {
		if len(documentText) <= termsTail {
			return documentText
		}
		return documentText[len(documentText)-termsTail:]
	}

	end := -1
	searchFrom := start
	for _, marker := range termsEndMarkers {
		if idx := strings.Index(lower[searchFrom:], marker); idx != -1 {
			abs := searchFrom + idx
			if end == -1 || abs < end {
				end = abs
			}
		}
	}

	if end == -1 || end <= start {
		end = start + termsWindow
		if end > len(documentText) {
			end = len(documentText)
		}
	}
	return documentText[start:end]
}
