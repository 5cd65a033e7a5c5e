/*
Package analysis holds the contract with the reasoning backend: the response
schema, the typed failure modes, and the client that sends a prompt and
returns a validated AnalysisResult.
*/
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/traceaos/income-analysis-agent/internal/models"
)

// ServiceError is a transport-level or backend-reported failure.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("analysis service error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analysis service error: %s", e.Message)
}

// FormatError means the backend's output could not be parsed against the
// schema or is not valid structured data. The raw parse details stay inside
// the error; user-facing surfaces show a generic message instead.
type FormatError struct {
	Cause error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("analysis result did not match the expected format: %v", e.Cause)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// Analyzer is the single boundary to the reasoning backend. Implementations
// make exactly one attempt per call; the caller decides about resubmission.
type Analyzer interface {
	Analyze(ctx context.Context, prompt string) (*models.AnalysisResult, error)
}

const systemRole = "You are a financial analysis assistant specializing in bank statement analysis and income calculation for mortgage underwriting."

// Config holds the reasoning backend settings.
type Config struct {
	APIKey string
	Model  string
}

// Client calls the Gemini API with the shared response schema. It performs no
// retries and mutates no shared state; cancellation and timeouts arrive via
// the caller's context.
type Client struct {
	genai  *genai.Client
	model  string
	logger zerolog.Logger
}

// NewClient creates the backend client. The API key is required.
func NewClient(ctx context.Context, cfg Config, logger zerolog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("reasoning service API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning service client: %w", err)
	}

	return &Client{genai: gc, model: cfg.Model, logger: logger}, nil
}

// Analyze sends the prompt with the schema contract and decodes the response
// into an AnalysisResult. One attempt only: transport or backend failures
// come back as *ServiceError, undecodable output as *FormatError.
func (c *Client) Analyze(ctx context.Context, prompt string) (*models.AnalysisResult, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemRole}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(),
		Temperature:       genai.Ptr[float32](0.1),
	}

	c.logger.Info().Int("prompt_chars", len(prompt)).Str("model", c.model).Msg("submitting analysis request")

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &ServiceError{StatusCode: apiErr.Code, Message: apiErr.Message}
		}
		return nil, &ServiceError{Message: err.Error()}
	}

	result, err := decodeResult([]byte(resp.Text()))
	if err != nil {
		c.logger.Error().Err(err).Msg("analysis response failed schema decode")
		return nil, err
	}

	c.logger.Info().
		Int("deposits", len(result.Deposits)).
		Int("statements", len(result.QualifiedIncomeCalculation.MonthlyBreakdown)).
		Int("risk_rows", len(result.Risk)).
		Msg("analysis complete")

	return result, nil
}

// decodeResult strictly decodes the backend output. Unknown fields are
// rejected, and absent arrays are normalized to explicit empty sequences so
// renderers never see nil.
func decodeResult(raw []byte) (*models.AnalysisResult, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var result models.AnalysisResult
	if err := dec.Decode(&result); err != nil {
		return nil, &FormatError{Cause: err}
	}

	if err := validateResult(&result); err != nil {
		return nil, &FormatError{Cause: err}
	}

	normalizeArrays(&result)
	return &result, nil
}

func validateResult(r *models.AnalysisResult) error {
	for i, risk := range r.Risk {
		if risk.Result != "Yes" && risk.Result != "No" {
			return fmt.Errorf("risk[%d] result %q is not Yes/No", i, risk.Result)
		}
	}
	// The flag column carries the amount strictly above the threshold and 0
	// at or below it; a backend that flags inconsistently is rejected.
	for i, d := range r.Deposits {
		if d.Amount > models.LargeDepositThreshold {
			if d.LargeDepositAmount != d.Amount {
				return fmt.Errorf("deposits[%d] amount %.2f is above the large-deposit threshold but largeDepositAmount is %.2f", i, d.Amount, d.LargeDepositAmount)
			}
		} else if d.LargeDepositAmount != 0 {
			return fmt.Errorf("deposits[%d] largeDepositAmount %.2f is set for amount %.2f at or below the threshold", i, d.LargeDepositAmount, d.Amount)
		}
	}
	if r.MarkdownSummary == "" {
		return fmt.Errorf("markdownSummary is empty")
	}
	return nil
}

func normalizeArrays(r *models.AnalysisResult) {
	if r.AnalysisSummary.IncomeCategories == nil {
		r.AnalysisSummary.IncomeCategories = []string{}
	}
	if r.AnalysisSummary.NonIncomeCategories == nil {
		r.AnalysisSummary.NonIncomeCategories = []string{}
	}
	if r.QualifiedIncomeCalculation.MonthlyBreakdown == nil {
		r.QualifiedIncomeCalculation.MonthlyBreakdown = []models.MonthlyBreakdown{}
	}
	if r.Deposits == nil {
		r.Deposits = []models.DepositTransaction{}
	}
	if r.Risk == nil {
		r.Risk = []models.RiskFactor{}
	}
}
