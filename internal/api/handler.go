// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/traceaos/income-analysis-agent/internal/analysis"
	"github.com/traceaos/income-analysis-agent/internal/extractor"
	"github.com/traceaos/income-analysis-agent/internal/models"
	"github.com/traceaos/income-analysis-agent/internal/notify"
	"github.com/traceaos/income-analysis-agent/internal/prompt"
	"github.com/traceaos/income-analysis-agent/internal/report"
	"github.com/traceaos/income-analysis-agent/internal/writer"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// AnalyzeResponse is the JSON response from the /api/analyze endpoint.
type AnalyzeResponse struct {
	Success       bool                   `json:"success"`
	Error         string                 `json:"error,omitempty"`
	Result        *models.AnalysisResult `json:"result,omitempty"`
	ReportHTML    string                 `json:"reportHtml,omitempty"`
	RiskTableHTML string                 `json:"riskTableHtml,omitempty"`
	FileCount     int                    `json:"fileCount"`
	Version       string                 `json:"version,omitempty"`
}

// EmailResponse is the JSON response from the /api/email endpoint.
type EmailResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
	Sent    bool   `json:"sent"`
}

// errorResponse is the shared failure envelope.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Extractor extractor.DocumentTextExtractor
	Analyzer  analysis.Analyzer
	Sender    *notify.EmailSender
	Logger    zerolog.Logger

	// AnalysisTimeout bounds the single reasoning-service call. Zero means
	// no deadline beyond the request context.
	AnalysisTimeout time.Duration
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/analyze", h.HandleAnalyze)
	app.Post("/api/export", h.HandleExport)
	app.Post("/api/email", h.HandleEmail)
}

func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleAnalyze runs the full pipeline: multipart PDF uploads plus the intake
// form in, validated analysis result plus rendered report out.
func (h *Handler) HandleAnalyze(c *fiber.Ctx) error {
	borrower := borrowerFromForm(c)
	if err := borrower.Validate(); err != nil {
		return writeError(c, fiber.StatusBadRequest, err.Error())
	}

	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return writeError(c, fiber.StatusBadRequest, "No files uploaded. Use form field 'files'.")
	}

	uploads := make([]extractor.Upload, 0, len(headers))
	for _, fh := range headers {
		uploads = append(uploads, uploadFromHeader(fh))
	}

	texts, err := h.Extractor.ExtractAll(c.UserContext(), uploads)
	if err != nil {
		var extErr *extractor.ExtractionError
		if errors.As(err, &extErr) {
			return writeError(c, fiber.StatusUnprocessableEntity, extErr.Error())
		}
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}

	analysisCtx := c.UserContext()
	if h.AnalysisTimeout > 0 {
		var cancel context.CancelFunc
		analysisCtx, cancel = context.WithTimeout(analysisCtx, h.AnalysisTimeout)
		defer cancel()
	}
	result, err := h.Analyzer.Analyze(analysisCtx, prompt.Build(borrower, texts))
	if err != nil {
		logger := zerolog.Ctx(c.UserContext())
		if logger.GetLevel() == zerolog.Disabled {
			logger = &h.Logger
		}
		logger.Error().Err(err).Int("files", len(texts)).Msg("analysis failed")

		var svcErr *analysis.ServiceError
		var fmtErr *analysis.FormatError
		switch {
		case errors.As(err, &svcErr), errors.As(err, &fmtErr):
			// Upstream detail stays in the log, not the response.
			return writeError(c, fiber.StatusBadGateway, "Analysis service request failed. Please try again.")
		default:
			return writeError(c, fiber.StatusInternalServerError, err.Error())
		}
	}

	doc := report.Parse(result.MarkdownSummary)
	return c.JSON(AnalyzeResponse{
		Success:       true,
		Result:        result,
		ReportHTML:    report.RenderHTML(doc),
		RiskTableHTML: report.RenderRiskTableHTML(result.Risk),
		FileCount:     len(texts),
		Version:       Version,
	})
}

// HandleExport serializes a previously obtained analysis result into the
// downloadable workbook.
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	var result models.AnalysisResult
	if err := c.BodyParser(&result); err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid analysis result payload: %v", err))
	}

	f, err := writer.BuildWorkbook(&result)
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, err.Error())
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("Workbook serialization failed: %v", err))
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", writer.ExportFilename))
	return c.Send(buf.Bytes())
}

// emailRequest is the JSON body of /api/email.
type emailRequest struct {
	Result   *models.AnalysisResult `json:"result"`
	Borrower models.BorrowerContext `json:"borrower"`
	Send     bool                   `json:"send"`
}

// HandleEmail composes the plain-text report email and, when requested and an
// SMTP sender is configured, also sends it.
func (h *Handler) HandleEmail(c *fiber.Ctx) error {
	var req emailRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid email request payload: %v", err))
	}
	if req.Result == nil {
		return writeError(c, fiber.StatusBadRequest, "Missing analysis result.")
	}
	if strings.TrimSpace(req.Borrower.SubmittingEmail) == "" {
		return writeError(c, fiber.StatusBadRequest, "Missing submitting email.")
	}

	msg := notify.ComposeReportEmail(req.Result, req.Borrower)

	sent := false
	if req.Send {
		if h.Sender == nil || !h.Sender.Enabled() {
			return writeError(c, fiber.StatusConflict, "Email sending is not configured on this server.")
		}
		if err := h.Sender.Send(msg); err != nil {
			h.Logger.Error().Err(err).Str("to", msg.To).Msg("email send failed")
			return writeError(c, fiber.StatusBadGateway, "Email delivery failed.")
		}
		sent = true
	}

	return c.JSON(EmailResponse{
		Success: true,
		Subject: msg.Subject,
		Body:    msg.Body,
		Sent:    sent,
	})
}

func borrowerFromForm(c *fiber.Ctx) models.BorrowerContext {
	return models.BorrowerContext{
		SubmittingEmail:     c.FormValue("submittingEmail"),
		ClientName:          c.FormValue("clientName"),
		BusinessName:        c.FormValue("businessName"),
		BusinessType:        c.FormValue("businessType"),
		NumEmployees:        c.FormValue("numEmployees"),
		BusinessDescription: c.FormValue("businessDescription"),
		OwnershipPercentage: c.FormValue("ownershipPercentage"),
	}
}

func uploadFromHeader(fh *multipart.FileHeader) extractor.Upload {
	return extractor.Upload{
		Filename: fh.Filename,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(errorResponse{
		Success: false,
		Error:   msg,
	})
}
