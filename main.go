package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/traceaos/income-analysis-agent/internal/analysis"
	"github.com/traceaos/income-analysis-agent/internal/config"
	"github.com/traceaos/income-analysis-agent/internal/extractor"
	"github.com/traceaos/income-analysis-agent/internal/models"
	"github.com/traceaos/income-analysis-agent/internal/notify"
	"github.com/traceaos/income-analysis-agent/internal/prompt"
	"github.com/traceaos/income-analysis-agent/internal/report"
	"github.com/traceaos/income-analysis-agent/internal/writer"
)

const version = "1.0.0"

func main() {
	// CLI flags
	emailFlag := flag.String("email", "", "Submitting email address (required)")
	clientFlag := flag.String("client", "", "Client name (required)")
	businessFlag := flag.String("business", "", "Business name (required)")
	typeFlag := flag.String("type", "", `Business type: "Services" or "Sales of Goods" (required)`)
	employeesFlag := flag.String("employees", "", "Number of full-time employees (e.g. Myself, 2-5)")
	descriptionFlag := flag.String("description", "", "Short business description")
	ownershipFlag := flag.String("ownership", "", "Ownership percentage (defaults to 100)")
	outputFlag := flag.String("output", ".", "Output directory for the workbook and report")
	sendFlag := flag.Bool("send-email", false, "Send the report email via the configured SMTP server")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Bank Statement Income Analysis Agent
by Trace AOS (traceaos.com)

Analyzes business bank statement PDFs against borrower context and
produces a qualified income workbook, report, and summary email.

Usage:
  income-analysis-agent [flags] <statement1.pdf> [statement2.pdf ...]

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Analyze a full year of statements
  income-analysis-agent --email=lender@example.com --client="Jordan Smith" \
    --business="Acme LLC" --type=Services jan.pdf feb.pdf ... dec.pdf

  # Write artifacts to a specific directory
  income-analysis-agent --email=lender@example.com --client="Jordan Smith" \
    --business="Acme LLC" --type="Sales of Goods" --output=./out statements/*.pdf

Environment:
  GEMINI_API_KEY     Reasoning service API key (required)
  GEMINI_MODEL       Model override (default gemini-2.5-flash)
  ANALYSIS_TIMEOUT   Analysis call timeout (default 5m)
  SMTP_SERVER etc.   Only needed with --send-email
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("income-analysis-agent v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}

	borrower := models.BorrowerContext{
		SubmittingEmail:     *emailFlag,
		ClientName:          *clientFlag,
		BusinessName:        *businessFlag,
		BusinessType:        *typeFlag,
		NumEmployees:        *employeesFlag,
		BusinessDescription: *descriptionFlag,
		OwnershipPercentage: *ownershipFlag,
	}
	if err := borrower.Validate(); err != nil {
		fatalf("Invalid input: %v\n", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		logger = logger.Level(level)
	}

	if err := run(cfg, borrower, flag.Args(), *outputFlag, *sendFlag, logger); err != nil {
		fatalf("Error: %v\n", err)
	}
}

func run(cfg *config.Config, borrower models.BorrowerContext, inputFiles []string, outputDir string, sendEmail bool, logger zerolog.Logger) error {
	ctx := context.Background()

	uploads := make([]extractor.Upload, 0, len(inputFiles))
	for _, inputPath := range inputFiles {
		if _, err := os.Stat(inputPath); os.IsNotExist(err) {
			return fmt.Errorf("input file not found: %s", inputPath)
		}
		uploads = append(uploads, extractor.FileUpload(inputPath))
	}

	fmt.Printf("Extracting text from %d statement file(s)...\n", len(uploads))
	ext := &extractor.PDFExtractor{}
	texts, err := ext.ExtractAll(ctx, uploads)
	if err != nil {
		return fmt.Errorf("statement extraction failed: %w", err)
	}
	for _, ft := range texts {
		fmt.Printf("  %s: %d characters\n", ft.Filename, len(ft.Text))
	}

	client, err := analysis.NewClient(ctx, analysis.Config{APIKey: cfg.GeminiAPIKey, Model: cfg.GeminiModel}, logger)
	if err != nil {
		return err
	}

	fmt.Println("Running income analysis...")
	analysisCtx, cancel := context.WithTimeout(ctx, cfg.AnalysisTimeout)
	defer cancel()
	result, err := client.Analyze(analysisCtx, prompt.Build(borrower, texts))
	if err != nil {
		return err
	}
	fmt.Printf("  Qualified income (12 months): %s\n",
		notify.FormatCurrency(result.TimePeriodAggregates.QualifiedIncome.Months12))
	fmt.Printf("  Risk factors flagged: %d\n", countYesRisks(result.Risk))

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory: %w", err)
	}

	workbookPath := filepath.Join(outputDir, writer.ExportFilename)
	wf, err := os.Create(workbookPath)
	if err != nil {
		return fmt.Errorf("cannot create workbook file: %w", err)
	}
	if err := writer.Write(result, wf); err != nil {
		wf.Close()
		return err
	}
	if err := wf.Close(); err != nil {
		return err
	}
	fmt.Printf("  Workbook: %s\n", workbookPath)

	reportPath := filepath.Join(outputDir, "analysis_report.html")
	doc := report.Parse(result.MarkdownSummary)
	html := report.RenderHTML(doc) + report.RenderRiskTableHTML(result.Risk)
	if err := os.WriteFile(reportPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("cannot write report: %w", err)
	}
	fmt.Printf("  Report: %s\n", reportPath)

	msg := notify.ComposeReportEmail(result, borrower)
	if sendEmail {
		sender := notify.NewEmailSender(notify.EmailConfig{
			SMTPServer: cfg.SMTPServer,
			SMTPPort:   cfg.SMTPPort,
			SMTPUser:   cfg.SMTPUser,
			SMTPPass:   cfg.SMTPPass,
			FromEmail:  cfg.FromEmail,
			Enabled:    cfg.EmailSend,
		}, logger)
		if !sender.Enabled() {
			return fmt.Errorf("--send-email requires EMAIL_SEND=true and SMTP settings")
		}
		if err := sender.Send(msg); err != nil {
			return fmt.Errorf("email send failed: %w", err)
		}
		fmt.Printf("  Email sent to %s\n", msg.To)
	} else {
		fmt.Printf("  Email subject: %s\n", msg.Subject)
	}

	fmt.Println("Done.")
	return nil
}

func countYesRisks(risk []models.RiskFactor) int {
	n := 0
	for _, r := range risk {
		if r.Result == "Yes" {
			n++
		}
	}
	return n
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
