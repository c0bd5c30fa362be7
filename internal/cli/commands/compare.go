package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recdiff/internal/logging"
	"recdiff/internal/progress"
	"recdiff/pkg/config"
	"recdiff/pkg/notify"
	"recdiff/pkg/recon"
	"recdiff/pkg/report"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// CompareOptions holds command-line options for the compare command.
type CompareOptions struct {
	Output     string
	Verbose    bool
	Quiet      bool
	NoProgress bool
	LogLevel   string
	LogFormat  string

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewCompareCommand creates the compare command.
func NewCompareCommand() *cobra.Command {
	opts := &CompareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <config-file>",
		Short: "Compare two record files by key",
		Long: `Compare two record-oriented text files according to a configuration file.

Builds a keyed index per file, partitions the key sets into A-only, B-only,
and common, diffs each common record pair field by field, and writes the
report file named by the configuration.

Exit codes:
  0 - Files reconcile with no differences
  1 - Differences found
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "csv", "Report file format (csv|text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show run metadata in the console summary")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")
	cmd.Flags().BoolVar(&opts.NoProgress, "no-progress", false, "Disable the progress bar")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "console", "Log format (console|json)")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_mismatch", "When to fire webhook (on_mismatch|always|never)")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string, opts *CompareOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(opts.LogLevel, opts.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("process start", zap.String("config", configPath))

	engineOpts := []recon.Option{recon.WithLogger(log)}
	var bar *progress.Bar
	if !opts.NoProgress && !opts.Quiet {
		bar = progress.New(os.Stderr)
		engineOpts = append(engineOpts, recon.WithProgress(bar.Update))
	}

	engine, err := recon.New(cfg, engineOpts...)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}

	result, err := engine.Run(ctx)
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	var fieldNames []string
	if cfg.MetaFile != "" {
		fieldNames, err = config.LoadFieldNames(cfg.MetaFile)
		if err != nil {
			return err
		}
	}

	if cfg.FileAOnly != "" {
		if err := report.WriteDumpFile(cfg.FileAOnly, result.AOnly); err != nil {
			return err
		}
	}
	if cfg.FileBOnly != "" {
		if err := report.WriteDumpFile(cfg.FileBOnly, result.BOnly); err != nil {
			return err
		}
	}

	rpt := report.NewReport(result, cfg, configPath, fieldNames)

	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	if err := writeReportFile(ctx, formatter, rpt, cfg.ReportFile); err != nil {
		return err
	}
	log.Info("report written",
		zap.String("path", cfg.ReportFile),
		zap.String("format", formatter.Name()))

	// Console summary on stdout, report file aside.
	summary := report.NewTextFormatter(report.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err := summary.Format(ctx, rpt, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Send webhooks (errors logged but don't fail the comparison)
	sendWebhooks(ctx, cfg, opts, rpt)

	if rpt.HasDifferences() {
		ExitCode = 1
	}

	return nil
}

func createFormatter(opts *CompareOptions) (report.Formatter, error) {
	formatOpts := report.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	}

	switch opts.Output {
	case "csv":
		return report.NewCSVFormatter(formatOpts), nil
	case "text":
		return report.NewTextFormatter(formatOpts), nil
	case "json":
		return report.NewJSONFormatter(formatOpts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use csv, text, or json)", opts.Output)
	}
}

func writeReportFile(ctx context.Context, formatter report.Formatter, rpt *report.Report, path string) error {
	f, err := os.Create(path) // #nosec G304 -- user-provided report path is expected
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}

	if err := formatter.Format(ctx, rpt, f); err != nil {
		f.Close()
		return fmt.Errorf("writing report file %s: %w", path, err)
	}
	return f.Close()
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the comparison.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *CompareOptions, rpt *report.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	client := notify.NewClient()

	for _, wh := range webhooks {
		if !shouldFireWebhook(wh.Trigger, rpt.HasDifferences()) {
			continue
		}

		resp := client.Send(ctx, rpt, notify.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *CompareOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnMismatch
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire for this report.
func shouldFireWebhook(trigger config.WebhookTrigger, hasDifferences bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasDifferences
	}
}
