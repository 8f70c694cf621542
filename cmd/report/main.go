package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"adpulse/internal/app"
	"adpulse/internal/config"
	"adpulse/internal/dataprocessing"
	apperrors "adpulse/internal/errors"
	"adpulse/internal/exporter"
	"adpulse/internal/infrastructure"
	"adpulse/internal/validation"
	"adpulse/pkg/contracts"
	"adpulse/pkg/contracts/domain"
)

// exitNoData is returned when the selected view has no rows
const exitNoData = 2

var errNoData = errors.New("no data for selection")

type reportCmd struct {
	view       string
	date       string
	source     string
	file       string
	format     string
	out        string
	configPath string
	timeout    time.Duration

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rc := &reportCmd{stdout: stdout, stderr: stderr}
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Render the Meta Ads metrics report",
		Long:    "Loads the ads export, selects a single day or the whole dataset and prints the derived metrics.",
		Version: contracts.GetVersionString(),
		RunE:    rc.run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&rc.view, "view", "", "View to render: realtime or historical (default realtime when --date is set)")
	cmd.Flags().StringVar(&rc.date, "date", "", "Anchor date for the realtime view (YYYY-MM-DD)")
	cmd.Flags().StringVar(&rc.source, "source", "", "Source kind: sheets, xlsx or csv (overrides config)")
	cmd.Flags().StringVar(&rc.file, "file", "", "Path of a local xlsx or csv export")
	cmd.Flags().StringVarP(&rc.format, "format", "f", "text", "Output format: text, json, csv or xlsx")
	cmd.Flags().StringVarP(&rc.out, "out", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().StringVarP(&rc.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().DurationVar(&rc.timeout, "timeout", 2*time.Minute, "Overall time limit")

	return cmd
}

func (rc *reportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), rc.timeout)
	defer cancel()
	ctx = infrastructure.EnsureTraceID(ctx)

	cfg, err := rc.loadConfig()
	if err != nil {
		return err
	}

	logger, err := infrastructure.NewLogger(cfg.Logging, rc.stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	files := validation.NewFileValidator(logger)
	if err := files.ValidateSource(cfg.Source); err != nil {
		return err
	}

	sel, err := rc.selection()
	if err != nil {
		return err
	}

	format, err := exporter.ParseFormat(rc.format)
	if err != nil {
		return err
	}
	writer, err := exporter.New(format)
	if err != nil {
		return err
	}

	reports, store, err := app.BuildReportService(ctx, cfg, logger, nil, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	report, err := reports.Generate(ctx, sel)
	if errors.Is(err, dataprocessing.ErrNoDataForSelection) {
		msg := apperrors.NoDataForDateMessage
		if sel.Type == domain.ViewHistorical {
			msg = apperrors.NoDataForViewMessage
		}
		fmt.Fprintln(rc.stderr, msg)
		return errNoData
	}
	if err != nil {
		return err
	}

	out := rc.out
	if out == "" && format == exporter.FormatXLSX {
		out = exporter.Filename(report, writer)
	}
	if out == "" {
		return writer.Write(rc.stdout, report)
	}

	if err := files.ValidateOutputPath(out); err != nil {
		return err
	}
	if err := exporter.SaveFile(out, writer, report); err != nil {
		return err
	}
	logger.InfoContext(ctx, "report written",
		slog.String("path", out),
		slog.String("view", sel.String()),
		slog.Int("rows", report.RowCount))
	return nil
}

// loadConfig reads the configuration and applies the source flags on top.
// The CLI always uses an in-memory snapshot.
func (rc *reportCmd) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if rc.configPath != "" {
		cfg, err = config.LoadFrom(rc.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if rc.file != "" {
		cfg.Source.FilePath = rc.file
		if rc.source == "" {
			rc.source = kindFromPath(rc.file)
		}
	}
	if rc.source != "" {
		cfg.Source.Kind = rc.source
	}
	cfg.Cache.Backend = config.CacheMemory
	cfg.Source.Watch = false

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (rc *reportCmd) selection() (domain.ViewSelection, error) {
	view := rc.view
	if view == "" {
		view = string(domain.ViewHistorical)
		if rc.date != "" {
			view = string(domain.ViewRealTime)
		}
	}

	vt, err := domain.ParseViewType(view)
	if err != nil {
		return domain.ViewSelection{}, err
	}
	if vt == domain.ViewHistorical {
		return domain.AllTime(), nil
	}

	if rc.date == "" {
		return domain.ViewSelection{}, errors.New("--date is required for the realtime view")
	}
	day, err := time.Parse(domain.DateLayout, rc.date)
	if err != nil {
		return domain.ViewSelection{}, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", rc.date)
	}
	return domain.SingleDay(day), nil
}

func kindFromPath(path string) string {
	switch {
	case strings.HasSuffix(strings.ToLower(path), ".csv"):
		return config.SourceCSV
	default:
		return config.SourceXLSX
	}
}

func main() {
	cmd := newRootCmd(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errNoData) {
			os.Exit(exitNoData)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
