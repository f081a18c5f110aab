package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/devmaxde/notion-client/internal/processors"
	"github.com/devmaxde/notion-client/pkg/config"
	"github.com/devmaxde/notion-client/pkg/logger"
	"github.com/devmaxde/notion-client/pkg/tracing"
)

// app holds what every subcommand needs once flags and configuration are
// resolved.
type app struct {
	version   string
	buildDate string

	configPath string
	logLevel   string
	workers    int

	cfg      *config.Config
	log      *logger.Logger
	tracer   *tracing.TracingService
	pipeline *processors.Pipeline
}

// NewRootCmd builds the notionmodel command tree.
func NewRootCmd(version, buildDate string) *cobra.Command {
	a := &app{version: version, buildDate: buildDate}
	root := &cobra.Command{
		Use:               "notionmodel",
		Short:             "Validate, normalize and inspect Notion page JSON",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().IntVar(&a.workers, "workers", 0, "Documents decoded concurrently")

	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newCheckCmd(a))
	root.AddCommand(newFmtCmd(a))
	root.AddCommand(newPropsCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("workers") {
		cfg.Processing.Workers = a.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.log = logger.NewLogger(&logger.Config{
		Level:        logger.ParseLogLevel(cfg.Logging.Level),
		Format:       logger.ParseLogFormat(cfg.Logging.Format),
		Output:       cmd.ErrOrStderr(),
		Service:      "notionmodel",
		Version:      a.version,
		EnableCaller: cfg.Logging.Caller,
	})
	logger.SetDefault(a.log)

	a.tracer, err = tracing.NewTracingService(&tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: a.version,
		Enabled:        cfg.Tracing.Enabled,
		SampleRate:     cfg.Tracing.SampleRate,
		ExportType:     cfg.Tracing.Exporter,
		ExportEndpoint: cfg.Tracing.Endpoint,
		ExportTimeout:  tracing.DefaultConfig().ExportTimeout,
		OTLPInsecure:   cfg.Tracing.Insecure,
		ConsoleOutput:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to start tracing: %w", err)
	}

	a.pipeline, err = processors.NewPipeline(&processors.PipelineConfig{
		Workers: cfg.Processing.Workers,
		Timeout: cfg.Processing.Timeout,
	}, a.log, a.tracer)
	return err
}

// run wraps a RunE so spans are flushed whether or not fn fails.
func (a *app) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if a.tracer == nil {
				return
			}
			// The command context may already be cancelled by a signal.
			stopErr := a.tracer.Stop(context.WithoutCancel(cmd.Context()))
			if err == nil && stopErr != nil {
				err = fmt.Errorf("failed to flush traces: %w", stopErr)
			}
		}()
		return fn(cmd, args)
	}
}

// readDocuments reads every path, "-" meaning stdin.
func readDocuments(cmd *cobra.Command, paths []string) ([]processors.Document, error) {
	docs := make([]processors.Document, 0, len(paths))
	for _, path := range paths {
		var (
			data []byte
			err  error
		)
		if path == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(path)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		docs = append(docs, processors.Document{Source: path, Data: data})
	}
	return docs, nil
}
