// Package config builds component configurations from CLI flags, environment
// variables and the optional config file, all already merged by viper.
package config

import (
	"fmt"
	"time"

	"invoice-processing-service/internal/docai"
	"invoice-processing-service/internal/extraction"
	"invoice-processing-service/internal/pipeline"
	"invoice-processing-service/internal/reconciler"
	"invoice-processing-service/internal/sheets"
	"invoice-processing-service/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Default settings mirroring the zero-configuration workflow: drop documents
// into the inbox, get the workbook next to it.
const (
	DefaultInboxDir   = "Skopiowane_faktury"
	DefaultOutputPath = "Szablon_Faktury_AI_v4.xlsx"
	DefaultCurrency   = "PLN"
	DefaultInterval   = 5 * time.Minute
)

// SetDefaults registers all configuration defaults with viper. Called once
// from command initialization so flag, env and file lookups share one source.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("inbox", DefaultInboxDir)
	v.SetDefault("output", DefaultOutputPath)
	v.SetDefault("currency", DefaultCurrency)
	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("tolerance", reconciler.DefaultTolerance.String())
	v.SetDefault("vat-candidates", []string{"23", "8", "5", "0"})
	v.SetDefault("provider-timeout", 45*time.Second)
}

// CreateLoggerConfig creates the logging configuration
func CreateLoggerConfig(verbose bool) *logger.Config {
	cfg := logger.DefaultConfig()
	if verbose {
		cfg.Level = "debug"
	}
	return cfg
}

// CreatePipelineConfig creates a pipeline configuration from viper settings
func CreatePipelineConfig(v *viper.Viper) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	cfg.InboxDir = v.GetString("inbox")
	cfg.OutputPath = v.GetString("output")
	cfg.DryRun = v.GetBool("dry-run")

	tolerance, err := decimal.NewFromString(v.GetString("tolerance"))
	if err != nil {
		return cfg, fmt.Errorf("invalid tolerance %q: %w", v.GetString("tolerance"), err)
	}
	if tolerance.LessThanOrEqual(decimal.Zero) {
		return cfg, fmt.Errorf("tolerance must be positive, got %s", tolerance)
	}
	cfg.Tolerance = tolerance

	assembler, err := createAssemblerConfig(v)
	if err != nil {
		return cfg, err
	}
	cfg.Assembler = assembler
	return cfg, nil
}

func createAssemblerConfig(v *viper.Viper) (extraction.AssemblerConfig, error) {
	cfg := extraction.DefaultAssemblerConfig()
	if currency := v.GetString("currency"); currency != "" {
		cfg.DefaultCurrency = currency
	}

	raw := v.GetStringSlice("vat-candidates")
	if len(raw) == 0 {
		return cfg, nil
	}
	candidates := make([]decimal.Decimal, 0, len(raw))
	for _, s := range raw {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return cfg, fmt.Errorf("invalid vat candidate %q: %w", s, err)
		}
		if rate.IsNegative() {
			return cfg, fmt.Errorf("vat candidate cannot be negative: %s", rate)
		}
		candidates = append(candidates, rate)
	}
	cfg.RateCandidates = candidates
	return cfg, nil
}

// CreateProviderConfig creates the extraction provider configuration. A nil
// result with nil error means no endpoint is configured and the pipeline
// should run on the stub provider.
func CreateProviderConfig(v *viper.Viper) (*docai.HTTPConfig, error) {
	endpoint := v.GetString("provider-endpoint")
	if endpoint == "" {
		return nil, nil
	}
	return &docai.HTTPConfig{
		Endpoint: endpoint,
		Token:    v.GetString("provider-token"),
		Timeout:  v.GetDuration("provider-timeout"),
	}, nil
}

// CreateSheetsConfig creates the spreadsheet client configuration for audits
func CreateSheetsConfig(v *viper.Viper) (*sheets.ClientConfig, error) {
	cfg := &sheets.ClientConfig{
		SpreadsheetID: v.GetString("sheet-id"),
		Token:         v.GetString("sheet-token"),
		BaseURL:       v.GetString("sheet-base-url"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
