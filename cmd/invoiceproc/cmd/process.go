package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"invoice-processing-service/cmd/invoiceproc/config"
	"invoice-processing-service/internal/docai"
	"invoice-processing-service/internal/export"
	"invoice-processing-service/internal/pipeline"
	"invoice-processing-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the process command
var (
	inboxDir         string
	outputPath       string
	runOnce          bool
	runInterval      time.Duration
	dryRun           bool
	tolerance        string
	providerEndpoint string
	providerToken    string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract invoices from the inbox and export the workbook",
	Long: `Process scans the inbox directory for supported documents (PDF, JPG,
JPEG, PNG), extracts one invoice per document, validates that line-item
sums reconcile with the declared totals, and exports all invoices to a
three-sheet XLSX workbook.

Without --once the command keeps running and repeats the scan on every
interval tick until interrupted.

Examples:
  # Single pass over the default inbox
  invoiceproc process --once

  # Custom locations and a tighter tolerance
  invoiceproc process --once --inbox ./documents --output ./out/invoices.xlsx --tolerance 0.005

  # Preview export rows without writing the workbook
  invoiceproc process --once --dry-run

  # Continuous processing against a real extraction service
  invoiceproc process --interval 2m --provider-endpoint https://docai.example.com/v1/process`,

	PreRunE: validateProcessFlags,
	RunE:    runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	// Input and output flags
	processCmd.Flags().StringVarP(&inboxDir, "inbox", "i", config.DefaultInboxDir, "directory scanned for invoice documents")
	processCmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultOutputPath, "path of the exported XLSX workbook")

	// Run mode flags
	processCmd.Flags().BoolVar(&runOnce, "once", false, "process the inbox once and exit")
	processCmd.Flags().DurationVar(&runInterval, "interval", config.DefaultInterval, "delay between scans in continuous mode")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log export rows instead of writing the workbook")

	// Validation flags
	processCmd.Flags().StringVarP(&tolerance, "tolerance", "t", "0.01", "totals reconciliation tolerance in currency units")

	// Extraction provider flags
	processCmd.Flags().StringVar(&providerEndpoint, "provider-endpoint", "", "document-understanding service URL (stub extraction when empty)")
	processCmd.Flags().StringVar(&providerToken, "provider-token", "", "bearer token for the extraction service")

	// Bind flags to viper
	viper.BindPFlag("inbox", processCmd.Flags().Lookup("inbox"))
	viper.BindPFlag("output", processCmd.Flags().Lookup("output"))
	viper.BindPFlag("once", processCmd.Flags().Lookup("once"))
	viper.BindPFlag("interval", processCmd.Flags().Lookup("interval"))
	viper.BindPFlag("dry-run", processCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("tolerance", processCmd.Flags().Lookup("tolerance"))
	viper.BindPFlag("provider-endpoint", processCmd.Flags().Lookup("provider-endpoint"))
	viper.BindPFlag("provider-token", processCmd.Flags().Lookup("provider-token"))
}

func validateProcessFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inboxDir = viper.GetString("inbox")
	outputPath = viper.GetString("output")
	runOnce = viper.GetBool("once")
	runInterval = viper.GetDuration("interval")
	dryRun = viper.GetBool("dry-run")
	tolerance = viper.GetString("tolerance")

	if inboxDir == "" {
		return fmt.Errorf("inbox directory cannot be empty")
	}
	if outputPath == "" && !dryRun {
		return fmt.Errorf("output path cannot be empty")
	}
	if !runOnce && runInterval <= 0 {
		return fmt.Errorf("interval must be positive in continuous mode")
	}

	// The inbox may not exist yet; it is created on first scan. A file at
	// that path is a configuration mistake, not a missing directory.
	if info, err := os.Stat(inboxDir); err == nil && !info.IsDir() {
		return fmt.Errorf("inbox path is a file, expected a directory: %s", inboxDir)
	}

	return nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	pipelineConfig, err := config.CreatePipelineConfig(viper.GetViper())
	if err != nil {
		return err
	}

	var provider docai.Provider
	providerConfig, err := config.CreateProviderConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if providerConfig != nil {
		provider, err = docai.NewHTTPProvider(providerConfig, logger.GetGlobalLogger())
		if err != nil {
			return fmt.Errorf("failed to create extraction provider: %w", err)
		}
	}

	writer := export.NewExcelWriter(logger.GetGlobalLogger())
	p := pipeline.New(pipelineConfig, provider, writer, logger.GetGlobalLogger())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runOnce {
		summary, err := p.RunOnce(ctx)
		if err != nil {
			os.Exit(handler.HandleError(err))
		}
		printSummary(summary)
		return nil
	}

	if err := p.RunLoop(ctx, runInterval); err != nil && ctx.Err() == nil {
		os.Exit(handler.HandleError(err))
	}
	return nil
}

func printSummary(summary *pipeline.Summary) {
	fmt.Fprintf(os.Stderr, "Processed %d of %d documents (%d failed).\n",
		summary.Processed, summary.Scanned, summary.Failed)
	if summary.DryRun {
		fmt.Fprintf(os.Stderr, "Dry run: workbook not written.\n")
	} else if summary.Output != "" {
		fmt.Fprintf(os.Stderr, "Workbook written to %s\n", summary.Output)
	}
}
