package cmd

import (
	"context"
	"fmt"
	"os"

	"invoice-processing-service/cmd/invoiceproc/config"
	"invoice-processing-service/internal/audit"
	"invoice-processing-service/internal/sheets"
	apperrors "invoice-processing-service/pkg/errors"
	"invoice-processing-service/pkg/logger"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Spreadsheet ranges the audit reads. Data starts on row 2, below the
// header row written by the exporter.
const (
	headerRange = "Dane!A2:K"
	itemsRange  = "Pozycje!A2:J"
)

// Flags for the audit command
var (
	sheetID        string
	sheetToken     string
	auditTolerance string
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit an exported spreadsheet for gaps and totals mismatches",
	Long: `Audit fetches the "Dane" and "Pozycje" ranges of a published spreadsheet
and checks that every header row has its required fields filled and that
line-item sums match the declared totals per invoice.

The command exits non-zero when the audit finds problems; every missing
field and mismatch is listed on stderr.

Examples:
  invoiceproc audit --sheet-id 1AbC... --token $SHEETS_TOKEN
  invoiceproc audit --sheet-id 1AbC... --token $SHEETS_TOKEN --tolerance 0.05`,

	PreRunE: validateAuditFlags,
	RunE:    runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&sheetID, "sheet-id", "", "spreadsheet identifier (required)")
	auditCmd.Flags().StringVar(&sheetToken, "token", "", "bearer token for the spreadsheet API (required)")
	auditCmd.Flags().StringVar(&auditTolerance, "tolerance", "0.02", "per-invoice totals tolerance in currency units")

	auditCmd.MarkFlagRequired("sheet-id")
	auditCmd.MarkFlagRequired("token")

	viper.BindPFlag("sheet-id", auditCmd.Flags().Lookup("sheet-id"))
	viper.BindPFlag("sheet-token", auditCmd.Flags().Lookup("token"))
	viper.BindPFlag("audit-tolerance", auditCmd.Flags().Lookup("tolerance"))
}

func validateAuditFlags(cmd *cobra.Command, args []string) error {
	sheetID = viper.GetString("sheet-id")
	sheetToken = viper.GetString("sheet-token")
	auditTolerance = viper.GetString("audit-tolerance")

	if sheetID == "" {
		return fmt.Errorf("sheet-id is required")
	}
	if sheetToken == "" {
		return fmt.Errorf("token is required")
	}
	if _, err := decimal.NewFromString(auditTolerance); err != nil {
		return fmt.Errorf("invalid tolerance %q: %w", auditTolerance, err)
	}

	return nil
}

func runAudit(cmd *cobra.Command, args []string) error {
	handler := NewCLIErrorHandler()

	clientConfig, err := config.CreateSheetsConfig(viper.GetViper())
	if err != nil {
		return err
	}
	client, err := sheets.NewClient(clientConfig, logger.GetGlobalLogger())
	if err != nil {
		return err
	}

	ctx := context.Background()
	header, err := client.FetchRange(ctx, headerRange)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}
	items, err := client.FetchRange(ctx, itemsRange)
	if err != nil {
		os.Exit(handler.HandleError(err))
	}

	tolerance, _ := decimal.NewFromString(auditTolerance)
	report := audit.Run(header, items, tolerance)

	if report.OK() {
		fmt.Fprintf(os.Stderr, "Audit passed: %d header rows, %d item rows.\n", len(header), len(items))
		return nil
	}

	if len(report.MissingFields) > 0 {
		fmt.Fprintf(os.Stderr, "Missing fields (%d):\n", len(report.MissingFields))
		for _, msg := range report.MissingFields {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
	}
	if len(report.Mismatches) > 0 {
		fmt.Fprintf(os.Stderr, "Totals mismatches (%d):\n", len(report.Mismatches))
		for _, msg := range report.Mismatches {
			fmt.Fprintf(os.Stderr, "  %s\n", msg)
		}
	}

	detail := fmt.Sprintf("%d missing fields, %d mismatches",
		len(report.MissingFields), len(report.Mismatches))
	os.Exit(handler.HandleError(apperrors.AuditError(apperrors.CodeAuditFailed, detail, nil)))
	return nil
}
