// Package errors provides categorized application errors for the invoice
// processing service.
//
// Every error carries a category, a stable code, an optional suggestion and
// free-form context. Categories map to process exit codes so the CLI can
// distinguish configuration mistakes from bad input data or export failures.
package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryExtraction    ErrorCategory = "extraction"
	CategoryExport        ErrorCategory = "export"
	CategoryAudit         ErrorCategory = "audit"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeDirectoryError ErrorCode = "directory_error"

	// Parse errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeInvalidFormat ErrorCode = "invalid_format"

	// Validation errors
	CodeMissingField   ErrorCode = "missing_field"
	CodeTotalsMismatch ErrorCode = "totals_mismatch"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Extraction errors
	CodeProviderUnavailable ErrorCode = "provider_unavailable"
	CodeProviderResponse    ErrorCode = "provider_response"

	// Export errors
	CodeWorkbookWrite ErrorCode = "workbook_write"

	// Audit errors
	CodeRangeFetch  ErrorCode = "range_fetch"
	CodeAuditFailed ErrorCode = "audit_failed"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// AppError is the base error type for all application errors
type AppError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *AppError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryExtraction, CategoryExport, CategoryInternal:
		return 5
	case CategoryAudit:
		return 6
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *AppError) WithSuggestion(suggestion string) *AppError {
	e.Suggestion = suggestion
	return e
}

// New creates a new AppError
func New(category ErrorCategory, code ErrorCode, message string) *AppError {
	return &AppError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with AppError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	return &AppError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// AsAppError extracts an *AppError from an error chain, if present
func AsAppError(err error) (*AppError, bool) {
	for err != nil {
		if appErr, ok := err.(*AppError); ok {
			return appErr, true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = unwrapper.Unwrap()
	}
	return nil, false
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *AppError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing: %s", path)
		suggestion = "check permissions and ensure you have access"
	case CodeDirectoryError:
		message = fmt.Sprintf("directory error: %s", path)
		suggestion = "ensure the directory exists and is accessible"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *AppError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("path", path)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *AppError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this setting via flag, environment or config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *AppError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// ExtractionError creates an extraction-provider-related error
func ExtractionError(code ErrorCode, document string, err error) *AppError {
	var message string
	var suggestion string

	switch code {
	case CodeProviderUnavailable:
		message = fmt.Sprintf("document-understanding provider unavailable while processing %s", document)
		suggestion = "check provider endpoint and credentials; the stub provider is used as fallback"
	case CodeProviderResponse:
		message = fmt.Sprintf("unusable provider response for %s", document)
		suggestion = "inspect the provider payload; the document is processed with fallback data"
	default:
		message = fmt.Sprintf("extraction error for %s", document)
		suggestion = "review the document and provider configuration"
	}

	var result *AppError
	if err != nil {
		result = Wrap(err, CategoryExtraction, code, message)
	} else {
		result = New(CategoryExtraction, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("document", document)
}

// ExportError creates an export-related error
func ExportError(path string, err error) *AppError {
	var result *AppError
	message := fmt.Sprintf("failed to write workbook: %s", path)
	if err != nil {
		result = Wrap(err, CategoryExport, CodeWorkbookWrite, message)
	} else {
		result = New(CategoryExport, CodeWorkbookWrite, message)
	}
	return result.
		WithSuggestion("check the output path is writable and has free disk space").
		WithContext("path", path)
}

// AuditError creates an audit-related error
func AuditError(code ErrorCode, detail string, err error) *AppError {
	var message string
	var suggestion string

	switch code {
	case CodeRangeFetch:
		message = fmt.Sprintf("failed to fetch spreadsheet range: %s", detail)
		suggestion = "verify the spreadsheet id, range name and access token"
	case CodeAuditFailed:
		message = fmt.Sprintf("spreadsheet audit failed: %s", detail)
		suggestion = "review the listed missing fields and totals mismatches"
	default:
		message = fmt.Sprintf("audit error: %s", detail)
		suggestion = "check the spreadsheet contents and configuration"
	}

	var result *AppError
	if err != nil {
		result = Wrap(err, CategoryAudit, code, message)
	} else {
		result = New(CategoryAudit, code, message)
	}

	return result.WithSuggestion(suggestion)
}
