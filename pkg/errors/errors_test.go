package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		contains []string
	}{
		{
			name:     "message only",
			err:      &AppError{Message: "something broke"},
			contains: []string{"something broke"},
		},
		{
			name:     "message with suggestion",
			err:      &AppError{Message: "bad input", Suggestion: "fix the input"},
			contains: []string{"bad input", "suggestion: fix the input"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Error() = %q, want it to contain %q", msg, want)
				}
			}
		})
	}
}

func TestAppError_GetExitCode(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		want     int
	}{
		{CategoryFile, 2},
		{CategoryParse, 3},
		{CategoryValidation, 3},
		{CategoryConfiguration, 4},
		{CategoryExtraction, 5},
		{CategoryExport, 5},
		{CategoryAudit, 6},
		{ErrorCategory("bogus"), 1},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := New(tt.category, CodeUnexpectedError, "test")
			if got := err.GetExitCode(); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrap_NilError(t *testing.T) {
	if Wrap(nil, CategoryFile, CodeFileNotFound, "msg") != nil {
		t.Error("Wrap(nil, ...) should return nil")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryExport, CodeWorkbookWrite, "export failed")

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestAsAppError(t *testing.T) {
	appErr := FileError(CodeFileNotFound, "/tmp/missing.pdf", nil)
	wrapped := fmt.Errorf("outer: %w", appErr)

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("AsAppError() should find the AppError in the chain")
	}
	if got.Code != CodeFileNotFound {
		t.Errorf("Code = %s, want %s", got.Code, CodeFileNotFound)
	}

	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("AsAppError() should not match a plain error")
	}
}

func TestFileError_Context(t *testing.T) {
	err := FileError(CodeDirectoryError, "/inbox", nil)

	if err.Category != CategoryFile {
		t.Errorf("Category = %s, want %s", err.Category, CategoryFile)
	}
	if err.Context["path"] != "/inbox" {
		t.Errorf("Context[path] = %v, want /inbox", err.Context["path"])
	}
	if err.Suggestion == "" {
		t.Error("expected a suggestion for directory errors")
	}
}

func TestAuditError_Codes(t *testing.T) {
	fetchErr := AuditError(CodeRangeFetch, "Dane!A2:K", nil)
	if !strings.Contains(fetchErr.Message, "Dane!A2:K") {
		t.Errorf("Message = %q, want it to mention the range", fetchErr.Message)
	}

	failErr := AuditError(CodeAuditFailed, "2 mismatches", fmt.Errorf("detail"))
	if failErr.Cause == nil {
		t.Error("expected the cause to be preserved")
	}
	if failErr.GetExitCode() != 6 {
		t.Errorf("GetExitCode() = %d, want 6", failErr.GetExitCode())
	}
}
