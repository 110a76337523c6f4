package sheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name   string
		config *ClientConfig
	}{
		{"nil config", nil},
		{"missing spreadsheet id", &ClientConfig{Token: "t"}},
		{"missing token", &ClientConfig{SpreadsheetID: "sheet-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(tt.config, nil); err == nil {
				t.Error("NewClient() should reject the configuration")
			}
		})
	}
}

func TestClient_FetchRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v4/spreadsheets/sheet-1/values/") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if !strings.Contains(r.URL.Path, "Dane") {
			t.Errorf("range missing from path %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer token-1" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		w.Write([]byte(`{"range":"Dane!A2:K","values":[["INV-1","Acme","PL123","2025-09-10","","PLN","50.00","11.50","61.50"]]}`))
	}))
	defer server.Close()

	client, err := NewClient(&ClientConfig{
		SpreadsheetID: "sheet-1",
		Token:         "token-1",
		BaseURL:       server.URL,
	}, nil)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	rows, err := client.FetchRange(context.Background(), "Dane!A2:K")
	if err != nil {
		t.Fatalf("FetchRange() error: %v", err)
	}
	if len(rows) != 1 || rows[0][0] != "INV-1" {
		t.Errorf("rows = %v, want one row keyed INV-1", rows)
	}
}

func TestClient_FetchRange_EmptyRange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"range":"Pozycje!A2:J"}`))
	}))
	defer server.Close()

	client, err := NewClient(&ClientConfig{SpreadsheetID: "s", Token: "t", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	rows, err := client.FetchRange(context.Background(), "Pozycje!A2:J")
	if err != nil {
		t.Fatalf("FetchRange() error: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want none for an empty range", rows)
	}
}

func TestClient_FetchRange_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	client, err := NewClient(&ClientConfig{SpreadsheetID: "s", Token: "t", BaseURL: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}

	if _, err := client.FetchRange(context.Background(), "Dane!A2:K"); err == nil {
		t.Error("non-200 response should be an error")
	}
}
