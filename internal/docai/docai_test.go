package docai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoice-processing-service/internal/extraction"

	"github.com/shopspring/decimal"
)

func TestStubProvider_ProcessDocument(t *testing.T) {
	provider := &StubProvider{
		Now: func() time.Time { return time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC) },
	}

	doc, err := provider.ProcessDocument(context.Background(), nil, "application/pdf")
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}

	items := extraction.ExtractLineItems(doc, nil)
	if len(items) != 2 {
		t.Fatalf("stub document should carry 2 line items, got %d", len(items))
	}

	gross, ok := extraction.ResolveAmount(doc.Entities, "total_gross_amount")
	if !ok || !gross.Equal(decimal.NewFromInt(246)) {
		t.Errorf("stub total gross = (%s, %v), want (246, true)", gross, ok)
	}

	date, ok := extraction.ResolveText(doc.Entities, "invoice_date")
	if !ok || date != "2025-09-15" {
		t.Errorf("stub issue date = (%q, %v), want the injected clock date", date, ok)
	}

	if _, ok := extraction.ResolveText(doc.Entities, "invoice_id"); ok {
		t.Error("stub must leave the invoice number unresolved for the assembler to synthesize")
	}
}

func TestStubProvider_TotalsReconcile(t *testing.T) {
	provider := NewStubProvider()
	doc, err := provider.ProcessDocument(context.Background(), nil, "image/png")
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}

	items := extraction.ExtractLineItems(doc, nil)
	var net, vat, gross decimal.Decimal
	for _, li := range items {
		net = net.Add(li.Net)
		vat = vat.Add(li.VAT)
		gross = gross.Add(li.Gross)
	}

	statedNet, _ := extraction.ResolveAmount(doc.Entities, "total_net_amount")
	statedVAT, _ := extraction.ResolveAmount(doc.Entities, "total_tax_amount")
	statedGross, _ := extraction.ResolveAmount(doc.Entities, "total_gross_amount")

	if !net.Equal(statedNet) || !vat.Equal(statedVAT) || !gross.Equal(statedGross) {
		t.Errorf("stub items (%s/%s/%s) must reconcile with stated totals (%s/%s/%s)",
			net, vat, gross, statedNet, statedVAT, statedGross)
	}
}

func TestHTTPProvider_ProcessDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sekret" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		var req processRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.MimeType != "application/pdf" {
			t.Errorf("mime_type = %q, want application/pdf", req.MimeType)
		}

		resp := processResponse{Document: &extraction.Document{
			Entities: []extraction.Entity{{Type: "invoice_id", MentionText: "FV/9/2025"}},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(&HTTPConfig{Endpoint: server.URL, Token: "sekret"}, nil)
	if err != nil {
		t.Fatalf("NewHTTPProvider() error: %v", err)
	}

	doc, err := provider.ProcessDocument(context.Background(), []byte("%PDF-"), "application/pdf")
	if err != nil {
		t.Fatalf("ProcessDocument() error: %v", err)
	}

	number, ok := extraction.ResolveText(doc.Entities, "invoice_id")
	if !ok || number != "FV/9/2025" {
		t.Errorf("resolved number = (%q, %v), want FV/9/2025", number, ok)
	}
}

func TestHTTPProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(&HTTPConfig{Endpoint: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewHTTPProvider() error: %v", err)
	}

	if _, err := provider.ProcessDocument(context.Background(), nil, "image/png"); err == nil {
		t.Error("non-200 response should surface as an error for the caller to fall back on")
	}
}

func TestHTTPProvider_EmptyDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider, err := NewHTTPProvider(&HTTPConfig{Endpoint: server.URL}, nil)
	if err != nil {
		t.Fatalf("NewHTTPProvider() error: %v", err)
	}

	if _, err := provider.ProcessDocument(context.Background(), nil, "image/png"); err == nil {
		t.Error("a response without a document should be an error")
	}
}

func TestNewHTTPProvider_RequiresEndpoint(t *testing.T) {
	if _, err := NewHTTPProvider(&HTTPConfig{}, nil); err == nil {
		t.Error("NewHTTPProvider() should reject an empty endpoint")
	}
	if _, err := NewHTTPProvider(nil, nil); err == nil {
		t.Error("NewHTTPProvider() should reject nil configuration")
	}
}
