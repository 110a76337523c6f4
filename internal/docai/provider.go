// Package docai is the boundary to the document-understanding service. The
// service is a black box consuming raw document bytes plus a MIME type and
// returning an entity tree; its failure is never fatal to a run - callers
// fall back to the deterministic stub provider.
package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invoice-processing-service/internal/extraction"
	"invoice-processing-service/pkg/logger"

	"github.com/google/uuid"
)

// Provider produces an extraction document for raw document content.
type Provider interface {
	ProcessDocument(ctx context.Context, content []byte, mimeType string) (*extraction.Document, error)
}

// HTTPConfig configures the HTTP provider.
type HTTPConfig struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Validate validates the provider configuration
func (c *HTTPConfig) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("provider endpoint is required")
	}
	return nil
}

// HTTPProvider calls a document-understanding service over JSON/HTTP.
type HTTPProvider struct {
	config *HTTPConfig
	client *http.Client
	logger logger.Logger
}

// NewHTTPProvider creates a provider for the configured endpoint.
func NewHTTPProvider(config *HTTPConfig, log logger.Logger) (*HTTPProvider, error) {
	if config == nil {
		return nil, fmt.Errorf("provider configuration is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 45 * time.Second
	}

	return &HTTPProvider{
		config: config,
		client: &http.Client{Timeout: timeout},
		logger: log.WithComponent("docai"),
	}, nil
}

// processRequest is the wire format sent to the service.
type processRequest struct {
	Content  string `json:"content"` // base64 document bytes
	MimeType string `json:"mime_type"`
}

// processResponse wraps the entity tree returned by the service.
type processResponse struct {
	Document *extraction.Document `json:"document"`
}

// ProcessDocument sends the document to the service and decodes the entity
// tree. Any transport or decoding failure is returned to the caller, which
// treats it as "no structured data available".
func (p *HTTPProvider) ProcessDocument(ctx context.Context, content []byte, mimeType string) (*extraction.Document, error) {
	reqID := uuid.New().String()
	start := time.Now()

	payload, err := json.Marshal(processRequest{
		Content:  base64.StdEncoding.EncodeToString(content),
		MimeType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.Token)
	}

	p.logger.WithFields(logger.Fields{
		"req_id":    reqID,
		"mime_type": mimeType,
		"bytes":     len(content),
	}).Debug("Sending document to provider")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	p.logger.WithFields(logger.Fields{
		"req_id":     reqID,
		"status":     resp.StatusCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Debug("Provider response received")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d", resp.StatusCode)
	}

	var decoded processResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	if decoded.Document == nil {
		return nil, fmt.Errorf("provider response carries no document")
	}
	return decoded.Document, nil
}
