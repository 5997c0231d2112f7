// Package ocr implements the client for the hosted OCR API (Mistral Document
// AI, reached directly or through an Azure-hosted gateway).
package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	// maxErrorBody caps how much of an error response body is surfaced.
	maxErrorBody = 64 << 10

	dataURIPrefix = "data:application/pdf;base64,"
)

// HTTPError is returned for non-2xx OCR responses. It carries the status code
// and the (capped) response body so a failed call can be diagnosed.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("ocr request failed: %s: %s", e.Status, e.Body)
}

// Client submits PDF documents to an OCR endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates an OCR client for the given endpoint, key and model.
func NewClient(endpoint, apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Process reads the PDF at pdfPath, submits it base64-encoded to the OCR
// endpoint and returns the decoded result. A non-2xx response is returned as
// an *HTTPError; transport failures propagate unchanged. No retry is attempted.
func (c *Client) Process(ctx context.Context, pdfPath string) (*Response, error) {
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF %s: %w", pdfPath, err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	reqBody := Request{
		Model: c.model,
		Document: Document{
			Type:        "document_url",
			DocumentURL: dataURIPrefix + encoded,
		},
		IncludeImageBase64: true,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode OCR request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build OCR request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request to %s failed: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OCR response: %w", err)
	}

	var result Response
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode OCR response: %w", err)
	}
	result.Raw = raw

	return &result, nil
}
