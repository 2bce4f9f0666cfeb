package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"overcooked-delivery/apperr"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doJSON posts body to url and decodes a 2xx response into out. Non-2xx
// statuses are mapped onto the shared error kinds.
func doJSON(ctx context.Context, client HTTPClient, method, url, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperr.Validation("encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return apperr.Network(method+" "+url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Network("read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, raw)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Integrity("decode response from %s: %v", url, err)
	}
	return nil
}

func statusError(code int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)
	msg := body.Error
	if msg == "" {
		msg = body.Message
	}
	if msg == "" {
		msg = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apperr.Authentication(fmt.Errorf("%d: %s", code, msg))
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, msg)
	case code == http.StatusConflict:
		return apperr.Integrity("%s", msg)
	case code >= 400 && code < 500:
		return apperr.Validation("%s", msg)
	default:
		return apperr.Network(fmt.Sprintf("upstream status %d", code), fmt.Errorf("%s", msg))
	}
}
