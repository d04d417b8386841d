package moderntreasury

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"

	payments "github.com/metaversemultiverse/Payments-Gateway"
)

const (
	// maxBodyBytes caps error bodies only.
	maxBodyBytes    = 1 << 20
	maxMessageBytes = 256
)

type client struct {
	httpClient *http.Client
	token      string
}

func newClient(token string, timeout time.Duration) *client {
	return &client{
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}
}

type errorBody struct {
	Errors struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Parameter string `json:"parameter"`
	} `json:"errors"`
}

// POSTAndUnmarshalJson sends in as JSON with bearer authorization and
// decodes a 2xx response body into out. Every failure is a TransportError.
func (c *client) POSTAndUnmarshalJson(ctx context.Context, link string, in, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return errors.Wrap(err, "Failed marshal")
	}
	req, err := http.NewRequest(http.MethodPost, link, bytes.NewReader(b))
	if err != nil {
		return errors.Wrap(err, "Failed new request")
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &payments.TransportError{Provider: MODERN_TREASURY.String(), Err: errors.Wrap(err, "Failed do request")}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, err = io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return &payments.TransportError{
				Provider:   MODERN_TREASURY.String(),
				StatusCode: resp.StatusCode,
				Err:        errors.Wrap(err, "Failed read all body"),
			}
		}
		return &payments.TransportError{
			Provider:   MODERN_TREASURY.String(),
			StatusCode: resp.StatusCode,
			Err:        errors.New(errorMessage(resp.StatusCode, b)),
		}
	}
	// A created payment order is decoded whatever its size.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &payments.TransportError{
			Provider:   MODERN_TREASURY.String(),
			StatusCode: resp.StatusCode,
			Err:        errors.Wrap(err, "invalid response body"),
		}
	}
	return nil
}

func errorMessage(status int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Errors.Message != "" {
		if eb.Errors.Code != "" {
			return eb.Errors.Code + ": " + eb.Errors.Message
		}
		return eb.Errors.Message
	}
	if s := strings.TrimSpace(string(body)); s != "" {
		return truncate(s, maxMessageBytes)
	}
	return http.StatusText(status)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
