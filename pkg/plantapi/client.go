package plantapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client implements Transport over HTTP.
type Client struct {
	config     *Config
	httpClient *http.Client
	retry      *RetryPolicy
}

// New creates a client for the configured endpoint.
func New(config *Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retry := DefaultRetryPolicy()
	if config.MaxAttempts > 0 {
		retry.MaxAttempts = config.MaxAttempts
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: retry,
	}
}

// errorBody is the JSON body of a non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

// Send encodes parts as multipart/form-data in the given order and posts them.
func (c *Client) Send(ctx context.Context, parts []Part) (*Reply, error) {
	body, contentType, err := encodeParts(parts)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	var resp *http.Response
	err = c.retry.Execute(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(body))
		if err != nil {
			return &requestError{err: fmt.Errorf("creating request: %w", err)}
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		if c.config.Token != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.Token)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			slog.Debug("chat request failed", "endpoint", c.config.Endpoint, "error", err)
			return &requestError{err: fmt.Errorf("sending request: %w", err), attempted: true}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			apiErr.Message = strings.TrimSpace(eb.Error)
		}
		return nil, apiErr
	}

	var reply Reply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	return &reply, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func encodeParts(parts []Part) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, p := range parts {
		if !p.IsFile() {
			if err := w.WriteField(p.Field, p.Value); err != nil {
				return nil, "", fmt.Errorf("writing field %s: %w", p.Field, err)
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(p.Field), quoteEscaper.Replace(p.FileName)))
		ct := p.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)

		fw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("creating part %s: %w", p.FileName, err)
		}
		if _, err := fw.Write(p.Data); err != nil {
			return nil, "", fmt.Errorf("writing part %s: %w", p.FileName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
