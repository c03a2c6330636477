// Package client is a Go SDK for the MuniSuite REST API.
//
// Every method maps to exactly one endpoint, takes a context and
// returns typed records. There is no retry and no backoff, failures are
// returned to the caller as *Error values carrying the HTTP status and
// the server's error string.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Error is an API call that did not succeed.
type Error struct {
	// Status is the HTTP status code of the response, 0 when the
	// request never reached the server.
	Status int

	// Message is the error string reported by the server or transport.
	Message string
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// Client calls the MuniSuite API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the http.Client used for requests, e.g. to
// set a timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// New returns a Client for the API at baseURL, e.g.
// "https://suite.example.com/api".
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    http.DefaultClient,
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// envelope is the generic response wrapper of the API.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *string         `json:"error"`
}

// do performs a request and decodes the data envelope into target.
// A nil target discards the response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, target any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("could not encode request body: %v", err)}
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}

	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		return &Error{Status: response.StatusCode, Message: err.Error()}
	}

	if response.StatusCode >= http.StatusBadRequest {
		message := http.StatusText(response.StatusCode)

		var wrapped envelope
		if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Error != nil {
			message = *wrapped.Error
		}

		return &Error{Status: response.StatusCode, Message: message}
	}

	if target == nil || len(raw) == 0 {
		return nil
	}

	var wrapped envelope
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return &Error{Status: response.StatusCode, Message: fmt.Sprintf("could not decode response: %v", err)}
	}

	if err := json.Unmarshal(wrapped.Data, target); err != nil {
		return &Error{Status: response.StatusCode, Message: fmt.Sprintf("could not decode response data: %v", err)}
	}

	return nil
}
