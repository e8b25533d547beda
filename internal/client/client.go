// Package client holds the HTTP clients for the external collaborators:
// the order API, the user-details API, the menu API and the admin API.
// All of them speak JSON and authenticate with a bearer token.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// apiError is the error envelope the backend uses. When the body carries a
// message we surface it to the user, otherwise callers fall back to a
// generic one.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// doJSON performs a request with an optional bearer token and decodes the
// response into out (out may be nil). Non-2xx responses become errors
// carrying the server-provided message when one is present.
func doJSON(ctx context.Context, method, url, token string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil {
			if apiErr.Error != "" {
				return fmt.Errorf("%s", apiErr.Error)
			}
			if apiErr.Message != "" {
				return fmt.Errorf("%s", apiErr.Message)
			}
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed response: %v", err)
	}
	return nil
}
