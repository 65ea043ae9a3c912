package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// fetchJSON issues a single GET to rawURL and decodes a successful response body into T.
// Any status outside the 2xx range is turned into an error by statusErr, which lets each
// client report its own error kind. There are no retries: a failure is returned as is.
func fetchJSON[T any](ctx context.Context, client *http.Client, rawURL string, statusErr func(status int) error) (T, error) {
	var out T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return out, fmt.Errorf("could not build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, statusErr(resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("failed to decode response: %w", err)
	}
	return out, nil
}
