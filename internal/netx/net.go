// Package netx has small HTTP helpers for third-party endpoints.
package netx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// GetJSON issues a GET and decodes a 200 response body into v.
func GetJSON(ctx context.Context, client *http.Client, url string, v any) error {
	body, err := get(ctx, client, url)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Download copies the body of a GET (e.g. a presigned URL) into w.
func Download(ctx context.Context, client *http.Client, url string, w io.Writer) (int64, error) {
	body, err := get(ctx, client, url)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	return io.Copy(w, body)
}

func get(ctx context.Context, client *http.Client, url string) (io.ReadCloser, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("request failed: %s; body: %s", resp.Status, string(b))
	}
	return resp.Body, nil
}
