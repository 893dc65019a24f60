// Package complianceapi реализует HTTP-клиент внешнего API комплаенс-данных.
// Клиент пересылает bearer-токен вызывающего и не добавляет собственных
// учётных данных. Повторные попытки выполняет транспортный слой вызывающего.
package complianceapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client — клиент внешнего API комплаенс-данных.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент с базовым адресом и таймаутом из конфига.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, bearerToken string, body any) (*http.Request, error) {
	url := c.baseURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// GetVendorProfile возвращает профиль вендора из внешнего API как JSON.
func (c *Client) GetVendorProfile(ctx context.Context, externalID, bearerToken string) (json.RawMessage, error) {
	const op = "complianceapi.GetVendorProfile"
	req, err := c.newRequest(ctx, http.MethodGet, "/vendors/"+externalID, bearerToken, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return json.RawMessage(raw), nil
}
