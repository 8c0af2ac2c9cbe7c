package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/country-explorer/internal/domain"
	"github.com/country-explorer/internal/pkg/errors"
)

// Client - explorer-side client for the favorites backend. Every
// authenticated request carries "Authorization: Bearer <token>".
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (c *Client) Register(ctx context.Context, username, email, password string) (*domain.Session, error) {
	return c.authenticate(ctx, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) GetFavorites(ctx context.Context, token string) ([]string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/favorites", token, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var body struct {
		Data []string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error("Failed to decode favorites response", zap.Error(err))
		return nil, errors.ErrNetworkFailure
	}

	return body.Data, nil
}

func (c *Client) AddFavorite(ctx context.Context, token, code string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/favorites/"+code, token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp)
}

func (c *Client) RemoveFavorite(ctx context.Context, token, code string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/favorites/"+code, token, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return c.checkStatus(resp)
}

func (c *Client) authenticate(ctx context.Context, path string, payload map[string]string) (*domain.Session, error) {
	resp, err := c.do(ctx, http.MethodPost, path, "", payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var body struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &body)

		switch body.Message {
		case "User already exists":
			return nil, errors.ErrDuplicateAccount
		case "Invalid credentials":
			return nil, errors.ErrInvalidCredentials
		default:
			return nil, errors.ErrValidation
		}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		c.logger.Error("Auth request failed",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode))
		return nil, errors.ErrNetworkFailure
	}

	var sess domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		c.logger.Error("Failed to decode auth response", zap.Error(err))
		return nil, errors.ErrNetworkFailure
	}

	return &sess, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.ErrNetworkFailure
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, errors.ErrNetworkFailure
	}

	return resp, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.ErrUnauthorized
	case resp.StatusCode >= 400:
		c.logger.Error("Backend returned error", zap.Int("status_code", resp.StatusCode))
		return errors.ErrNetworkFailure
	}
	return nil
}
