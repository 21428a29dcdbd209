package odin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pet-care-log/internal/platform/httpclient"
	"pet-care-log/internal/ports/auth"
)

var (
	ErrOdinNotConfigured = errors.New("odin client not configured")
	ErrOdinUnauthorized  = errors.New("odin unauthorized")
	ErrOdinUpstream      = errors.New("odin upstream error")
)

// Config del cliente Odin (IAM). En la API sale de ODIN_BASE_URL/ODIN_API_KEY;
// en el CLI del config.yaml.
type Config struct {
	BaseURL string
	APIKey  string

	// Si está vacío, se usa "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration

	// Transport opcional (tests).
	Transport http.RoundTripper
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) *Client {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	hc := httpclient.NewWithTransport(timeout, cfg.Transport)
	if base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); base != "" {
		hc.BaseURL = base
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// TODO(odin): los paths son provisorios hasta que Odin publique el contrato.
const (
	verifyPath = "/v1/tokens/verify"
	revokePath = "/v1/tokens/revoke"
)

// VerifyToken llama a Odin para verificar un token y traer claims.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrOdinUnauthorized
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := c.http.DoJSON(ctx, http.MethodPost, verifyPath, c.headers(token), map[string]string{"token": token}, &out); err != nil {
		return auth.Claims{}, mapErr(err)
	}

	out.UserID = strings.TrimSpace(out.UserID)
	if out.UserID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user_id", ErrOdinUpstream)
	}

	return auth.Claims{
		UserID: out.UserID,
		Email:  strings.TrimSpace(out.Email),
	}, nil
}

// RevokeToken invalida el token (sign-out).
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	if !c.IsConfigured() {
		return ErrOdinNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return mapErr(c.http.DoJSON(ctx, http.MethodPost, revokePath, c.headers(token), map[string]string{"token": token}, nil))
}

func (c *Client) headers(token string) map[string]string {
	return map[string]string{
		c.apiKeyHeader:  c.apiKey,
		"Authorization": "Bearer " + token,
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch httpclient.StatusOf(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrOdinUnauthorized
	}
	return fmt.Errorf("%w: %v", ErrOdinUpstream, err)
}
