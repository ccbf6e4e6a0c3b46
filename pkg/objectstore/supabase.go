// Package objectstore mints short-lived signed download URLs from Supabase Storage.
package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type SupabaseConfig struct {
	BaseURL        string // e.g. https://<project>.supabase.co
	ServiceRoleKey string
	Timeout        time.Duration
}

type SupabaseStorage struct {
	baseURL string
	http    *resty.Client
}

var ErrEmptySignedURL = errors.New("storage returned no signed url")

func NewSupabaseStorage(cfg SupabaseConfig) *SupabaseStorage {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("Authorization", "Bearer "+cfg.ServiceRoleKey).
		SetHeader("apikey", cfg.ServiceRoleKey).
		SetHeader("Content-Type", "application/json")

	return &SupabaseStorage{
		baseURL: strings.TrimRight(cfg.BaseURL, "/") + "/storage/v1",
		http:    httpClient,
	}
}

type signRequest struct {
	ExpiresIn int `json:"expiresIn"`
}

type signResponse struct {
	SignedURL string `json:"signedURL"`
	Error     string `json:"error,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SignURL asks storage for a URL granting read access to bucket/objectPath for ttl.
// It does not retry.
func (s *SupabaseStorage) SignURL(ctx context.Context, bucket, objectPath string, ttl time.Duration) (string, error) {
	endpoint := fmt.Sprintf("%s/object/sign/%s/%s", s.baseURL, url.PathEscape(bucket), escapeObjectPath(objectPath))

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(signRequest{ExpiresIn: int(ttl.Seconds())}).
		Post(endpoint)
	if err != nil {
		return "", fmt.Errorf("sign url request: %w", err)
	}

	var body signResponse
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		_ = json.Unmarshal(resp.Body(), &body)
		return "", fmt.Errorf("storage non-2xx: %d %s", resp.StatusCode(), firstNonEmpty(body.Message, body.Error))
	}

	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("decode sign response: %w", err)
	}
	if body.SignedURL == "" {
		return "", ErrEmptySignedURL
	}

	if strings.HasPrefix(body.SignedURL, "http://") || strings.HasPrefix(body.SignedURL, "https://") {
		return body.SignedURL, nil
	}
	return s.baseURL + "/" + strings.TrimLeft(body.SignedURL, "/"), nil
}

func escapeObjectPath(p string) string {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
