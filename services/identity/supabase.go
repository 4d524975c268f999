package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/tech-arch1tect/cadence/services/logging"
	"go.uber.org/zap"
)

// maxUserPages caps the admin user scan.
const maxUserPages = 1000

// SupabaseProvider talks to the GoTrue admin API with the service role key.
// The admin API has no lookup by email, so FindUserByEmail pages through users.
type SupabaseProvider struct {
	baseURL    string
	serviceKey string
	pageSize   int
	client     *http.Client
	logger     *logging.Service
}

type supabaseUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type supabaseUserList struct {
	Users []supabaseUser `json:"users"`
}

func NewSupabaseProvider(baseURL, serviceKey string, pageSize int, timeout time.Duration, logger *logging.Service) *SupabaseProvider {
	if pageSize <= 0 {
		pageSize = 200
	}

	client := cleanhttp.DefaultPooledClient()
	if timeout > 0 {
		client.Timeout = timeout
	}

	return &SupabaseProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		pageSize:   pageSize,
		client:     client,
		logger:     logger,
	}
}

func (p *SupabaseProvider) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	for page := 1; page <= maxUserPages; page++ {
		users, err := p.listUsers(ctx, page)
		if err != nil {
			return nil, err
		}

		for _, u := range users {
			if strings.EqualFold(u.Email, email) {
				return &User{ID: u.ID, Email: u.Email}, nil
			}
		}

		if len(users) < p.pageSize {
			return nil, ErrUserNotFound
		}
	}

	p.logger.Warn("supabase user scan hit page limit", zap.Int("max_pages", maxUserPages))
	return nil, ErrUserNotFound
}

func (p *SupabaseProvider) UpdatePasswordByID(ctx context.Context, id, newPassword string) error {
	body, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return err
	}

	endpoint := p.baseURL + "/auth/v1/admin/users/" + url.PathEscape(id)
	resp, err := p.do(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return statusError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (p *SupabaseProvider) listUsers(ctx context.Context, page int) ([]supabaseUser, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("per_page", strconv.Itoa(p.pageSize))

	resp, err := p.do(ctx, http.MethodGet, p.baseURL+"/auth/v1/admin/users?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var list supabaseUserList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode user list: %w", err)
	}
	return list.Users, nil
}

func (p *SupabaseProvider) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", p.serviceKey)
	req.Header.Set("Authorization", "Bearer "+p.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider request failed: %w", err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("identity provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
}
