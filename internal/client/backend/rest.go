// internal/client/backend/rest.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tracksafe-service/internal/domain/auth"
	"tracksafe-service/internal/domain/location"
	xerrors "tracksafe-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// envelope mirrors the server's response format.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// RESTBackend talks to the tracksafe API over HTTP. It satisfies Backend.
type RESTBackend struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	logger     *zap.Logger
}

func NewRESTBackend(baseURL string, tokens TokenStore, logger *zap.Logger) *RESTBackend {
	return &RESTBackend{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		tokens:     tokens,
		logger:     logger,
	}
}

func (b *RESTBackend) SignIn(ctx context.Context, email, password string) (*auth.LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp auth.LoginResponse
	if err := b.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}

	if err := b.tokens.Save(resp.AccessToken); err != nil {
		b.logger.Warn("failed to cache session token", zap.Error(err))
	}

	return &resp, nil
}

func (b *RESTBackend) SignUp(ctx context.Context, req *auth.RegisterRequest) (*auth.LoginResponse, error) {
	var resp auth.LoginResponse
	if err := b.do(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, err
	}

	if err := b.tokens.Save(resp.AccessToken); err != nil {
		b.logger.Warn("failed to cache session token", zap.Error(err))
	}

	return &resp, nil
}

func (b *RESTBackend) SignOut(ctx context.Context) error {
	err := b.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)

	// Local state clears regardless of the remote result
	if clearErr := b.tokens.Clear(); clearErr != nil {
		b.logger.Warn("failed to clear session token", zap.Error(clearErr))
	}

	return err
}

func (b *RESTBackend) GetSession(ctx context.Context) (*auth.UserInfo, error) {
	var info auth.UserInfo
	if err := b.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (b *RESTBackend) GetProfile(ctx context.Context) (*auth.Profile, error) {
	var profile auth.Profile
	if err := b.do(ctx, http.MethodGet, "/api/v1/auth/profile", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (b *RESTBackend) UpdateProfile(ctx context.Context, patch auth.ProfilePatch) (*auth.Profile, error) {
	var profile auth.Profile
	if err := b.do(ctx, http.MethodPatch, "/api/v1/auth/profile", patch, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (b *RESTBackend) RecordLocation(ctx context.Context, req *location.RecordRequest) (*location.Sample, error) {
	var resp struct {
		Recorded bool             `json:"recorded"`
		Sample   *location.Sample `json:"sample,omitempty"`
	}
	if err := b.do(ctx, http.MethodPost, "/api/v1/locations", req, &resp); err != nil {
		return nil, err
	}
	if !resp.Recorded {
		return nil, xerrors.ErrInternal
	}
	return resp.Sample, nil
}

func (b *RESTBackend) NearbyServices(ctx context.Context, lat, lon float64, kind location.ServiceKind) ([]location.NearbyService, error) {
	path := fmt.Sprintf("/api/v1/services/nearby?kind=%s&lat=%s&lon=%s",
		url.QueryEscape(string(kind)),
		url.QueryEscape(fmt.Sprintf("%f", lat)),
		url.QueryEscape(fmt.Sprintf("%f", lon)),
	)

	var services []location.NearbyService
	if err := b.do(ctx, http.MethodGet, path, nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// do runs one request against the API, unwrapping the response envelope
// and translating error kinds back into taxonomy errors.
func (b *RESTBackend) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token, err := b.tokens.Load(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := b.httpClient.Do(req)
	if err != nil {
		return xerrors.Wrap(xerrors.ErrBackendUnreachable, err.Error())
	}
	defer httpResp.Body.Close()

	var env envelope
	if err := json.NewDecoder(httpResp.Body).Decode(&env); err != nil {
		return xerrors.Wrap(xerrors.ErrBackendUnreachable, "malformed response")
	}

	if !env.Success {
		kindErr := xerrors.FromKind(env.Kind)
		if env.Error != "" {
			return xerrors.Wrap(kindErr, env.Error)
		}
		return xerrors.Wrap(kindErr, env.Message)
	}

	if out != nil && env.Data != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
