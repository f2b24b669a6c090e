package famsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Client talks to the famly API. The zero token makes unauthenticated calls;
// SetToken installs the bearer token used by everything else. Client is safe
// for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewClient creates an API client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SetToken installs the session token used on authenticated requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the currently installed session token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// ============================================================================
// Auth
// ============================================================================

// Register creates an account and installs the returned session token.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp, http.StatusCreated); err != nil {
		return AuthResponse{}, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Login authenticates and installs the returned session token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var resp AuthResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp, http.StatusOK); err != nil {
		return AuthResponse{}, err
	}
	c.SetToken(resp.Token)
	return resp, nil
}

// Me fetches the canonical {user, family} snapshot. This is the
// reconciliation fetch; everything the client caches derives from it.
func (c *Client) Me(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &snap, http.StatusOK)
	return snap, err
}

// ============================================================================
// Families
// ============================================================================

// CreateFamily creates a family owned by the caller.
func (c *Client) CreateFamily(ctx context.Context, req CreateFamilyRequest) (Snapshot, error) {
	var snap Snapshot
	err := c.do(ctx, http.MethodPost, "/api/families", req, &snap, http.StatusCreated)
	return snap, err
}

// ValidateCode previews the family behind a code without joining it.
func (c *Client) ValidateCode(ctx context.Context, code string) (CodePreview, error) {
	var preview CodePreview
	err := c.do(ctx, http.MethodGet, "/api/families/validate/"+code, nil, &preview, http.StatusOK)
	return preview, err
}

// JoinFamily joins the family matching the code.
func (c *Client) JoinFamily(ctx context.Context, code string) (Snapshot, error) {
	var snap Snapshot
	req := JoinFamilyRequest{FamilyCode: code}
	err := c.do(ctx, http.MethodPost, "/api/families/join", req, &snap, http.StatusOK)
	return snap, err
}

// FamilyMembers lists the members of the caller's family.
func (c *Client) FamilyMembers(ctx context.Context, familyID string) ([]Member, error) {
	var members []Member
	err := c.do(ctx, http.MethodGet, "/api/families/"+familyID+"/members", nil, &members, http.StatusOK)
	return members, err
}

// LeaveFamily detaches the caller from their family.
func (c *Client) LeaveFamily(ctx context.Context, familyID string) error {
	var resp MessageResponse
	return c.do(ctx, http.MethodPost, "/api/families/"+familyID+"/leave", nil, &resp, http.StatusOK)
}

// ChangeMemberRole sets another member's role. Admin only.
func (c *Client) ChangeMemberRole(ctx context.Context, familyID, memberID, role string) (Member, error) {
	var member Member
	path := fmt.Sprintf("/api/families/%s/members/%s/role", familyID, memberID)
	err := c.do(ctx, http.MethodPatch, path, ChangeRoleRequest{Role: role}, &member, http.StatusOK)
	return member, err
}

// RemoveMember removes another member from the family. Admin only; the server
// rejects self-removal through this path.
func (c *Client) RemoveMember(ctx context.Context, familyID, memberID string) error {
	var resp MessageResponse
	path := fmt.Sprintf("/api/families/%s/members/%s", familyID, memberID)
	return c.do(ctx, http.MethodDelete, path, nil, &resp, http.StatusOK)
}

// ============================================================================
// Transport
// ============================================================================

// do performs a JSON request/response round trip. A non-expected status is
// decoded into an *APIError; transport failures come back as plain errors so
// callers can tell "rejected" from "unknown outcome".
func (c *Client) do(
	ctx context.Context,
	method, path string,
	body any,
	target any,
	expectedStatus int,
) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if target != nil {
		if err := json.Unmarshal(bodyBytes, target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func parseErrorResponse(statusCode int, body []byte) error {
	var wire ErrorResponse
	if err := json.Unmarshal(body, &wire); err != nil || wire.Error == "" {
		return &APIError{
			StatusCode: statusCode,
			Code:       ErrorCodeServerError,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return &APIError{
		StatusCode: statusCode,
		Code:       wire.Error,
		Message:    wire.Message,
		Family:     wire.Family,
	}
}
