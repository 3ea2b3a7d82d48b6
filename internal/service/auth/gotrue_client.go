package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"polly-api/internal/domain"
)

// GoTrueClient talks to the Supabase auth endpoint over its REST surface.
// Only the credential operations the gateway needs are implemented.
type GoTrueClient struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
}

// NewGoTrueClient creates a new auth backend client
func NewGoTrueClient(baseURL, anonKey string) *GoTrueClient {
	return &GoTrueClient{
		baseURL: baseURL,
		anonKey: anonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// gotrueError covers the two error body shapes the endpoint returns.
type gotrueError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e *gotrueError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Message != "":
		return e.Message
	}
	return ""
}

// SignUp registers a credential identity and returns it
func (c *GoTrueClient) SignUp(ctx context.Context, email, password string) (*domain.AuthUser, error) {
	var user domain.AuthUser
	if err := c.post(ctx, "/auth/v1/signup", "", credentials{Email: email, Password: password}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SignInWithPassword verifies credentials and returns the issued session
func (c *GoTrueClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	var session domain.Session
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", "", credentials{Email: email, Password: password}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignOut revokes the session behind the given access token
func (c *GoTrueClient) SignOut(ctx context.Context, accessToken string) error {
	return c.post(ctx, "/auth/v1/logout", accessToken, struct{}{}, nil)
}

// post issues a JSON request and decodes either the success payload or the
// backend's error message.
func (c *GoTrueClient) post(ctx context.Context, path, bearer string, body, out interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call auth backend: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var backendErr gotrueError
		if err := json.Unmarshal(respBody, &backendErr); err == nil {
			if msg := backendErr.text(); msg != "" {
				return &BackendError{StatusCode: resp.StatusCode, Message: msg}
			}
		}
		return &BackendError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("auth backend returned status %d", resp.StatusCode),
		}
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse auth backend response: %w", err)
	}

	return nil
}

// BackendError carries the auth backend's own rejection message so it can
// be surfaced to the caller verbatim.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return e.Message
}
