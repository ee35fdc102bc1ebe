package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Client talks to the hosted identity provider (GoTrue-style REST surface).
// Sign-up, sign-in, token refresh and session persistence are the provider's
// business; this client only consumes the documented endpoints.
type Client struct {
	baseURL   string
	anonKey   string
	jwtSecret string
	http      *http.Client
}

func NewClient(baseURL, anonKey, jwtSecret string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		anonKey:   anonKey,
		jwtSecret: jwtSecret,
		http:      &http.Client{},
	}
}

type ProviderUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         ProviderUser `json:"user"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword exchanges email+password for a provider session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password",
		credentialsRequest{Email: email, Password: password}, "", &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUp registers a new identity. Role assignment never happens here:
// registration is always a plain user, admin is granted out-of-band.
func (c *Client) SignUp(ctx context.Context, email, password string) (*ProviderUser, error) {
	var out struct {
		ProviderUser
		User *ProviderUser `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup",
		credentialsRequest{Email: email, Password: password}, "", &out)
	if err != nil {
		return nil, err
	}
	// Depending on email confirmation settings the provider nests the user
	// or returns it at the top level.
	if out.User != nil {
		return out.User, nil
	}
	return &out.ProviderUser, nil
}

// SignOut revokes the provider session behind the access token.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, accessToken, nil)
}

// TokenClaims is the subset of access-token claims the console consumes.
type TokenClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// ParseClaims extracts claims from an access token. With a configured secret
// the signature is verified; without one the token is still decoded so the
// expiry can bound the session TTL.
func (c *Client) ParseClaims(accessToken string) (*TokenClaims, error) {
	var claims jwt.MapClaims
	if c.jwtSecret != "" {
		token, err := jwt.ParseWithClaims(accessToken, jwt.MapClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(c.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return nil, fmt.Errorf("invalid access token: %w", err)
		}
		claims = token.Claims.(jwt.MapClaims)
	} else {
		token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
		if err != nil {
			return nil, err
		}
		claims = token.Claims.(jwt.MapClaims)
	}

	out := &TokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, accessToken string, out interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("identity provider URL is not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.anonKey)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s", providerErrorMessage(resp.StatusCode, raw))
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("unexpected identity provider payload: %s", strings.TrimSpace(string(raw)))
		}
	}
	return nil
}

func providerErrorMessage(status int, raw []byte) string {
	var probe struct {
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil {
		for _, m := range []string{probe.ErrorDescription, probe.Msg, probe.Error, probe.Message} {
			if m != "" {
				return m
			}
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}
