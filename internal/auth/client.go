// Package auth validates caller tokens against an OpenID userinfo
// endpoint and issues service to service tokens.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Config struct {
	// UserInfoEndpoint is the identity provider's userinfo URL. Caller
	// tokens are validated by presenting them there.
	UserInfoEndpoint string
	ServiceName      string
	ServiceSecret    string
	TokenTTL         time.Duration
}

type Client struct {
	config     Config
	httpClient *http.Client

	mu        sync.Mutex
	userCache map[string]*cachedUser
}

type cachedUser struct {
	user      *UserContext
	expiresAt time.Time
}

// userCacheTTL bounds how long a validated token skips the identity
// provider round trip.
const userCacheTTL = 5 * time.Minute

// UserContext identifies the authenticated caller.
type UserContext struct {
	Sub               string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
}

// ServiceClaims are the claims of a token this service signs for
// machine to machine calls.
type ServiceClaims struct {
	ServiceName string `json:"service_name"`
	jwt.RegisteredClaims
}

func NewClient(config Config) *Client {
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		userCache:  make(map[string]*cachedUser),
	}
}

// GenerateServiceToken signs a short lived HS256 token identifying this
// service.
func (c *Client) GenerateServiceToken() (string, error) {
	now := time.Now()
	claims := ServiceClaims{
		ServiceName: c.config.ServiceName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.config.ServiceName,
			Subject:   c.config.ServiceName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.config.TokenTTL)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.config.ServiceSecret))
	if err != nil {
		return "", fmt.Errorf("sign service token: %w", err)
	}
	return signed, nil
}

// ValidateUserToken checks a caller token against the userinfo endpoint
// and returns the caller identity. Valid tokens are cached briefly.
func (c *Client) ValidateUserToken(ctx context.Context, tokenString string) (*UserContext, error) {
	c.mu.Lock()
	if cached, ok := c.userCache[tokenString]; ok && cached.expiresAt.After(time.Now()) {
		c.mu.Unlock()
		return cached.user, nil
	}
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.UserInfoEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tokenString)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid token: status %d", resp.StatusCode)
	}

	var user UserContext
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}

	c.mu.Lock()
	c.userCache[tokenString] = &cachedUser{
		user:      &user,
		expiresAt: time.Now().Add(userCacheTTL),
	}
	c.mu.Unlock()

	return &user, nil
}
