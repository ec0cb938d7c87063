package facebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/minhaz23-oss/fbLogin/internal/domain"
)

const graphURL = "https://graph.facebook.com/v19.0/me"

// Payload holds the profile fields confirmed by the Graph API for an access
// token.
type Payload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Verifier validates Facebook access tokens by asking the Graph API who the
// token belongs to.
type Verifier struct {
	client *http.Client
}

func NewVerifier() *Verifier {
	return &Verifier{client: &http.Client{Timeout: 10 * time.Second}}
}

// Verify calls the Graph API /me endpoint with the access token. Returns a
// domain.ErrUnauthorized-wrapped error if the token is rejected.
func (v *Verifier) Verify(ctx context.Context, accessToken string) (*Payload, error) {
	q := url.Values{}
	q.Set("fields", "id,name,email")
	q.Set("access_token", accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, graphURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("facebook graph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid facebook token: %w", domain.ErrUnauthorized)
	}
	var p Payload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, fmt.Errorf("invalid facebook token: %w", domain.ErrUnauthorized)
	}
	return &p, nil
}
