package httpx

import (
	"fmt"
	"net/http"
)

// AuthTokenRoundTripper attaches a static API token to every outgoing
// request. Suits APIs that authenticate with a long-lived key in the
// Authorization header and have no refresh flow.
type AuthTokenRoundTripper struct {
	next   http.RoundTripper
	token  string
	scheme string
}

func NewAuthTokenRoundTripper(
	next http.RoundTripper,
	token string,
	scheme string,
) AuthTokenRoundTripper {
	return AuthTokenRoundTripper{
		next:   next,
		token:  token,
		scheme: scheme,
	}
}

func (rt AuthTokenRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	value := rt.token
	if rt.scheme != "" {
		value = rt.scheme + " " + rt.token
	}

	req.Header.Set("Authorization", value)

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
