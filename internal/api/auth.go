package api

import (
	"context"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"

	"github.com/diogo/docchat/internal/config"
	apierrors "github.com/diogo/docchat/internal/errors"
	"github.com/diogo/docchat/internal/models"
)

// Login authenticates against the server and persists the issued token.
// The endpoint takes an OAuth2 password form.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := c.newRequest(ctx, http.MethodPost, models.PathLogin, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	// Login must not carry a stale bearer token: a 401 here means bad
	// credentials, not an expired session.
	req.Header.Del("Authorization")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var resp models.LoginResponse
	if err := c.doJSON("login", req, &resp); err != nil {
		return err
	}
	if resp.AccessToken == "" {
		return apierrors.NewParseError("login response missing access_token", "access_token")
	}

	c.setToken(resp.AccessToken)
	return config.SetToken(c.state, resp.AccessToken)
}

// Logout clears the local token. The server keeps no session state.
func (c *Client) Logout() error {
	c.setToken("")
	return config.ClearToken(c.state)
}
