package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

// Credential (email+password) accounts go through the identity service's
// REST API rather than OIDC. The API reports failures as
// {"error":{"message":"EMAIL_EXISTS"}} style documents.

type accountRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type accountResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type accountErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// CreateAccount registers a new email+password account and returns the
// signed-in identity.
func (p *Provider) CreateAccount(ctx context.Context, email, password string) (domainauth.Identity, error) {
	resp, err := p.postAccounts(ctx, "accounts:signUp", accountRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}

	ident := identityFromAccount(resp)
	p.adopt(&ident)
	return ident, nil
}

// SignIn authenticates an existing email+password account.
func (p *Provider) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	resp, err := p.postAccounts(ctx, "accounts:signInWithPassword", accountRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return domainauth.Identity{}, err
	}

	ident := identityFromAccount(resp)
	p.adopt(&ident)
	return ident, nil
}

// postAccounts calls one accounts endpoint and decodes success or the
// service's error document.
func (p *Provider) postAccounts(ctx context.Context, endpoint string, reqBody accountRequest) (accountResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return accountResponse{}, fmt.Errorf("marshal account request: %w", err)
	}

	u := p.accountsBase + "/v1/" + endpoint
	if p.apiKey != "" {
		u += "?key=" + url.QueryEscape(p.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return accountResponse{}, fmt.Errorf("build account request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return accountResponse{}, ports.NewProviderError(ports.CodeNetwork, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return accountResponse{}, ports.NewProviderError(ports.CodeNetwork, err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return accountResponse{}, accountError(resp.StatusCode, raw)
	}

	var out accountResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return accountResponse{}, fmt.Errorf("decode account response: %w", err)
	}
	if out.LocalID == "" {
		return accountResponse{}, errors.New("account response missing localId")
	}
	return out, nil
}

// accountError maps the service's error messages onto provider codes. The
// original message is kept verbatim so callers can surface it.
func accountError(status int, raw []byte) error {
	var doc accountErrorResponse
	_ = json.Unmarshal(raw, &doc)
	msg := doc.Error.Message
	if msg == "" {
		msg = fmt.Sprintf("account request failed with status %d", status)
	}

	switch {
	case strings.HasPrefix(msg, "EMAIL_EXISTS"):
		return ports.NewProviderError(ports.CodeEmailInUse, msg)
	case strings.HasPrefix(msg, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(msg, "INVALID_PASSWORD"),
		strings.HasPrefix(msg, "EMAIL_NOT_FOUND"):
		return ports.NewProviderError(ports.CodeInvalidCredential, msg)
	case strings.HasPrefix(msg, "WEAK_PASSWORD"):
		return ports.NewProviderError(ports.CodeWeakPassword, msg)
	default:
		return ports.NewProviderError(ports.CodeNetwork, msg)
	}
}

// identityFromAccount maps an accounts API response to a domain identity.
func identityFromAccount(resp accountResponse) domainauth.Identity {
	return domainauth.Identity{
		UID:         resp.LocalID,
		Email:       resp.Email,
		DisplayName: resp.DisplayName,
		Provider:    "password",
	}
}
