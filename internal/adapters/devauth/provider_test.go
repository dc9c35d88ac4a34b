package devauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/parkease/parkeased/internal/domain/auth"
	"github.com/parkease/parkeased/internal/ports"
)

func TestProvider_CreateAccountAndSignIn(t *testing.T) {
	p := NewProvider(Config{})
	ctx := context.Background()

	ident, err := p.CreateAccount(ctx, "x@y.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, ident.UID)
	assert.Equal(t, "x@y.com", ident.Email)
	assert.Equal(t, "password", ident.Provider)

	// Duplicate registration is the provider's email-in-use rejection.
	_, err = p.CreateAccount(ctx, "x@y.com", "other")
	require.Error(t, err)
	assert.Equal(t, ports.CodeEmailInUse, ports.ProviderCode(err))

	signed, err := p.SignIn(ctx, "x@y.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, ident.UID, signed.UID, "sign-in returns the same provider identity")

	_, err = p.SignIn(ctx, "x@y.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, ports.CodeInvalidCredential, ports.ProviderCode(err))

	_, err = p.SignIn(ctx, "nobody@y.com", "secret1")
	require.Error(t, err)
	assert.Equal(t, ports.CodeInvalidCredential, ports.ProviderCode(err))
}

func TestProvider_SubscribeDeliversEveryChangeInOrder(t *testing.T) {
	p := NewProvider(Config{})
	ctx := context.Background()

	var seen []*domainauth.Identity
	unsubscribe := p.Subscribe(func(ident *domainauth.Identity) {
		seen = append(seen, ident)
	})
	defer unsubscribe()

	// Initial callback fires with the signed-out state.
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	_, err := p.CreateAccount(ctx, "x@y.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, p.SignOut(ctx))
	_, err = p.SignIn(ctx, "x@y.com", "secret1")
	require.NoError(t, err)

	require.Len(t, seen, 4)
	assert.NotNil(t, seen[1])
	assert.Nil(t, seen[2])
	assert.NotNil(t, seen[3])
	assert.Equal(t, seen[1].UID, seen[3].UID)
}

func TestProvider_Unsubscribe(t *testing.T) {
	p := NewProvider(Config{})
	ctx := context.Background()

	calls := 0
	unsubscribe := p.Subscribe(func(*domainauth.Identity) { calls++ })
	unsubscribe()

	_, err := p.CreateAccount(ctx, "x@y.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "only the initial delivery before unsubscribe")
}

func TestProvider_PopupAndRedirect(t *testing.T) {
	p := NewProvider(Config{GoogleUID: "dev-user", GoogleEmail: "fed@example.com", GoogleName: "Fed User"})
	ctx := context.Background()

	ident, err := p.SignInWithPopup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "dev-user", ident.UID, "a configured federated uid is honored")
	assert.Equal(t, "fed@example.com", ident.Email)
	assert.Equal(t, "google.com", ident.Provider)

	// No redirect pending.
	res, err := p.RedirectResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)

	require.NoError(t, p.SignInWithRedirect(ctx))
	res, err = p.RedirectResult(ctx)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, ident.UID, res.UID, "redirect yields the same federated identity")

	// Result is collected once.
	res, err = p.RedirectResult(ctx)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestProvider_BlockPopups(t *testing.T) {
	p := NewProvider(Config{BlockPopups: true})

	_, err := p.SignInWithPopup(context.Background())
	require.Error(t, err)
	assert.True(t, ports.IsPopupBlocked(err))
}

func TestProvider_SignOutNotifiesNil(t *testing.T) {
	p := NewProvider(Config{})
	ctx := context.Background()
	_, err := p.CreateAccount(ctx, "x@y.com", "secret1")
	require.NoError(t, err)

	var last *domainauth.Identity
	got := false
	defer p.Subscribe(func(ident *domainauth.Identity) {
		last = ident
		got = true
	})()

	require.True(t, got)
	require.NotNil(t, last, "subscriber sees the signed-in state on attach")

	require.NoError(t, p.SignOut(ctx))
	assert.Nil(t, last)
}
