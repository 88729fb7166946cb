package auth_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/recipehub/internal/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newManager(opts ...auth.Option) *auth.Manager {
	return auth.NewManager(testSecret, 15*time.Minute, 7*24*time.Hour, opts...)
}

func TestIssueAndValidate_RoundTrip(t *testing.T) {
	m := newManager()

	access, err := m.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := m.IssueRefresh("user-1")
	require.NoError(t, err)

	sub, err := m.Validate(access, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	sub, err = m.Validate(refresh, auth.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestValidate_WrongType(t *testing.T) {
	m := newManager()

	access, err := m.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := m.IssueRefresh("user-1")
	require.NoError(t, err)

	_, err = m.Validate(access, auth.TypeRefresh)
	assert.ErrorIs(t, err, auth.ErrWrongType)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = m.Validate(refresh, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrWrongType)
}

func TestValidate_Expired(t *testing.T) {
	past := time.Now().Add(-30 * 24 * time.Hour)
	issuer := newManager(auth.WithClock(func() time.Time { return past }))
	validator := newManager()

	for _, typ := range []auth.TokenType{auth.TypeAccess, auth.TypeRefresh} {
		var raw string
		var err error
		if typ == auth.TypeAccess {
			raw, err = issuer.IssueAccess("user-1")
		} else {
			raw, err = issuer.IssueRefresh("user-1")
		}
		require.NoError(t, err)

		_, err = validator.Validate(raw, typ)
		assert.ErrorIs(t, err, auth.ErrExpired, "type %s", typ)
	}
}

func TestValidate_AccessExpiresBeforeRefresh(t *testing.T) {
	start := time.Now()
	clock := start
	m := newManager(auth.WithClock(func() time.Time { return clock }))

	access, err := m.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := m.IssueRefresh("user-1")
	require.NoError(t, err)

	clock = start.Add(time.Hour)

	_, err = m.Validate(access, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrExpired)

	sub, err := m.Validate(refresh, auth.TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
}

func TestValidate_Malformed(t *testing.T) {
	m := newManager()
	other := auth.NewManager("another-secret", time.Minute, time.Hour)

	good, err := m.IssueAccess("user-1")
	require.NoError(t, err)
	foreign, err := other.IssueAccess("user-1")
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "x." + parts[2]

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-1",
		"typ": "access",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	noneRaw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1", "typ": "access"})
	noExpRaw, err := noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"typ": "access", "exp": time.Now().Add(time.Hour).Unix()})
	noSubRaw, err := noSub.SignedString([]byte(testSecret))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong_secret": foreign,
		"tampered":     tampered,
		"alg_none":     noneRaw,
		"missing_exp":  noExpRaw,
		"missing_sub":  noSubRaw,
		"truncated":    parts[0] + "." + parts[1],
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := m.Validate(raw, auth.TypeAccess)
			assert.True(t, errors.Is(err, auth.ErrMalformed), "got %v", err)
		})
	}
}

func TestIssue_EmptySubject(t *testing.T) {
	_, err := newManager().IssueAccess("")
	require.Error(t, err)
}

func TestValidate_ToleratesSmallClockSkew(t *testing.T) {
	now := time.Now()

	// a replica running a few seconds ahead
	ahead := newManager(auth.WithClock(func() time.Time { return now.Add(10 * time.Second) }))
	behind := newManager(auth.WithClock(func() time.Time { return now }))

	raw, err := ahead.IssueAccess("user-1")
	require.NoError(t, err)

	sub, err := behind.Validate(raw, auth.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	far := newManager(auth.WithClock(func() time.Time { return now.Add(5 * time.Minute) }))
	raw, err = far.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = behind.Validate(raw, auth.TypeAccess)
	assert.ErrorIs(t, err, auth.ErrMalformed, "tokens issued well in the future are rejected")
}
