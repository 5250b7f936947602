package banking

import (
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateCodeVerifier(t *testing.T) {
	v1, err := GenerateCodeVerifier()
	require.NoError(t, err)
	v2, err := GenerateCodeVerifier()
	require.NoError(t, err)

	require.NotEqual(t, v1, v2, "two verifiers should not collide")
	require.GreaterOrEqual(t, len(v1), 43)

	for _, v := range []string{v1, v2} {
		require.False(t, strings.ContainsAny(v, "+/="), "verifier must be URL-safe: %q", v)
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"

	c1 := GenerateCodeChallenge(verifier)
	c2 := GenerateCodeChallenge(verifier)
	require.Equal(t, c1, c2, "challenge must be deterministic")

	digest := sha256.Sum256([]byte(verifier))
	want := base64.RawURLEncoding.EncodeToString(digest[:])
	require.Equal(t, want, c1)

	require.False(t, strings.ContainsAny(c1, "+/="), "challenge must be URL-safe without padding")
}

func TestGenerateState(t *testing.T) {
	s1, err := GenerateState()
	require.NoError(t, err)
	s2, err := GenerateState()
	require.NoError(t, err)
	require.NotEqual(t, s1, s2)
	require.NotEmpty(t, s1)
}
