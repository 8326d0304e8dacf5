package signature_test

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/arquent-run/arquent/pkg/canonicalize"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
	"github.com/arquent-run/arquent/pkg/signature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedKeyPair(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(ed25519.PublicKey), priv
}

// TestVerifyEd25519_P5 is property P5: a signature produced over
// digest_hex(canonical(M), flow, h) with key K verifies against K's public
// key, and any single-byte change to M, flow, or h breaks verification.
func TestVerifyEd25519_P5(t *testing.T) {
	pub, priv := fixedKeyPair(t)
	pubB64 := base64.StdEncoding.EncodeToString(pub)

	manifestJSON := []byte(`{"id":"recipe-x","signature":null,"risk_level":"Standard"}`)
	flowBytes := []byte(`{"trigger":{"trigger_type":"manual"},"actions":[]}`)
	assetsHash := "abc123"

	canonical, err := canonicalize.CanonicalizeManifestForDigest(manifestJSON)
	require.NoError(t, err)

	digest := signature.PackageDigestHex(canonical, flowBytes, assetsHash)
	sigB64 := signature.Sign(priv, digest)

	assert.Nil(t, signature.VerifyEd25519(pubB64, sigB64, digest))

	tamperedFlow := []byte(`{"trigger":{"trigger_type":"manual"},"actions":[{}]}`)
	tamperedDigest := signature.PackageDigestHex(canonical, tamperedFlow, assetsHash)
	err2 := signature.VerifyEd25519(pubB64, sigB64, tamperedDigest)
	if assert.NotNil(t, err2) {
		assert.Equal(t, runtimeerr.KindSignatureInvalid, err2.Kind)
	}

	tamperedHashDigest := signature.PackageDigestHex(canonical, flowBytes, "zzz999")
	err3 := signature.VerifyEd25519(pubB64, sigB64, tamperedHashDigest)
	assert.NotNil(t, err3)
}

// TestCanonicalize_P6_Idempotent is property P6: canonicalizing an already
// canonical document reproduces it byte for byte.
func TestCanonicalize_P6_Idempotent(t *testing.T) {
	first, err := canonicalize.JCS(map[string]interface{}{"b": 1, "a": "x"})
	require.NoError(t, err)

	var reDecoded interface{}
	require.NoError(t, json.Unmarshal(first, &reDecoded))

	second, err := canonicalize.JCS(reDecoded)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

// TestCanonicalizeManifestForDigest_S6 is scenario S6: canonicalizing a
// manifest forces signature to null regardless of its original value, and a
// signature computed over that canonical digest verifies even though the
// original on-disk manifest still carries the old signature string.
func TestCanonicalizeManifestForDigest_S6(t *testing.T) {
	pub, priv := fixedKeyPair(t)
	pubB64 := base64.StdEncoding.EncodeToString(pub)

	manifestJSON := []byte(`{"id":"x","signature":"stale-signature-value","risk_level":"Standard"}`)
	canonical, err := canonicalize.CanonicalizeManifestForDigest(manifestJSON)
	require.NoError(t, err)
	assert.Contains(t, string(canonical), `"signature":null`)
	assert.NotContains(t, string(canonical), "stale-signature-value")

	flowBytes := []byte(`{}`)
	digest := signature.PackageDigestHex(canonical, flowBytes, "h")
	sigB64 := signature.Sign(priv, digest)

	err2 := signature.VerifyRecipePackageSignature(manifestJSON, flowBytes, "h", pubB64, sigB64)
	assert.Nil(t, err2)
}
