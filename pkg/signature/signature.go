// Package signature implements package-digest computation and Ed25519
// verification over the canonicalized manifest, per §4.6. Keys and
// signatures are base64 (standard alphabet, padded); the digest itself is
// verified over the ASCII bytes of its lowercase-hex string representation,
// a nonstandard convention the spec pins exactly — do not "fix" it to verify
// over the raw digest bytes, it will break interop.
package signature

import (
	"crypto/ed25519"
	"encoding/base64"
	"crypto/sha256"
	"encoding/hex"

	"github.com/arquent-run/arquent/pkg/canonicalize"
	"github.com/arquent-run/arquent/pkg/runtimeerr"
)

// PackageDigestHex computes SHA-256(canonicalManifest || flowBytes ||
// assetsManifestHashASCII) and returns the lowercase hex digest string.
func PackageDigestHex(canonicalManifest, flowBytes []byte, assetsManifestHash string) string {
	h := sha256.New()
	h.Write(canonicalManifest)
	h.Write(flowBytes)
	h.Write([]byte(assetsManifestHash))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyEd25519 base64-decodes pubKeyB64 (32 bytes) and sigB64 (64 bytes)
// and verifies sig over the ASCII bytes of digestHex. Any decode, length, or
// verification failure returns the opaque SignatureInvalid error — no
// sub-codes, so a caller cannot distinguish "bad key" from "bad signature"
// from "wrong digest" (an oracle the spec deliberately closes).
func VerifyEd25519(pubKeyB64, sigB64, digestHex string) *runtimeerr.RuntimeError {
	pubKey, err := base64.StdEncoding.DecodeString(pubKeyB64)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return runtimeerr.SignatureInvalid()
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil || len(sig) != ed25519.SignatureSize {
		return runtimeerr.SignatureInvalid()
	}
	if !ed25519.Verify(ed25519.PublicKey(pubKey), []byte(digestHex), sig) {
		return runtimeerr.SignatureInvalid()
	}
	return nil
}

// VerifyRecipePackageSignature implements invariant I3 end to end: canonicalize
// manifestJSON, compute the package digest, and verify sigB64 against it
// with pubKeyB64.
func VerifyRecipePackageSignature(manifestJSON, flowBytes []byte, assetsManifestHash, pubKeyB64, sigB64 string) *runtimeerr.RuntimeError {
	canonical, err := canonicalize.CanonicalizeManifestForDigest(manifestJSON)
	if err != nil {
		return runtimeerr.Serialization(err.Error())
	}
	digest := PackageDigestHex(canonical, flowBytes, assetsManifestHash)
	return VerifyEd25519(pubKeyB64, sigB64, digest)
}

// Sign produces a base64 Ed25519 signature over the ASCII bytes of
// digestHex, using priv. This is a publish-tooling helper (cmd/arquent
// publish), not part of the runtime verification path.
func Sign(priv ed25519.PrivateKey, digestHex string) string {
	sig := ed25519.Sign(priv, []byte(digestHex))
	return base64.StdEncoding.EncodeToString(sig)
}
