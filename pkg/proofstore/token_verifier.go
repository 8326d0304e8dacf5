package proofstore

import "github.com/golang-jwt/jwt/v5"

// TokenVerifier optionally hardens the runtime-proof payload's token.id
// field: the spec only requires token.id to be non-empty (an opaque
// identifier is valid), but a host that issues JWTs for its confirmation
// tokens can call Verify to reject a forged or expired token.id. Payload
// parsing and the stores in this package do not call it.
type TokenVerifier struct {
	keyFunc jwt.Keyfunc
}

func NewTokenVerifier(keyFunc jwt.Keyfunc) *TokenVerifier {
	return &TokenVerifier{keyFunc: keyFunc}
}

// Verify returns true for an opaque (non-JWT-shaped) token.id, and for a
// JWT-shaped one only if it parses and validates against keyFunc.
func (v *TokenVerifier) Verify(tokenID string) bool {
	if v == nil || v.keyFunc == nil {
		return true
	}
	if !looksLikeJWT(tokenID) {
		return true
	}
	token, err := jwt.Parse(tokenID, v.keyFunc)
	return err == nil && token.Valid
}

func looksLikeJWT(s string) bool {
	dots := 0
	for _, r := range s {
		if r == '.' {
			dots++
		}
	}
	return dots == 2
}
