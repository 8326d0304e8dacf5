package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// StateEncryptor derives a per-recipe AES-256-GCM key from a master secret
// via HKDF-SHA256 (info = recipe id) and uses it to seal state_kv values at
// rest, so a leaked database dump doesn't expose automation state in the
// clear. A zero-value StateEncryptor (nil masterSecret) is a passthrough —
// encryption is opt-in, not load-bearing for the spec's own semantics.
type StateEncryptor struct {
	masterSecret []byte
}

func NewStateEncryptor(masterSecret []byte) *StateEncryptor {
	return &StateEncryptor{masterSecret: masterSecret}
}

func (e *StateEncryptor) deriveKey(recipeID string) ([]byte, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, e.masterSecret, nil, []byte(recipeID))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("derive state key: %w", err)
	}
	return key, nil
}

// Seal encrypts value for recipeID. Returns value unchanged if no master
// secret is configured.
func (e *StateEncryptor) Seal(recipeID string, value json.RawMessage) (json.RawMessage, error) {
	if len(e.masterSecret) == 0 {
		return value, nil
	}
	key, err := e.deriveKey(recipeID)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	sealed := gcm.Seal(nonce, nonce, value, nil)
	return json.Marshal(map[string]string{"sealed": hex.EncodeToString(sealed)})
}

// Open reverses Seal. Returns stored unchanged if no master secret is
// configured, or if stored isn't a sealed envelope (legacy plaintext rows).
func (e *StateEncryptor) Open(recipeID string, stored json.RawMessage) (json.RawMessage, error) {
	if len(e.masterSecret) == 0 {
		return stored, nil
	}
	var envelope struct {
		Sealed string `json:"sealed"`
	}
	if err := json.Unmarshal(stored, &envelope); err != nil || envelope.Sealed == "" {
		return stored, nil
	}
	key, err := e.deriveKey(recipeID)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	raw, err := hex.DecodeString(envelope.Sealed)
	if err != nil {
		return nil, err
	}
	if len(raw) < gcm.NonceSize() {
		return nil, fmt.Errorf("sealed state too short")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
