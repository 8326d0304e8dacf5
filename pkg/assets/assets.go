// Package assets resolves the assets_manifest_hash input that feeds
// pkg/signature's package digest: the hash of whatever asset bundle a
// recipe package ships (icons, bundled scripts, templates) alongside its
// manifest and flow.
package assets

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// AssetManifestHasher resolves the raw bytes of a recipe package's asset
// bundle and returns their lowercase-hex SHA-256 hash, in the same form
// pkg/signature.PackageDigestHex expects for its ASCII assets_manifest_hash
// input.
type AssetManifestHasher interface {
	Hash(ctx context.Context, ref string) (string, error)
}

// LocalHasher hashes a bundle already resolved to bytes (e.g. read from a
// local .zip sitting next to the manifest during `arquent install`).
type LocalHasher struct{}

func (LocalHasher) HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// streamHash hashes r without buffering the whole object in memory, shared
// by the S3 and GCS hashers below.
func streamHash(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash asset bundle: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
