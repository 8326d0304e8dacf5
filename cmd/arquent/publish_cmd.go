package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arquent-run/arquent/pkg/canonicalize"
	"github.com/arquent-run/arquent/pkg/manifest"
	"github.com/arquent-run/arquent/pkg/publish"
	"github.com/arquent-run/arquent/pkg/signature"
)

func runPublishCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("publish", flag.ContinueOnError)
	fs.SetOutput(stderr)
	recipePath := fs.String("recipe", "", "path to a recipe package (JSON or YAML)")
	publicMarketplace := fs.Bool("public", false, "validate against public-marketplace policy")
	signWith := fs.String("sign-with", "", "path to a base64-encoded Ed25519 private key to sign the package")
	assetsHash := fs.String("assets-manifest-hash", "", "precomputed assets manifest hash (see pkg/assets)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *recipePath == "" {
		fmt.Fprintln(stderr, "publish: --recipe is required")
		return 2
	}

	data, err := os.ReadFile(*recipePath)
	if err != nil {
		fmt.Fprintf(stderr, "publish: reading recipe: %v\n", err)
		return 1
	}
	recipe, err := manifest.LoadRecipeModel(data)
	if err != nil {
		fmt.Fprintf(stderr, "publish: parsing recipe: %v\n", err)
		return 1
	}

	if *signWith != "" {
		keyBytes, err := os.ReadFile(*signWith)
		if err != nil {
			fmt.Fprintf(stderr, "publish: reading signing key: %v\n", err)
			return 1
		}
		priv, err := decodeEd25519PrivateKey(string(keyBytes))
		if err != nil {
			fmt.Fprintf(stderr, "publish: decoding signing key: %v\n", err)
			return 1
		}

		manifestJSON, err := json.Marshal(recipe.Manifest)
		if err != nil {
			fmt.Fprintf(stderr, "publish: marshaling manifest: %v\n", err)
			return 1
		}
		canonical, err := canonicalize.CanonicalizeManifestForDigest(manifestJSON)
		if err != nil {
			fmt.Fprintf(stderr, "publish: canonicalizing manifest: %v\n", err)
			return 1
		}
		flowBytes, err := json.Marshal(recipe.Flow)
		if err != nil {
			fmt.Fprintf(stderr, "publish: marshaling flow: %v\n", err)
			return 1
		}
		digest := signature.PackageDigestHex(canonical, flowBytes, *assetsHash)
		sig := signature.Sign(priv, digest)
		recipe.Manifest.Signature = &sig
		fmt.Fprintf(stdout, "signed package digest %s\n", digest)
	}

	if rerr := publish.ValidatePublishPolicy(recipe.Manifest, *publicMarketplace); rerr != nil {
		fmt.Fprintf(stderr, "publish: rejected: %s\n", rerr.Error())
		return 1
	}

	out, err := json.MarshalIndent(recipe, "", "  ")
	if err != nil {
		fmt.Fprintf(stderr, "publish: marshaling package: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, string(out))
	return 0
}

// decodeEd25519PrivateKey parses a base64-standard-encoded 64-byte
// ed25519 private key, the same encoding signature.Sign/VerifyEd25519 use
// for public keys and signatures.
func decodeEd25519PrivateKey(encoded string) (ed25519.PrivateKey, error) {
	raw, err := base64.StdEncoding.DecodeString(trimNewline(encoded))
	if err != nil {
		return nil, err
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("expected %d byte private key, got %d", ed25519.PrivateKeySize, len(raw))
	}
	return ed25519.PrivateKey(raw), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
