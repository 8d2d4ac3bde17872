package canonicaljson

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

type Canonicalizer struct{}

func (Canonicalizer) Canonicalize(ctx context.Context, input []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	value := jsontext.Value(append([]byte(nil), input...))
	if err := value.Canonicalize(); err != nil {
		return nil, fmt.Errorf("canonicalize json: %w", err)
	}

	return []byte(value), nil
}

// Digest returns "sha256:<hex>" over the canonical form of input, so that
// formatting-only edits to a schema keep the same digest.
func (c Canonicalizer) Digest(ctx context.Context, input []byte) (string, error) {
	canonical, err := c.Canonicalize(ctx, input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return "sha256:" + hex.EncodeToString(sum[:]), nil
}
