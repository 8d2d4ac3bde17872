package jsonpatch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/evanphx/json-patch/v5"
)

type Patcher struct{}

// Apply overlays patch onto doc. A JSON array is treated as an RFC 6902 patch,
// a JSON object as an RFC 7386 merge patch.
func (Patcher) Apply(ctx context.Context, doc, patch []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	patch = bytes.TrimSpace(patch)
	if len(patch) == 0 {
		return nil, fmt.Errorf("decode patch: empty patch")
	}

	if patch[0] == '{' {
		out, err := jsonpatch.MergePatch(doc, patch)
		if err != nil {
			return nil, fmt.Errorf("apply merge patch: %w", err)
		}
		return out, nil
	}

	decoded, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}

	out, err := decoded.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return out, nil
}
