package jsonpatch

import (
	"context"
	"strings"
	"testing"
)

func TestApplyPatch(t *testing.T) {
	doc := []byte(`{"type":"object","required":["foo"]}`)
	patch := []byte(`[{"op":"add","path":"/additionalProperties","value":false}]`)

	out, err := (Patcher{}).Apply(context.Background(), doc, patch)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if !strings.Contains(string(out), `"additionalProperties":false`) {
		t.Fatalf("unexpected output: %s", string(out))
	}
}

func TestApplyMergePatch(t *testing.T) {
	doc := []byte(`{"type":"object","properties":{"foo":{"type":"string"},"bar":{"type":"number"}}}`)
	patch := []byte(`{"properties":{"bar":null,"foo":{"minLength":2}}}`)

	out, err := (Patcher{}).Apply(context.Background(), doc, patch)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if strings.Contains(string(out), `"bar"`) {
		t.Fatalf("expected bar to be removed: %s", string(out))
	}
	if !strings.Contains(string(out), `"minLength":2`) {
		t.Fatalf("expected minLength to be merged: %s", string(out))
	}
}

func TestApplyRejectsBadPatch(t *testing.T) {
	doc := []byte(`{"type":"object"}`)
	tests := []string{"", `[{"op":"remove","path":"/missing"}]`, `[{"op":"explode"}]`, `"nope"`}
	for _, patch := range tests {
		if _, err := (Patcher{}).Apply(context.Background(), doc, []byte(patch)); err == nil {
			t.Fatalf("expected error for patch %q", patch)
		}
	}
}
