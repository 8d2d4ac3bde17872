package jsondoc

import (
	stdjson "encoding/json"
	"testing"
)

func TestParseJSON(t *testing.T) {
	out, err := (Parser{}).Parse("child.json", []byte("  {\"type\":\"string\"}\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if string(out) != `{"type":"string"}` {
		t.Fatalf("unexpected output: %s", string(out))
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	tests := []string{"", "{", `{"a":1} {"b":2}`, "not json"}
	for _, input := range tests {
		if _, err := (Parser{}).Parse("child.json", []byte(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestParseYAML(t *testing.T) {
	input := []byte("type: object\nrequired:\n  - foo\nproperties:\n  foo:\n    type: string\n")
	out, err := (Parser{}).Parse("schema.YAML", input)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	expected := `{"properties":{"foo":{"type":"string"}},"required":["foo"],"type":"object"}`
	if string(out) != expected {
		t.Fatalf("expected %s, got %s", expected, string(out))
	}
}

func TestParseRejectsEmptyYAML(t *testing.T) {
	if _, err := (Parser{}).Parse("schema.yml", []byte("\n")); err == nil {
		t.Fatalf("expected error for empty yaml")
	}
}

func TestDecode(t *testing.T) {
	value, err := (Decoder{}).Decode([]byte(`{"foo":"bar","n":2}`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	obj, ok := value.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", value)
	}
	if obj["foo"] != "bar" {
		t.Fatalf("unexpected foo: %v", obj["foo"])
	}
	if obj["n"] != stdjson.Number("2") {
		t.Fatalf("unexpected n: %v (%T)", obj["n"], obj["n"])
	}
}

func TestDecodeScalarsAndErrors(t *testing.T) {
	if value, err := (Decoder{}).Decode([]byte(`"text"`)); err != nil || value != "text" {
		t.Fatalf("expected string scalar, got %v (%v)", value, err)
	}
	if value, err := (Decoder{}).Decode([]byte(`null`)); err != nil || value != nil {
		t.Fatalf("expected null, got %v (%v)", value, err)
	}
	for _, input := range []string{`{"foo":`, `{"a":1}}`, `[1,]`, `{'a':1}`, `1 2`, `{"a":1} {}`} {
		if _, err := (Decoder{}).Decode([]byte(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestDecodeKeepsNumberText(t *testing.T) {
	tests := []struct {
		input string
		want  stdjson.Number
	}{
		{input: `{"n":9007199254740993}`, want: "9007199254740993"},
		{input: `{"n":-0.1e-7}`, want: "-0.1e-7"},
		{input: `{"n":1,"n":12345678901234567890}`, want: "12345678901234567890"},
	}

	for _, tt := range tests {
		value, err := (Decoder{}).Decode([]byte(tt.input))
		if err != nil {
			t.Fatalf("Decode(%s) returned error: %v", tt.input, err)
		}
		obj := value.(map[string]any)
		if obj["n"] != tt.want {
			t.Fatalf("Decode(%s): expected %s, got %v (%T)", tt.input, tt.want, obj["n"], obj["n"])
		}
	}
}

func TestDecodeNestedValues(t *testing.T) {
	value, err := (Decoder{}).Decode([]byte(`{"list":[true,null,"x",[]],"obj":{}}`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	obj := value.(map[string]any)
	list, ok := obj["list"].([]any)
	if !ok || len(list) != 4 {
		t.Fatalf("unexpected list %#v", obj["list"])
	}
	if list[0] != true || list[1] != nil || list[2] != "x" {
		t.Fatalf("unexpected list items %#v", list)
	}
	if inner, ok := list[3].([]any); !ok || len(inner) != 0 {
		t.Fatalf("expected empty array, got %#v", list[3])
	}
	if inner, ok := obj["obj"].(map[string]any); !ok || len(inner) != 0 {
		t.Fatalf("expected empty object, got %#v", obj["obj"])
	}
}
