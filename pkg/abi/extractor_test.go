package abi

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleSource = `
/** Adds two integers. */
export function add(a: i32, b: i32): i32 {
  return a + b;
}

export const MAX_SIZE: i32 = 1024;

/** A crypto price point. */
class CryptoValue {
  constructor(public usd: f32, internal: i32) {
  }

  magnitude(): f32 {
    return this.usd;
  }
}

export function noop(): void {
}
`

func TestExtract(t *testing.T) {
	desc, err := Extract(strings.NewReader(sampleSource))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(desc.Functions) != 2 {
		t.Fatalf("got %d functions, want 2: %+v", len(desc.Functions), desc.Functions)
	}

	add := desc.Functions[0]
	if add.Name != "add" {
		t.Fatalf("first function = %q, want add", add.Name)
	}
	if add.Doc == nil || *add.Doc != "Adds two integers." {
		t.Fatalf("add.Doc = %v, want %q", add.Doc, "Adds two integers.")
	}
	wantParams := []Param{{Name: "a", Type: "i32"}, {Name: "b", Type: "i32"}}
	if diff := cmp.Diff(wantParams, add.Params); diff != "" {
		t.Fatalf("add.Params mismatch (-want +got):\n%s", diff)
	}
	if add.Selector != Selector("add", []string{"a", "b"}) {
		t.Fatalf("add.Selector = %q, want computed selector", add.Selector)
	}

	if len(desc.Variables) != 1 || desc.Variables[0].Name != "MAX_SIZE" {
		t.Fatalf("variables = %+v, want one MAX_SIZE entry", desc.Variables)
	}

	if len(desc.Classes) != 1 {
		t.Fatalf("got %d classes, want 1", len(desc.Classes))
	}
	cls := desc.Classes[0]
	if cls.Name != "CryptoValue" {
		t.Fatalf("class name = %q, want CryptoValue", cls.Name)
	}
	if cls.Doc == nil || *cls.Doc != "A crypto price point." {
		t.Fatalf("class doc = %v", cls.Doc)
	}
	// Only the public constructor parameter becomes a field.
	wantFields := []Field{{Name: "usd", Type: "f32"}}
	if diff := cmp.Diff(wantFields, cls.Fields); diff != "" {
		t.Fatalf("class fields mismatch (-want +got):\n%s", diff)
	}
	if len(cls.Methods) != 1 || cls.Methods[0].Name != "magnitude" {
		t.Fatalf("class methods = %+v, want one magnitude method", cls.Methods)
	}
}

func TestExtract_NonMatchingLineClearsPendingDoc(t *testing.T) {
	src := `
/** This doc should not attach to add. */
const unrelated = 1;
export function add(a: i32): i32 {
  return a;
}
`
	desc, err := Extract(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(desc.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(desc.Functions))
	}
	if desc.Functions[0].Doc != nil {
		t.Fatalf("expected nil doc after an intervening non-matching line, got %v", desc.Functions[0].Doc)
	}
}

func TestExtract_EmptyParamListSelector(t *testing.T) {
	desc, err := Extract(strings.NewReader("export function ping(): i32 {\n}\n"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(desc.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(desc.Functions))
	}
	want := Selector("ping", nil)
	if desc.Functions[0].Selector != want {
		t.Fatalf("selector = %q, want %q", desc.Functions[0].Selector, want)
	}
}
