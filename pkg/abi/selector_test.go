package abi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"testing"
)

func TestSelector(t *testing.T) {
	cases := []struct {
		name       string
		fn         string
		paramNames []string
	}{
		{"no params", "getCount", nil},
		{"one param", "add", []string{"a"}},
		{"two params", "add", []string{"a", "b"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Selector(c.fn, c.paramNames)
			if !regexp.MustCompile(`^0x[0-9a-f]{8}$`).MatchString(got) {
				t.Fatalf("selector %q does not match ^0x[0-9a-f]{8}$", got)
			}

			signature := c.fn + "(" + joinNames(c.paramNames) + ")"
			sum := sha256.Sum256([]byte(signature))
			want := "0x" + hex.EncodeToString(sum[:4])
			if got != want {
				t.Fatalf("Selector(%q, %v) = %q, want %q", c.fn, c.paramNames, got, want)
			}
		})
	}
}

func TestSelector_NameCollisionOnParamTypes(t *testing.T) {
	// Two overloads differing only by parameter type collide, since the
	// signature hashes names, not types. This is a documented
	// limitation (spec.md §9), not a bug: assert the collision happens.
	a := Selector("add", ParamNames([]Param{{Name: "a", Type: "i32"}, {Name: "b", Type: "i32"}}))
	b := Selector("add", ParamNames([]Param{{Name: "a", Type: "f64"}, {Name: "b", Type: "f64"}}))
	if a != b {
		t.Fatalf("expected identical selectors for overloads differing only in param types, got %q and %q", a, b)
	}
}

func TestSelector_Deterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		name := fmt.Sprintf("fn%d", i)
		params := []string{fmt.Sprintf("p%d", i)}
		first := Selector(name, params)
		second := Selector(name, params)
		if first != second {
			t.Fatalf("Selector(%q, %v) is not deterministic: %q != %q", name, params, first, second)
		}
	}
}

func TestHeaderHash(t *testing.T) {
	module := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	got := HeaderHash(module)
	if !regexp.MustCompile(`^0x[0-9a-f]{64}$`).MatchString(got) {
		t.Fatalf("header hash %q does not match ^0x[0-9a-f]{64}$", got)
	}
	sum := sha256.Sum256(module)
	want := "0x" + hex.EncodeToString(sum[:])
	if got != want {
		t.Fatalf("HeaderHash = %q, want %q", got, want)
	}
}

func TestParamNames(t *testing.T) {
	params := []Param{{Name: "a", Type: "i32"}, {Name: "b", Type: "f64"}}
	got := ParamNames(params)
	want := []string{"a", "b"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("ParamNames(%v) = %v, want %v", params, got, want)
	}
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ","
		}
		out += n
	}
	return out
}
