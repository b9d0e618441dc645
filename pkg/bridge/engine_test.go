package bridge

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero/api"
)

func TestStubFunction_ZerosResultSlots(t *testing.T) {
	fn := stubFunction([]api.ValueType{api.ValueTypeI32, api.ValueTypeF64})
	stack := []uint64{0xdeadbeef, 0xcafebabe}
	fn(context.Background(), nil, stack)
	if stack[0] != 0 || stack[1] != 0 {
		t.Fatalf("stack = %v, want all zero", stack)
	}
}

func TestStubFunction_NoResultsIsNoop(t *testing.T) {
	fn := stubFunction(nil)
	stack := []uint64{1, 2, 3}
	fn(context.Background(), nil, stack)
	if stack[0] != 1 || stack[1] != 2 || stack[2] != 3 {
		t.Fatalf("stack = %v, want unchanged (no results declared)", stack)
	}
}

func TestValType(t *testing.T) {
	cases := map[string]api.ValueType{
		"i32":     api.ValueTypeI32,
		"i64":     api.ValueTypeI64,
		"f32":     api.ValueTypeF32,
		"f64":     api.ValueTypeF64,
		"unknown": api.ValueTypeI32,
	}
	for name, want := range cases {
		if got := valType(name); got != want {
			t.Fatalf("valType(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestValTypes(t *testing.T) {
	got := valTypes([]string{"i32", "f64"})
	if len(got) != 2 || got[0] != api.ValueTypeI32 || got[1] != api.ValueTypeF64 {
		t.Fatalf("valTypes = %v", got)
	}
}
