package abi

import "testing"

// buildModule assembles a minimal valid wasm binary with a Type
// section (one func type: () -> i32) and an Import section importing
// a function of that type plus a memory with min=1, max=2.
func buildModule(t *testing.T) []byte {
	t.Helper()

	typeBody := []byte{
		0x01,       // 1 func type
		0x60,       // func form
		0x00,       // 0 params
		0x01, 0x7F, // 1 result: i32
	}
	typeSection := append([]byte{0x01, byte(len(typeBody))}, typeBody...)

	importBody := []byte{0x02} // 2 imports
	importBody = append(importBody, name("env")...)
	importBody = append(importBody, name("stub")...)
	importBody = append(importBody, 0x00, 0x00) // func import, typeidx 0
	importBody = append(importBody, name("env")...)
	importBody = append(importBody, name("memory")...)
	importBody = append(importBody, 0x02)       // memory import
	importBody = append(importBody, 0x01)       // has max
	importBody = append(importBody, 0x01)       // min = 1
	importBody = append(importBody, 0x02)       // max = 2
	importSection := append([]byte{0x02, byte(len(importBody))}, importBody...)

	module := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	module = append(module, typeSection...)
	module = append(module, importSection...)
	return module
}

func name(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func TestReadImportSection(t *testing.T) {
	module := buildModule(t)

	imports, err := ReadImportSection(module)
	if err != nil {
		t.Fatalf("ReadImportSection: %v", err)
	}
	if len(imports) != 2 {
		t.Fatalf("got %d imports, want 2: %+v", len(imports), imports)
	}

	got := imports[0]
	if got.Module != "env" || got.Name != "stub" {
		t.Fatalf("unexpected function import identity: %+v", got)
	}
	if got.Kind.Function == nil {
		t.Fatalf("expected function kind, got %+v", got.Kind)
	}
	if len(got.Kind.Function.Params) != 0 {
		t.Fatalf("params = %v, want none", got.Kind.Function.Params)
	}
	if got.Kind.Function.Result == nil || *got.Kind.Function.Result != "i32" {
		t.Fatalf("result = %v, want i32", got.Kind.Function.Result)
	}

	if imports[1].Module != "env" || imports[1].Name != "memory" {
		t.Fatalf("unexpected memory import: %+v", imports[1])
	}
	if imports[1].Kind.Memory == nil {
		t.Fatalf("expected memory kind, got %+v", imports[1].Kind)
	}
	if imports[1].Kind.Memory.Min != 1 {
		t.Fatalf("memory min = %d, want 1", imports[1].Kind.Memory.Min)
	}
	if imports[1].Kind.Memory.Max == nil || *imports[1].Kind.Memory.Max != 2 {
		t.Fatalf("memory max = %v, want 2", imports[1].Kind.Memory.Max)
	}
}

func TestReadImportSection_BadMagic(t *testing.T) {
	if _, err := ReadImportSection([]byte("not a wasm module")); err != ErrBadMagic {
		t.Fatalf("err = %v, want ErrBadMagic", err)
	}
}
