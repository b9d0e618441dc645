package bridge

import "errors"

var (
	// ErrMissingMemory is returned when the module exports no linear
	// memory named "memory".
	ErrMissingMemory = errors.New("module does not export a memory named \"memory\"")
	// ErrMissingEntrypoint is returned when the module exports no
	// process(i32,i32)->i32 function.
	ErrMissingEntrypoint = errors.New("module does not export a process(i32,i32)->i32 function")
	// ErrUnknownOutputClass is returned when the registry has no class
	// named "Output".
	ErrUnknownOutputClass = errors.New("registry has no class named \"Output\"")
	// ErrOutOfBounds is returned when decoding would read outside the
	// module's linear memory.
	ErrOutOfBounds = errors.New("out-of-bounds memory read")
	// ErrNullArrayData is returned when an Array<T> header's data
	// pointer is null.
	ErrNullArrayData = errors.New("array data pointer is null")
	// ErrUnresolvedClass is returned when an Array<UserClass> element
	// type names a class absent from the registry. Bare class-typed
	// fields are kept as raw pointers and never looked up.
	ErrUnresolvedClass = errors.New("unresolved class reference")
	// ErrUnsupportedImportKind is returned for table and global
	// imports. spec.md §4.3.1 calls for fabricating a table of null
	// references for table imports, and §9 allows either installing a
	// fabricated global or rejecting the module outright for global
	// imports; wazero's HostModuleBuilder (pinned at v1.7.3) exposes
	// ExportMemory/ExportMemoryWithMax but no table- or global-export
	// method, so there is no way to install either through the
	// supported API. Rather than reach past the library with an
	// unsupported extern construction, both kinds take the explicit
	// rejection path §9 sanctions for globals.
	ErrUnsupportedImportKind = errors.New("import kind not supported by the stub synthesizer")
)
