package abi

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Regexes mirror, construct for construct, the line-oriented patterns
// used by the reference extractor (see original_source/src/core/abi_parser.rs).
// They are deliberately weak: no multi-line signatures, no nested
// braces. A recursive-descent replacement must keep producing
// byte-identical ABI output for any input these patterns accept
// (spec.md §9).
var (
	typeToken = `\w+|Array<\w+>|[\w<>]+`

	funcRe       = regexp.MustCompile(`^export\s+function\s+(\w+)\s*\((.*?)\)\s*:\s*(` + typeToken + `)\s*\{`)
	classOpenRe  = regexp.MustCompile(`^class\s+(\w+)\s*\{`)
	classFieldRe = regexp.MustCompile(`^(\w+)\s*:\s*(` + typeToken + `)\s*;`)
	constructRe  = regexp.MustCompile(`^constructor\s*\((.*?)\)\s*\{`)
	methodRe     = regexp.MustCompile(`^(\w+)\s*\((.*?)\)\s*:\s*(` + typeToken + `)\s*\{`)
	paramRe      = regexp.MustCompile(`^(public\s+)?(\w+)\s*:\s*(` + typeToken + `)`)
	varRe        = regexp.MustCompile(`^export\s+const\s+(\w+)\s*:\s*(` + typeToken + `)\s*=\s*[^;]+;`)
	docRe        = regexp.MustCompile(`^/\*\*\s*(.*?)\s*\*/`)
)

// ExtractOptions configures ExtractFile / Extract.
type ExtractOptions struct {
	// ModuleName, if set, is stamped into Header.Name.
	ModuleName *string
}

// ExtractFile validates the input/output paths (spec.md §4.1 step 1),
// drives the compiler, computes the module hash, scans the source,
// and returns the resulting Descriptor. It does not write the output
// file; callers that want the on-disk artifact marshal and write it
// themselves (as the generate command does), so that validation
// failures never leave a half-written descriptor on disk (spec.md
// §4.1 "Fallibility").
func ExtractFile(inputPath, outputPath string, copts CompilerOptions, eopts ExtractOptions) (*Descriptor, error) {
	if filepath.Ext(inputPath) != ".ts" {
		return nil, ErrBadInputExtension
	}
	if filepath.Ext(outputPath) != ".json" {
		return nil, ErrBadOutputExtension
	}

	wasmOutput := strings.TrimSuffix(inputPath, ".ts") + ".wasm"
	if err := Compile(copts, inputPath, wasmOutput); err != nil {
		return nil, err
	}

	moduleBytes, err := os.ReadFile(wasmOutput)
	if err != nil {
		return nil, err
	}

	src, err := os.Open(inputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	desc, err := Extract(src)
	if err != nil {
		return nil, err
	}

	desc.Header = Header{Name: eopts.ModuleName, Hash: HeaderHash(moduleBytes)}

	imports, err := ReadImportSection(moduleBytes)
	if err != nil {
		return nil, err
	}
	desc.Imports = imports

	return desc, nil
}

// Extract scans AssemblyScript-like source text and returns the
// functions, classes, and variables it recognizes. The header and
// imports fields are left zero-valued; ExtractFile fills them in from
// the compiled module.
func Extract(r io.Reader) (*Descriptor, error) {
	desc := &Descriptor{}

	var currentClass *Class
	var lastDoc *string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := docRe.FindStringSubmatch(line); m != nil {
			doc := strings.TrimSpace(m[1])
			lastDoc = &doc
			continue
		}

		if m := varRe.FindStringSubmatch(line); m != nil {
			name, typ := m[1], m[2]
			desc.Variables = append(desc.Variables, Variable{
				Name:     name,
				Type:     typ,
				Doc:      lastDoc,
				Selector: Selector(name, nil),
			})
			lastDoc = nil
			continue
		}

		if m := funcRe.FindStringSubmatch(line); m != nil {
			name, paramsStr, result := m[1], strings.TrimSpace(m[2]), m[3]
			params := parseParams(paramsStr)
			desc.Functions = append(desc.Functions, Function{
				Name:     name,
				Params:   params,
				Result:   result,
				Doc:      lastDoc,
				Selector: Selector(name, ParamNames(params)),
			})
			lastDoc = nil
			continue
		}

		if m := classOpenRe.FindStringSubmatch(line); m != nil {
			name := m[1]
			currentClass = &Class{
				ClassSelector: Selector(name, nil),
				Name:          name,
				Doc:           lastDoc,
			}
			lastDoc = nil
			continue
		}

		if currentClass != nil {
			if m := constructRe.FindStringSubmatch(line); m != nil {
				for _, p := range splitParams(m[1]) {
					pm := paramRe.FindStringSubmatch(p)
					if pm == nil || pm[1] == "" { // only public-qualified params become fields
						continue
					}
					currentClass.Fields = append(currentClass.Fields, Field{Name: pm[2], Type: pm[3]})
				}
				continue
			}

			if m := classFieldRe.FindStringSubmatch(line); m != nil {
				currentClass.Fields = append(currentClass.Fields, Field{Name: m[1], Type: m[2]})
				continue
			}

			if m := methodRe.FindStringSubmatch(line); m != nil {
				name, paramsStr, result := m[1], strings.TrimSpace(m[2]), m[3]
				params := parseParams(paramsStr)
				currentClass.Methods = append(currentClass.Methods, Function{
					Name:     name,
					Params:   params,
					Result:   result,
					Doc:      lastDoc,
					Selector: Selector(name, ParamNames(params)),
				})
				lastDoc = nil
				continue
			}

			if line == "}" {
				desc.Classes = append(desc.Classes, *currentClass)
				currentClass = nil
				continue
			}
		}

		// Any non-matching, non-empty line drops a pending doc comment.
		lastDoc = nil
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return desc, nil
}

func splitParams(paramsStr string) []string {
	paramsStr = strings.TrimSpace(paramsStr)
	if paramsStr == "" {
		return nil
	}
	raw := strings.Split(paramsStr, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func parseParams(paramsStr string) []Param {
	var params []Param
	for _, p := range splitParams(paramsStr) {
		m := paramRe.FindStringSubmatch(p)
		if m == nil {
			continue
		}
		params = append(params, Param{Name: m[2], Type: m[3]})
	}
	return params
}
