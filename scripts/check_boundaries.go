package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/modfile"
)

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// rules holds the import prefixes derived from the module path in go.mod.
type rules struct {
	modulePath string
}

func main() {
	raw, err := os.ReadFile("go.mod")
	if err != nil {
		fmt.Fprintf(os.Stderr, "read go.mod: %v\n", err)
		os.Exit(2)
	}
	modulePath := modfile.ModulePath(raw)
	if modulePath == "" {
		fmt.Fprintln(os.Stderr, "go.mod has no module directive")
		os.Exit(2)
	}

	violations := rules{modulePath: modulePath}.collect("contexts")
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File == violations[j].File {
			if violations[i].Line == violations[j].Line {
				return violations[i].Import < violations[j].Import
			}
			return violations[i].Line < violations[j].Line
		}
		return violations[i].File < violations[j].File
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func (r rules) collect(root string) []violation {
	var violations []violation

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		normalized := filepath.ToSlash(path)
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return nil
		}

		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", r.modulePath, parts[1], parts[2])
		violations = append(violations, r.validateFile(path, normalized, parts[3], servicePrefix)...)
		return nil
	})

	return violations
}

func (r rules) validateFile(path string, normalizedPath string, layer string, servicePrefix string) []violation {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return []violation{{File: normalizedPath, Line: 1, Rule: "file must parse"}}
	}

	var violations []violation
	add := func(line int, importPath string, rule string) {
		violations = append(violations, violation{File: normalizedPath, Line: line, Import: importPath, Rule: rule})
	}

	for _, imp := range file.Imports {
		importPath := strings.Trim(imp.Path.Value, "\"")
		line := fset.Position(imp.Pos()).Line

		if hasPrefix(importPath, r.modulePath+"/contexts") && !hasPrefix(importPath, servicePrefix) {
			add(line, importPath, "cross-service imports are forbidden")
		}

		switch layer {
		case "domain":
			if strings.Contains(importPath, "/adapters/") {
				add(line, importPath, "domain must not import adapters")
			}
			if r.isInfrastructure(importPath) {
				add(line, importPath, "domain must not import runtime infrastructure")
			}
			if !r.isStdlib(importPath) && !isAllowed(importPath, []string{servicePrefix + "/domain"}) {
				add(line, importPath, "domain import is outside explicit allowlist")
			}
		case "application":
			if strings.Contains(importPath, "/adapters/") || strings.Contains(importPath, "/transport/") {
				add(line, importPath, "application must not import adapters or transport")
			}
			if r.isInfrastructure(importPath) {
				add(line, importPath, "application must not import runtime infrastructure")
			}
			allowed := []string{
				servicePrefix + "/application",
				servicePrefix + "/domain",
				servicePrefix + "/ports",
				r.modulePath + "/contracts",
			}
			if !r.isStdlib(importPath) && !isAllowed(importPath, allowed) {
				add(line, importPath, "application import is outside explicit allowlist")
			}
		case "ports":
			allowed := []string{servicePrefix + "/domain", r.modulePath + "/contracts"}
			if !r.isStdlib(importPath) && !isAllowed(importPath, allowed) {
				add(line, importPath, "ports may only reference domain types and contracts")
			}
		case "transport":
			if r.isInfrastructure(importPath) || strings.Contains(importPath, "/adapters/") {
				add(line, importPath, "transport DTOs must stay free of adapters and infrastructure")
			}
		}
	}

	return violations
}

func (r rules) isInfrastructure(importPath string) bool {
	return hasPrefix(importPath, r.modulePath+"/internal") || hasPrefix(importPath, r.modulePath+"/cmd")
}

func (r rules) isStdlib(importPath string) bool {
	if hasPrefix(importPath, r.modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isAllowed(importPath string, allowedPrefixes []string) bool {
	for _, p := range allowedPrefixes {
		if hasPrefix(importPath, p) {
			return true
		}
	}
	return false
}
