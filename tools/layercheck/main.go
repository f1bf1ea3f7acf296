// Package main implements an import layering linter.
//
// It scans Go source files under pkg/ and ensures every package only
// imports the module packages below it: corpus and config at the
// bottom, the pipeline stages above, build on top.
//
// Usage:
//
//	go run tools/layercheck/main.go [-root <project-root>]
package main

import (
	"flag"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

const modulePrefix = "github.com/datenoio/internacia-db/pkg/"

// allowed lists the module packages each pkg/ package may import.
// Test files are exempt; a package missing from the table fails the
// check so new packages get placed deliberately.
var allowed = map[string][]string{
	"corpus":    {},
	"config":    {},
	"dataset":   {"corpus"},
	"loader":    {"corpus"},
	"schema":    {"corpus"},
	"normalize": {"corpus", "dataset"},
	"emit":      {"corpus", "dataset"},
	"build":     {"corpus", "dataset", "emit", "loader", "normalize", "schema"},
}

func main() {
	root := flag.String("root", ".", "Project root directory")
	flag.Parse()

	pkgDir := filepath.Join(*root, "pkg")
	if _, err := os.Stat(pkgDir); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "ERROR: %s does not exist\n", pkgDir)
		os.Exit(1)
	}

	violations := 0
	fset := token.NewFileSet()

	err := filepath.Walk(pkgDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "testdata" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		rel, _ := filepath.Rel(pkgDir, path)
		pkgName := strings.Split(filepath.ToSlash(rel), "/")[0]
		deps, known := allowed[pkgName]
		if !known {
			fmt.Printf("LAYER VIOLATION: pkg/%s is not in the layer table\n", pkgName)
			violations++
			return filepath.SkipDir
		}

		f, parseErr := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if parseErr != nil {
			fmt.Fprintf(os.Stderr, "WARN: parse error in %s: %v\n", path, parseErr)
			return nil
		}

		for _, imp := range f.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if !strings.HasPrefix(importPath, modulePrefix) {
				continue
			}
			target := strings.TrimPrefix(importPath, modulePrefix)
			if target == pkgName || contains(deps, target) {
				continue
			}
			pos := fset.Position(imp.Pos())
			relPath, _ := filepath.Rel(*root, pos.Filename)
			fmt.Printf("LAYER VIOLATION: %s:%d imports %q (pkg/%s may only use %v)\n",
				relPath, pos.Line, importPath, pkgName, deps)
			violations++
		}
		return nil
	})

	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: walk failed: %v\n", err)
		os.Exit(1)
	}

	if violations > 0 {
		fmt.Printf("\n❌ %d layering violation(s) found\n", violations)
		os.Exit(1)
	}

	fmt.Println("✅ layering check passed — pipeline stages only import downward")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
