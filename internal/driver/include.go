package driver

import (
	"fmt"
	"path/filepath"

	"github.com/rlannon/sinc/internal/ast"
)

// includeSet tracks files currently being processed (for cycle
// detection) and files already fully processed (so a diamond include
// is only read once).
type includeSet struct {
	inProgress map[string]bool
	done       map[string]bool
}

func newIncludeSet() *includeSet {
	return &includeSet{inProgress: map[string]bool{}, done: map[string]bool{}}
}

// loadWithIncludes parses path and recursively expands any Include
// statements found at global scope, depth-first, in source order.
// Every statement of an included file is spliced in place of its
// Include, with nothing filtered out, and the statement compiler
// compiles them like the includer's own statements, extern or not.
func loadWithIncludes(p Parser, path string, set *includeSet) ([]ast.Stmt, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if set.inProgress[abs] {
		return nil, fmt.Errorf("include cycle detected at %s", path)
	}
	if set.done[abs] {
		return nil, nil
	}

	set.inProgress[abs] = true
	defer delete(set.inProgress, abs)

	stmts, err := p.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	var out []ast.Stmt
	for i, s := range stmts {
		inc, ok := s.(*ast.Include)
		if !ok {
			out = append(out, s)
			continue
		}
		if i != 0 && !allIncludesSoFar(stmts[:i]) {
			return nil, fmt.Errorf("%s: include must appear before any other statement", path)
		}
		incPath := resolveIncludePath(path, inc.Path)
		nested, err := loadWithIncludes(p, incPath, set)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}

	set.done[abs] = true
	return out, nil
}

// allIncludesSoFar reports whether every statement seen before an
// Include is itself an Include, enforcing the global-scope-only,
// leading-position include rule.
func allIncludesSoFar(stmts []ast.Stmt) bool {
	for _, s := range stmts {
		if _, ok := s.(*ast.Include); !ok {
			return false
		}
	}
	return true
}

func resolveIncludePath(fromFile, includePath string) string {
	if filepath.IsAbs(includePath) {
		return includePath
	}
	return filepath.Join(filepath.Dir(fromFile), includePath)
}
