package driver

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/rlannon/sinc/internal/ast"
)

// lineParser is a throwaway stand-in for the real lexer/parser, used
// only to drive loadWithIncludes in tests. Each source line is either
// `include <path>` or `alloc <name>`; anything else is ignored. Real
// fixtures live as txtar archives and are materialized to a temp dir,
// the same way the toolchain's own script tests stage multi-file input.
type lineParser struct{}

func (lineParser) ParseFile(path string) ([]ast.Stmt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []ast.Stmt
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		switch fields[0] {
		case "include":
			out = append(out, &ast.Include{Path: fields[1]})
		case "alloc":
			out = append(out, &ast.Allocation{Name: fields[1]})
		}
	}
	return out, sc.Err()
}

func writeArchive(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	arc := txtar.Parse([]byte(content))
	if err := txtar.Write(arc, dir); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
	return dir
}

func TestLoadWithIncludesFlattensInSourceOrder(t *testing.T) {
	dir := writeArchive(t, `
-- a.sin --
include b.sin
alloc x
-- b.sin --
alloc y
`)
	stmts, err := loadWithIncludes(lineParser{}, filepath.Join(dir, "a.sin"), newIncludeSet())
	if err != nil {
		t.Fatalf("loadWithIncludes: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("want 2 statements, got %d", len(stmts))
	}
	if a, ok := stmts[0].(*ast.Allocation); !ok || a.Name != "y" {
		t.Fatalf("want included file's allocation first, got %#v", stmts[0])
	}
	if a, ok := stmts[1].(*ast.Allocation); !ok || a.Name != "x" {
		t.Fatalf("want includer's own allocation second, got %#v", stmts[1])
	}
}

func TestLoadWithIncludesDiamondIsReadOnce(t *testing.T) {
	dir := writeArchive(t, `
-- a.sin --
include b.sin
include c.sin
-- b.sin --
include common.sin
alloc b
-- c.sin --
include common.sin
alloc c
-- common.sin --
alloc shared
`)
	stmts, err := loadWithIncludes(lineParser{}, filepath.Join(dir, "a.sin"), newIncludeSet())
	if err != nil {
		t.Fatalf("loadWithIncludes: %v", err)
	}
	count := 0
	for _, s := range stmts {
		if a, ok := s.(*ast.Allocation); ok && a.Name == "shared" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("want common.sin's allocation exactly once, got %d", count)
	}
}

func TestLoadWithIncludesCycleIsAnError(t *testing.T) {
	dir := writeArchive(t, `
-- a.sin --
include b.sin
-- b.sin --
include a.sin
`)
	_, err := loadWithIncludes(lineParser{}, filepath.Join(dir, "a.sin"), newIncludeSet())
	if err == nil {
		t.Fatal("want an error for a cyclic include, got nil")
	}
}

func TestLoadWithIncludesMustPrecedeOtherStatements(t *testing.T) {
	dir := writeArchive(t, `
-- a.sin --
alloc x
include b.sin
-- b.sin --
alloc y
`)
	_, err := loadWithIncludes(lineParser{}, filepath.Join(dir, "a.sin"), newIncludeSet())
	if err == nil {
		t.Fatal("want an error when include follows another statement, got nil")
	}
}
