package repo

import (
	"errors"
	"testing"

	"github.com/crandex/crandex/version"
)

func mustRead(t *testing.T, r *Repository, origin, src string) {
	t.Helper()
	if _, err := r.Read(origin, []byte(src)); err != nil {
		t.Fatalf("Read(%q): %v", origin, err)
	}
}

func TestRepositoryMinimalParse(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: A3\nVersion: 1.0.0\n")

	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	pkg, ok := r.FindLatestPackage("A3", version.Any())
	if !ok {
		t.Fatal("FindLatestPackage(A3) not found")
	}
	if pkg.Version != version.MustParse("1.0.0") {
		t.Errorf("version = %s, want 1.0.0", pkg.Version)
	}
}

func TestRepositoryDependencyParsing(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: child\nVersion: 1.0\nDepends: parent (>= 1.0), R (>= 3.6)\n")

	pkg, ok := r.FindLatestPackage("child", version.Any())
	if !ok {
		t.Fatal("child not found")
	}
	if len(pkg.Depends) != 2 {
		t.Fatalf("Depends = %v, want 2 entries", pkg.Depends)
	}
	if got := r.Interner().String(pkg.Depends[0].Name); got != "parent" {
		t.Errorf("Depends[0].Name = %q, want parent", got)
	}
	if got := r.Interner().String(pkg.Depends[1].Name); got != "R" {
		t.Errorf("Depends[1].Name = %q, want R", got)
	}
}

func TestRepositoryLatestSelection(t *testing.T) {
	r := New()
	mustRead(t, r, "repoA", "Package: foo\nVersion: 1.0.2\n\nPackage: foo\nVersion: 1.0.1\n")

	pkg, ok := r.FindLatestPackage("foo", version.Any())
	if !ok {
		t.Fatal("foo not found")
	}
	if pkg.Version != version.MustParse("1.0.2") {
		t.Errorf("latest version = %s, want 1.0.2", pkg.Version)
	}
}

func TestRepositoryTransitiveClosure(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: parent\nVersion: 1.0\n\n"+
		"Package: child\nVersion: 1.0\nDepends: parent (>= 1.0)\n\n"+
		"Package: grandchild\nVersion: 1.0\nDepends: child (>= 1.0)\n")

	closure, err := r.TransitiveDependencies("grandchild", version.Any())
	if err != nil {
		t.Fatalf("TransitiveDependencies: %v", err)
	}
	if len(closure) != 2 {
		t.Fatalf("closure = %v, want 2 entries", closure)
	}
	if got := r.Interner().String(closure[0].Name); got != "child" {
		t.Errorf("closure[0] = %q, want child", got)
	}
	if got := r.Interner().String(closure[1].Name); got != "parent" {
		t.Errorf("closure[1] = %q, want parent", got)
	}
}

func TestRepositoryTransitiveClosureNoBase(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: leaf\nVersion: 1.0\nDepends: R (>= 3.6), parent (>= 1.0)\n\n"+
		"Package: parent\nVersion: 1.0\n")

	closure, err := r.TransitiveDependenciesNoBase("leaf", version.Any())
	if err != nil {
		t.Fatalf("TransitiveDependenciesNoBase: %v", err)
	}
	if len(closure) != 1 {
		t.Fatalf("closure = %v, want 1 entry (R filtered out)", closure)
	}
	if got := r.Interner().String(closure[0].Name); got != "parent" {
		t.Errorf("closure[0] = %q, want parent", got)
	}
}

func TestRepositoryUnmetDependencies(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: A\nVersion: 1.0\nDepends: B (>= 2.0)\n")

	idx := r.CreateIndex()
	unmet, err := idx.Unmet("A")
	if err != nil {
		t.Fatalf("Unmet: %v", err)
	}
	if len(unmet) != 1 {
		t.Fatalf("unmet = %v, want 1 entry", unmet)
	}
	if got := r.Interner().String(unmet[0].Name); got != "B" {
		t.Errorf("unmet[0].Name = %q, want B", got)
	}
}

func TestRepositoryNotFound(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: A\nVersion: 1.0\nDepends: missing (>= 1.0)\n")

	_, err := r.TransitiveDependencies("A", version.Any())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRepositoryInstallOrder(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: parent\nVersion: 1.0\n\n"+
		"Package: child\nVersion: 1.0\nDepends: parent (>= 1.0)\n")

	ordered, err := r.CalculateInstallationOrderAll()
	if err != nil {
		t.Fatalf("CalculateInstallationOrderAll: %v", err)
	}
	if len(ordered) != 2 {
		t.Fatalf("ordered = %v, want 2 entries", ordered)
	}
	if got := r.Interner().String(ordered[0].Name); got != "parent" {
		t.Errorf("ordered[0] = %q, want parent", got)
	}
	if got := r.Interner().String(ordered[1].Name); got != "child" {
		t.Errorf("ordered[1] = %q, want child", got)
	}
}

func TestRepositoryInstallOrderCycle(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: a\nVersion: 1.0\nDepends: b (>= 1.0)\n\n"+
		"Package: b\nVersion: 1.0\nDepends: a (>= 1.0)\n")

	_, err := r.CalculateInstallationOrderAll()
	if !errors.Is(err, ErrCyclicDependencies) {
		t.Fatalf("err = %v, want ErrCyclicDependencies", err)
	}
}

func TestRepositoryCommentAndContinuation(t *testing.T) {
	r := New()
	mustRead(t, r, "local", "Package: foo\n# a comment\nVersion: 1.0\nSuggests: foo (> 0.1),\n    bar\n")

	pkg, ok := r.FindLatestPackage("foo", version.Any())
	if !ok {
		t.Fatal("foo not found")
	}
	if len(pkg.Suggests) != 2 {
		t.Fatalf("Suggests = %v, want 2 entries", pkg.Suggests)
	}
	if got := r.Interner().String(pkg.Suggests[1].Name); got != "bar" {
		t.Errorf("Suggests[1].Name = %q, want bar", got)
	}
}

func TestRepositoryMultipleOriginsAbsorbInterner(t *testing.T) {
	r := New()
	mustRead(t, r, "cran", "Package: foo\nVersion: 1.0\n")
	mustRead(t, r, "local", "Package: bar\nVersion: 2.0\nDepends: foo (>= 1.0)\n")

	if r.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Len())
	}
	bar, ok := r.FindLatestPackage("bar", version.Any())
	if !ok {
		t.Fatal("bar not found")
	}
	if got := r.Interner().String(bar.Origin); got != "local" {
		t.Errorf("bar.Origin = %q, want local", got)
	}
	if got := r.Interner().String(bar.Depends[0].Name); got != "foo" {
		t.Errorf("bar.Depends[0].Name = %q, want foo", got)
	}
}
