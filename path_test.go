package treecheck_test

import (
	"testing"

	treecheck "github.com/mlenders/treecheck"
)

func TestPathRender(t *testing.T) {
	p := treecheck.NewPath().AddAttribute("user").AddIndexOrKey(0).AddAttribute("name")
	if got := p.Render(); got != ".user[0].name" {
		t.Fatalf("Render = %q", got)
	}
	if got := p.String(); got != "Path(.user[0].name)" {
		t.Fatalf("String = %q", got)
	}
}

func TestPathRenderStringKeyQuoted(t *testing.T) {
	p := treecheck.NewPath().AddAttribute("items").AddIndexOrKey("a b")
	if got := p.Render(); got != `.items["a b"]` {
		t.Fatalf("Render = %q", got)
	}
}

func TestPathLeadingDot(t *testing.T) {
	p := treecheck.NewPath().AddAttribute("user").AddAttribute("name")
	bare := p.WithoutLeadingDot()
	if got := bare.Render(); got != "user.name" {
		t.Fatalf("Render without dot = %q", got)
	}
	if bare.StartsWithDot() {
		t.Fatalf("StartsWithDot should be false")
	}
	// The flag is presentation only: location identity is unaffected.
	if !p.Equal(bare) {
		t.Fatalf("leading-dot flag must not affect Equal")
	}
	if p.Key() != bare.Key() {
		t.Fatalf("leading-dot flag must not affect Key")
	}
	if got := bare.WithLeadingDot().Render(); got != ".user.name" {
		t.Fatalf("round trip = %q", got)
	}
}

func TestPathLeadingDotOnlyStripsDots(t *testing.T) {
	p := treecheck.NewPath().AddIndexOrKey(3).WithoutLeadingDot()
	if got := p.Render(); got != "[3]" {
		t.Fatalf("Render = %q", got)
	}
}

func TestPathAppendDoesNotMutate(t *testing.T) {
	base := treecheck.NewPath().AddAttribute("a")
	p1 := base.AddIndexOrKey(0)
	p2 := base.AddIndexOrKey(1)
	if got := base.Render(); got != ".a" {
		t.Fatalf("base changed: %q", got)
	}
	if p1.Render() != ".a[0]" || p2.Render() != ".a[1]" {
		t.Fatalf("siblings interfered: %q vs %q", p1.Render(), p2.Render())
	}
}

func TestPathGoUp(t *testing.T) {
	p := treecheck.NewPath().AddAttribute("a").AddIndexOrKey(0).AddAttribute("b")
	if got := p.GoUp(1).Render(); got != ".a[0]" {
		t.Fatalf("GoUp(1) = %q", got)
	}
	if got := p.GoUp(0).Render(); got != ".a[0].b" {
		t.Fatalf("GoUp(0) = %q", got)
	}
	if got := p.GoUp(10); got.Len() != 0 {
		t.Fatalf("GoUp past the root should clamp, got %v", got)
	}
}

func TestPathSlice(t *testing.T) {
	p := treecheck.NewPath().AddAttribute("a").AddIndexOrKey(0).AddAttribute("b")
	if got := p.Slice(1, 3).Render(); got != "[0].b" {
		t.Fatalf("Slice(1,3) = %q", got)
	}
	if got := p.Slice(0, 99); got.Len() != 3 {
		t.Fatalf("Slice should clamp the end, got %v", got)
	}
	if got := p.Slice(2, 1); got.Len() != 0 {
		t.Fatalf("inverted Slice should be empty, got %v", got)
	}
}

func TestPathExtend(t *testing.T) {
	a := treecheck.NewPath().AddAttribute("a")
	b := treecheck.NewPath().AddIndexOrKey(1).AddAttribute("c").WithoutLeadingDot()
	if got := a.Extend(b).Render(); got != ".a[1].c" {
		t.Fatalf("Extend = %q", got)
	}
}

func TestPathIndexAndContains(t *testing.T) {
	p := treecheck.NewPath().AddAttribute("a").AddIndexOrKey(7).AddAttribute("b")
	i, ok := p.Index(treecheck.Key(7))
	if !ok || i != 1 {
		t.Fatalf("Index(Key(7)) = %d, %v", i, ok)
	}
	if !p.Contains(treecheck.Attr("b")) {
		t.Fatalf("Contains(Attr(b)) = false")
	}
	if p.Contains(treecheck.Attr("7")) {
		t.Fatalf("attribute and key segments must not compare equal")
	}
}

func TestPathEqualAndKey(t *testing.T) {
	a := treecheck.NewPath().AddAttribute("x").AddIndexOrKey("k")
	b := treecheck.NewPath(treecheck.Attr("x"), treecheck.Key("k"))
	if !a.Equal(b) {
		t.Fatalf("structurally identical paths must be Equal")
	}
	if a.Key() != b.Key() {
		t.Fatalf("Key mismatch: %q vs %q", a.Key(), b.Key())
	}
	c := a.AddAttribute("more")
	if a.Equal(c) {
		t.Fatalf("different lengths must not be Equal")
	}
}

func TestPathKeyDistinguishesSegmentBoundaries(t *testing.T) {
	a := treecheck.NewPath().AddAttribute("a.b")
	b := treecheck.NewPath().AddAttribute("a").AddAttribute("b")
	// Both render ".a.b"; Render is presentation only.
	if a.Render() != b.Render() {
		t.Fatalf("renders differ: %q vs %q", a.Render(), b.Render())
	}
	if a.Equal(b) {
		t.Fatalf("a dotted attribute is not two attributes")
	}
	if a.Key() == b.Key() {
		t.Fatalf("Key must distinguish paths that merely render alike")
	}
}

func TestPathKeyDistinguishesKeyTypes(t *testing.T) {
	a := treecheck.NewPath().AddIndexOrKey(1)
	b := treecheck.NewPath().AddIndexOrKey(int8(1))
	if a.Equal(b) {
		t.Fatalf("keys of different types are different locations")
	}
	if a.Key() == b.Key() {
		t.Fatalf("Key must carry the key's type")
	}
}

func TestPathAt(t *testing.T) {
	p := treecheck.NewPath().AddAttribute("a").AddIndexOrKey(2)
	if s := p.At(0); !s.IsAttribute() || s.Name() != "a" {
		t.Fatalf("At(0) = %v", s)
	}
	if s := p.At(1); !s.IsIndexOrKey() || s.Value() != 2 {
		t.Fatalf("At(1) = %v", s)
	}
}
