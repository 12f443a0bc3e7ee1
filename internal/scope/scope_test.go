package scope

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kolkov/scriptbox/internal/guard"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/value"
)

// newRoot returns a root frame with an entity {hp: 10} bound as self.
func newRoot(t *testing.T) (*Frame, *value.Object) {
	t.Helper()
	entity := value.NewObject()
	_ = entity.Set("hp", value.Num(10))
	root := NewRoot(guard.DefaultPolicy(), "self")
	root.Bind("self", value.ObjectOf(entity), false)
	return root, entity
}

func TestLexicalLookup(t *testing.T) {
	root, _ := newRoot(t)
	outer := root.NewChild()
	if err := outer.Declare("let", "x", value.Num(1)); err != nil {
		t.Fatal(err)
	}
	inner := outer.NewChild()
	if err := inner.Declare("let", "x", value.Num(2)); err != nil {
		t.Fatalf("shadowing an outer frame: %v", err)
	}

	if v, _ := inner.Get("x"); v.AsNum() != 2 {
		t.Errorf("inner x = %v, want 2", v)
	}
	if v, _ := outer.Get("x"); v.AsNum() != 1 {
		t.Errorf("outer x = %v, want 1", v)
	}

	if err := inner.Set("x", value.Num(3)); err != nil {
		t.Fatal(err)
	}
	if v, _ := outer.Get("x"); v.AsNum() != 1 {
		t.Errorf("Set wrote through to the outer frame: %v", v)
	}
}

func TestDeclareErrors(t *testing.T) {
	root, _ := newRoot(t)
	f := root.NewChild()
	if err := f.Declare("var", "a", value.Undefined()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		message string
	}{
		{"a", `"a" has already been declared`},
		{"self", `cannot redeclare "self"`},
	}
	for _, tt := range tests {
		err := f.Declare("let", tt.name, value.Num(1))
		if !errors.Is(err, runtime.ErrRedeclared) {
			t.Fatalf("Declare(%q) = %v, want ErrRedeclared", tt.name, err)
		}
		if err.Error() != tt.message {
			t.Errorf("Declare(%q) = %q, want %q", tt.name, err.Error(), tt.message)
		}
	}
}

func TestConst(t *testing.T) {
	root, _ := newRoot(t)
	f := root.NewChild()
	if err := f.Declare("const", "k", value.Num(1)); err != nil {
		t.Fatal(err)
	}
	child := f.NewChild()

	err := child.Set("k", value.Num(2))
	if !errors.Is(err, runtime.ErrConst) {
		t.Fatalf("Set(k) = %v, want ErrConst", err)
	}
	if v, _ := f.Get("k"); v.AsNum() != 1 {
		t.Errorf("const changed to %v", v)
	}

	if err := root.Set("self", value.Null()); !errors.Is(err, runtime.ErrConst) {
		t.Errorf("Set(self) = %v, want ErrConst", err)
	}
}

func TestFacadeFallback(t *testing.T) {
	root, entity := newRoot(t)
	f := root.NewChild().NewChild()

	if v, err := f.Get("hp"); err != nil || v.AsNum() != 10 {
		t.Errorf("Get(hp) = %v, %v; want 10", v, err)
	}
	if v, err := f.Get("mana"); err != nil || !v.IsUndefined() {
		t.Errorf("Get(mana) = %v, %v; want undefined", v, err)
	}

	if err := f.Set("hp", value.Num(7)); err != nil {
		t.Fatal(err)
	}
	if err := f.Set("mana", value.Num(3)); err != nil {
		t.Fatal(err)
	}
	if got := entity.MustGet("hp").AsNum(); got != 7 {
		t.Errorf("entity.hp = %v, want 7", got)
	}
	if got := entity.MustGet("mana").AsNum(); got != 3 {
		t.Errorf("entity.mana = %v, want 3", got)
	}

	for _, name := range []string{"constructor", "__proto__", "__internal__"} {
		if _, err := f.Get(name); !errors.Is(err, runtime.ErrForbidden) {
			t.Errorf("Get(%q) = %v, want ErrForbidden", name, err)
		}
		if err := f.Set(name, value.Num(1)); !errors.Is(err, runtime.ErrForbidden) {
			t.Errorf("Set(%q) = %v, want ErrForbidden", name, err)
		}
	}
}

func TestFacadeRefusesWrite(t *testing.T) {
	entity := value.NewObject()
	_ = entity.Set("hp", value.Num(1))
	root := NewRoot(nil, "self")
	root.Bind("self", value.ObjectOf(value.ReadOnly{Properties: entity}), false)

	err := root.NewChild().Set("hp", value.Num(2))
	if !errors.Is(err, runtime.ErrHost) {
		t.Fatalf("Set on read-only facade = %v, want ErrHost", err)
	}
	if !strings.Contains(err.Error(), "read-only") {
		t.Errorf("error = %q", err)
	}
}

func TestUnknownIdentifier(t *testing.T) {
	root := NewRoot(nil, "self")
	root.Bind("speed", value.Num(1), false)
	f := root.NewChild()

	_, err := f.Get("sped")
	if !errors.Is(err, runtime.ErrUnknownIdentifier) {
		t.Fatalf("Get(sped) = %v, want ErrUnknownIdentifier", err)
	}
	if want := `unknown identifier "sped" (did you mean "speed"?)`; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}

	// Without a facade, writes have nowhere to go.
	if err := f.Set("x", value.Num(1)); !errors.Is(err, runtime.ErrUnknownIdentifier) {
		t.Errorf("Set(x) = %v, want ErrUnknownIdentifier", err)
	}

	// A non-object facade never receives fallbacks.
	root.Bind("self", value.Null(), false)
	if _, err := f.Get("hp"); !errors.Is(err, runtime.ErrUnknownIdentifier) {
		t.Errorf("Get(hp) with null facade = %v", err)
	}
}

func TestNames(t *testing.T) {
	root, _ := newRoot(t)
	f := root.NewChild()
	_ = f.Declare("let", "b", value.Num(1))
	_ = f.Declare("let", "a", value.Num(1))

	want := []string{"a", "b", "hp", "self"}
	if diff := cmp.Diff(want, f.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if f.Facade().AsObject() == nil {
		t.Error("Facade() not found from child frame")
	}
	if f.FacadeName() != "self" || f.Parent() != root {
		t.Error("FacadeName() or Parent() wrong")
	}
}
