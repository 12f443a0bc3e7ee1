package runtime

import (
	"errors"
	"fmt"
	"testing"

	"github.com/kolkov/scriptbox/internal/token"
)

func TestErrorFormatting(t *testing.T) {
	err := Errorf(ErrConst, "cannot assign to const %q", "x")
	if got, want := err.Error(), `cannot assign to const "x"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	err.Pos = token.Position{Line: 3, Column: 7}
	if got, want := err.Error(), `3:7: cannot assign to const "x"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrConst) {
		t.Error("errors.Is(err, ErrConst) = false")
	}
	if errors.Is(err, ErrType) {
		t.Error("errors.Is(err, ErrType) = true")
	}
}

func TestAt(t *testing.T) {
	pos := token.Position{Line: 2, Column: 4}
	inner := token.Position{Line: 5, Column: 1}

	t.Run("fills missing position", func(t *testing.T) {
		orig := Errorf(ErrType, "boom")
		got := At(orig, pos)
		var rerr *Error
		if !errors.As(got, &rerr) || rerr.Pos != pos {
			t.Fatalf("At() = %v, want position %v", got, pos)
		}
		if orig.Pos.IsValid() {
			t.Error("At() modified the original error")
		}
	})

	t.Run("keeps inner position", func(t *testing.T) {
		orig := &Error{Pos: inner, Kind: ErrType, Message: "boom"}
		var rerr *Error
		if !errors.As(At(orig, pos), &rerr) || rerr.Pos != inner {
			t.Errorf("At() lost the inner position")
		}
	})

	t.Run("wraps host errors", func(t *testing.T) {
		hostErr := fmt.Errorf("disk on fire")
		got := At(hostErr, pos)
		if !errors.Is(got, ErrHost) || !errors.Is(got, hostErr) {
			t.Errorf("At() = %v, want ErrHost wrapping the host error", got)
		}
		if KindOf(got) != ErrHost {
			t.Errorf("KindOf() = %v, want ErrHost", KindOf(got))
		}
	})

	t.Run("nil", func(t *testing.T) {
		if At(nil, pos) != nil {
			t.Error("At(nil) != nil")
		}
	})
}
