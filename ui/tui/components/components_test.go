package components

import (
	"errors"
	"testing"

	"github.com/drake/minisong/ui/tui/components/label"
	"github.com/drake/minisong/ui/tui/widget"
)

func TestRegisterAll(t *testing.T) {
	reg := widget.NewRegistry(nil)
	if err := RegisterAll(reg); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(reg.Kinds()); n != 6 {
		t.Errorf("want 6 kinds, got %d: %v", n, reg.Kinds())
	}

	err := RegisterAll(reg)
	if !errors.Is(err, widget.ErrDuplicateKind) {
		t.Fatalf("second registration: want ErrDuplicateKind, got %v", err)
	}
	if _, ok := reg.Lookup(label.Kind); !ok {
		t.Error("label should stay registered")
	}
}
