package model

import (
	"errors"
	"testing"

	"github.com/san-kum/scilab/internal/sim"
)

func TestNewByName(t *testing.T) {
	for _, name := range Names() {
		m, err := New(name)
		if err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
		if m.Name() != name {
			t.Errorf("model %q reports name %q", name, m.Name())
		}
		if len(m.Series()) == 0 {
			t.Errorf("model %q exposes no series", name)
		}
		minD, maxD := m.ViewBounds()
		if minD <= 0 || maxD <= minD {
			t.Errorf("model %q has bad view bounds (%f, %f)", name, minD, maxD)
		}
	}
}

func TestNewUnknown(t *testing.T) {
	_, err := New("hovercraft")
	if !errors.Is(err, sim.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}
