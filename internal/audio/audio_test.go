package audio

import "testing"

// The level meter must work without an open stream: audio failure is
// non-fatal and the HUD still shows activity.
func TestLevelMeterWithoutStream(t *testing.T) {
	e := NewEngine()
	if e.Active() {
		t.Fatal("engine should start inactive")
	}
	if e.Level() != 0 {
		t.Fatalf("expected zero level before any activity, got %f", e.Level())
	}

	for i := 0; i < 200; i++ {
		e.UpdateActivity(1.0)
	}
	if lv := e.Level(); lv < 0.9 || lv > 1.0 {
		t.Errorf("sustained full activity should drive the meter near 1, got %f", lv)
	}
}

func TestLevelMeterSmoothsAndDecays(t *testing.T) {
	e := NewEngine()

	e.UpdateActivity(1.0)
	first := e.Level()
	if first <= 0 || first >= 1 {
		t.Fatalf("one frame of activity should move the meter partway, got %f", first)
	}

	e.UpdateActivity(1.0)
	if e.Level() <= first {
		t.Error("meter should keep rising under sustained activity")
	}

	prev := e.Level()
	for i := 0; i < 50; i++ {
		e.UpdateActivity(0)
		lv := e.Level()
		if lv > prev {
			t.Fatalf("meter rose to %f during silence", lv)
		}
		prev = lv
	}
	if prev > 0.01 {
		t.Errorf("meter should have decayed near zero, got %f", prev)
	}
}
