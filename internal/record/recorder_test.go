package record

import "testing"

func TestRecorderAppendAndNames(t *testing.T) {
	r := New("theta", "omega")

	names := r.Names()
	if len(names) != 2 || names[0] != "theta" || names[1] != "omega" {
		t.Fatalf("unexpected names %v", names)
	}

	r.Append("theta", 0.0, 0.35)
	r.Append("theta", 0.01, 0.34)
	if r.Len("theta") != 2 {
		t.Errorf("expected 2 samples, got %d", r.Len("theta"))
	}

	last, ok := r.Last("theta")
	if !ok || last.Time != 0.01 || last.Value != 0.34 {
		t.Errorf("unexpected last sample %+v ok=%v", last, ok)
	}
	if _, ok := r.Last("omega"); ok {
		t.Error("empty series should have no last sample")
	}
}

func TestRecorderLazyRegistration(t *testing.T) {
	r := New("a")
	r.Append("b", 1, 2)

	names := r.Names()
	if len(names) != 2 || names[1] != "b" {
		t.Errorf("appending to a new name should register it after the declared ones: %v", names)
	}
}

func TestRecorderValues(t *testing.T) {
	r := New("v")
	for i := 0; i < 5; i++ {
		r.Append("v", float64(i), float64(i)*2)
	}
	vals := r.Values("v")
	if len(vals) != 5 || vals[3] != 6 {
		t.Errorf("unexpected values %v", vals)
	}
}

func TestRecorderResetKeepsNames(t *testing.T) {
	r := New("theta", "omega")
	r.Append("theta", 0, 1)
	r.Reset()

	if r.Len("theta") != 0 {
		t.Errorf("reset should clear samples, got %d", r.Len("theta"))
	}
	if len(r.Names()) != 2 {
		t.Errorf("reset should keep registered names, got %v", r.Names())
	}
}
