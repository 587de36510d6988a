// Package record collects time-series samples emitted by the simulation
// clock for later charting. Buffers are append-only while a run is live;
// they are cleared by reset or parameter change, never by viewport
// remounts.
package record

// Sample is one {time, value} point of a tracked quantity.
type Sample struct {
	Time  float64
	Value float64
}

// Recorder keeps one append-only buffer per tracked quantity. Series are
// registered up front so chart panels can enumerate them before the first
// tick; appending to an unregistered name registers it lazily.
type Recorder struct {
	order  []string
	series map[string][]Sample
}

func New(names ...string) *Recorder {
	r := &Recorder{series: make(map[string][]Sample, len(names))}
	for _, n := range names {
		r.register(n)
	}
	return r
}

func (r *Recorder) register(name string) {
	if _, ok := r.series[name]; ok {
		return
	}
	r.order = append(r.order, name)
	r.series[name] = nil
}

// Append records a sample. The clock guarantees monotonically increasing
// times within a run; the recorder does not re-check.
func (r *Recorder) Append(name string, t, v float64) {
	r.register(name)
	r.series[name] = append(r.series[name], Sample{Time: t, Value: v})
}

// Names returns series names in registration order.
func (r *Recorder) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Series returns the live buffer for a quantity. Callers must treat it as
// read-only; it is reused across appends.
func (r *Recorder) Series(name string) []Sample {
	return r.series[name]
}

// Values returns just the values of a series, in append order. Useful for
// chart widgets that take a plain float slice.
func (r *Recorder) Values(name string) []float64 {
	s := r.series[name]
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

func (r *Recorder) Len(name string) int { return len(r.series[name]) }

// Last returns the most recent sample of a series, if any.
func (r *Recorder) Last(name string) (Sample, bool) {
	s := r.series[name]
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// Reset clears all samples but keeps the registered series names.
func (r *Recorder) Reset() {
	for name := range r.series {
		r.series[name] = nil
	}
}
