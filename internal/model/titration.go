package model

import (
	"math"

	"github.com/san-kum/scilab/internal/sim"
)

const (
	// BuretteCapacity is the fixed titrant reservoir, in mL. Reaching it
	// forces dispensing off; that is an edge condition, not an error.
	BuretteCapacity = 50.0

	// neutralThreshold is the excess concentration (mol/L) below which the
	// solution reads as neutral.
	neutralThreshold = 1e-7
)

// Titration is a stoichiometric pH model of a strong acid titrated with a
// strong base. Analyte moles na = Ca*Va and titrant moles nt = Ct*Vt are
// balanced; the signed excess, divided by total volume, gives [H+] or
// [OH-] and from there pH, clamped to [0,14]. Volumes are mL and
// concentrations mol/L, so mole quantities are mmol throughout.
//
// Dispensed volume is the only evolving state: it increases monotonically
// at FlowRate while dispensing is on and never decreases except on Reset,
// so resetting restores the initial pH exactly.
type Titration struct {
	AcidConc    float64 // mol/L
	AcidVol     float64 // mL
	TitrantConc float64 // mol/L
	FlowRate    float64 // mL/s

	dispensed  float64
	dispensing bool
}

func NewTitration() *Titration {
	return &Titration{
		AcidConc:    0.1,
		AcidVol:     25,
		TitrantConc: 0.1,
		FlowRate:    0.5,
	}
}

func (m *Titration) Name() string     { return "titration" }
func (m *Titration) Series() []string { return []string{"ph", "volume"} }

func (m *Titration) ViewBounds() (float64, float64) { return 3, 25 }

func (m *Titration) Reset() {
	m.dispensed = 0
	m.dispensing = false
}

// SetDispensing opens or closes the burette stopcock. Opening it with the
// burette already empty is a no-op.
func (m *Titration) SetDispensing(on bool) {
	if on && m.dispensed >= BuretteCapacity {
		return
	}
	m.dispensing = on
}

func (m *Titration) Dispensing() bool  { return m.dispensing }
func (m *Titration) Dispensed() float64 { return m.dispensed }

// EquivalencePoint returns the titrant volume (mL) at which acid and base
// moles balance.
func (m *Titration) EquivalencePoint() float64 {
	return m.AcidConc * m.AcidVol / m.TitrantConc
}

// PH computes the pH after vt mL of titrant has been added.
func (m *Titration) PH(vt float64) float64 {
	na := m.AcidConc * m.AcidVol
	nt := m.TitrantConc * vt
	excess := na - nt
	conc := math.Abs(excess) / (m.AcidVol + vt)
	if conc < neutralThreshold {
		return 7
	}
	var ph float64
	if excess > 0 {
		ph = -math.Log10(conc)
	} else {
		ph = 14 + math.Log10(conc)
	}
	return clamp(ph, 0, 14)
}

func (m *Titration) Step(t, dt float64) sim.Frame {
	t2 := t + dt
	terminal := false
	if m.dispensing && dt > 0 {
		m.dispensed += m.FlowRate * dt
		if m.dispensed >= BuretteCapacity {
			m.dispensed = BuretteCapacity
			m.dispensing = false
			terminal = true
		}
	}
	ph := m.PH(m.dispensed)
	fill := 1 - m.dispensed/BuretteCapacity

	streamActive := 0.0
	if m.dispensing {
		streamActive = 1
	}
	return sim.Frame{
		Time: t2,
		Bodies: []sim.Body{
			{ID: "burette", Pos: sim.Vec3{X: 0, Y: 6, Z: 0}, Aux: fill},
			{ID: "flask", Pos: sim.Vec3{X: 0, Y: 1.2, Z: 0}, Aux: ph},
			{ID: "stream", Pos: sim.Vec3{X: 0, Y: 3.5, Z: 0}, Aux: streamActive},
		},
		Samples:  map[string]float64{"ph": ph, "volume": m.dispensed},
		Terminal: terminal,
	}
}

func (m *Titration) Params() map[string]float64 {
	return map[string]float64{
		"acid_conc":    m.AcidConc,
		"acid_vol":     m.AcidVol,
		"titrant_conc": m.TitrantConc,
		"flow_rate":    m.FlowRate,
	}
}

// SetParam clamps into chemically sensible ranges; concentrations cannot
// reach zero, which keeps the equivalence point finite.
func (m *Titration) SetParam(name string, value float64) error {
	switch name {
	case "acid_conc":
		m.AcidConc = clamp(value, 0.001, 5)
	case "acid_vol":
		m.AcidVol = clamp(value, 1, 100)
	case "titrant_conc":
		m.TitrantConc = clamp(value, 0.001, 5)
	case "flow_rate":
		m.FlowRate = clamp(value, 0.05, 5)
	default:
		return unknownParam("titration", name)
	}
	return nil
}
