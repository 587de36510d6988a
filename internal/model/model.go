// Package model implements the simulation variants: a damped pendulum, a
// projectile launch, and an acid-base titration. All three are closed-form
// or single-step kinematic models; there is no numerical integration of
// differential equations anywhere in this package.
//
// Every model follows the same configurable idiom: Params exposes the
// current scalar inputs, SetParam clamps the value into the model's valid
// range (invalid combinations are prevented at this boundary, not detected
// later) and errors only for unknown names.
package model

import (
	"fmt"
	"math"

	"github.com/san-kum/scilab/internal/sim"
)

// Names lists the available simulations in menu order.
func Names() []string {
	return []string{"pendulum", "projectile", "titration"}
}

// New builds a simulation model by name with its default parameters.
func New(name string) (sim.Model, error) {
	switch name {
	case "pendulum":
		return NewPendulum(), nil
	case "projectile":
		return NewProjectile(), nil
	case "titration":
		return NewTitration(), nil
	default:
		return nil, fmt.Errorf("%w: %s", sim.ErrUnknownModel, name)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func unknownParam(model, name string) error {
	return fmt.Errorf("%w: %s.%s", sim.ErrUnknownParam, model, name)
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
