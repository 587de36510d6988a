// Package scene owns the retained 3D world and the viewport lifecycle.
//
// A [Manager] holds one simulation's scene resources for the whole
// session: world bodies, simulation clock, recorder, camera state, and
// the render surface behind an opaque [Driver]. Host containers attach
// and detach around it; the manager reattaches and resizes rather than
// recreating, so neither camera state nor an in-progress run is lost
// when the surrounding UI is rebuilt.
package scene
