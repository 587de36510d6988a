// Package sim provides the core simulation primitives: world-space
// vectors, the [Model] interface implemented by each simulation variant,
// and the fixed-step [Clock] that drives a model and records its series.
//
// The clock is cooperative: it owns no goroutine or timer. Hosts (the GUI
// render loop, the TUI tick, a headless run) feed elapsed wall time into
// [Clock.Advance] and the clock consumes whole fixed steps from the
// backlog. Cancelling a host loop therefore cancels the tick source with
// it, which is what keeps a remounting viewport from accumulating
// duplicate tick drivers.
package sim
