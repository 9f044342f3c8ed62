// Package engine is the boundary to the closed FlexSim engine. The engine
// itself (event processing, statistics, GUI) lives in the vendor install;
// this package only launches the vendor bridge process and forwards
// commands across its narrow controller surface.
package engine

// Controller is the narrow command surface the vendor bridge exposes.
// Every call blocks until the engine replies; no timeout is applied.
type Controller interface {
	// Open loads a model file (.fsm or .fsx).
	Open(path string) error
	// Reset returns the simulation to its initial state (time 0).
	Reset() error
	// Run starts continuous execution.
	Run() error
	// Stop pauses execution.
	Stop() error
	// Time reports the current simulation clock in seconds.
	Time() (float64, error)
	// RunToTime runs at maximum speed until the target time and blocks
	// until the engine reaches it.
	RunToTime(target float64) error
	// Evaluate executes a FlexScript expression and returns the engine's
	// textual result.
	Evaluate(script string) (string, error)
}
