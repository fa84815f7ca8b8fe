package engine

import "fmt"

// Export is the interchange record for a single-channel engine. Its JSON
// shape (size, params, state, stats) is what persistence layers round-trip.
type Export struct {
	Size   int       `json:"size"`
	Params Params    `json:"params"`
	State  []float64 `json:"state"`
	Stats  Stats     `json:"stats"`
}

// ExportConfig copies the engine's size, parameters, field and statistics.
func (e *Engine) ExportConfig() Export {
	return Export{
		Size:   e.n,
		Params: e.params,
		State:  append([]float64(nil), e.state...),
		Stats:  e.tracker.stats,
	}
}

// ImportConfig overwrites parameters, field and statistics from cfg. It
// fails with ErrSizeMismatch if cfg was exported from another grid size and
// leaves the engine untouched on any error.
func (e *Engine) ImportConfig(cfg Export) error {
	if cfg.Size != e.n {
		return fmt.Errorf("%w: config is %d, engine is %d", ErrSizeMismatch, cfg.Size, e.n)
	}
	if len(cfg.State) != e.n*e.n {
		return fmt.Errorf("%w: got %d, want %d", ErrStateLength, len(cfg.State), e.n*e.n)
	}

	pending, err := e.prepare(cfg.Params)
	if err != nil {
		return err
	}
	e.commit(pending)

	for i, v := range cfg.State {
		e.state[i] = clamp01(v)
	}
	e.tracker.restore(cfg.Stats)
	return nil
}
