package engine

import (
	"errors"
	"log"
)

// Driver holds the state between calls for hosts that want a single
// update(dt, ratio) entry point. It is not safe for concurrent use.
type Driver struct {
	world   *World
	state   ControlLoopState
	skipped int
}

func NewDriver(w *World) (*Driver, error) {
	s, err := w.Initial()
	if err != nil {
		return nil, err
	}
	return &Driver{world: w, state: s}, nil
}

// Update advances one frame. Rejected frames are logged and leave the state as it was.
func (d *Driver) Update(dt, rawRatio float64) ControlLoopState {
	next, err := d.world.Update(d.state, dt, rawRatio)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDelta):
			d.skipped++
			log.Printf("[!] Кадр %d пропущен: %v", d.state.Frame+1, err)
		case errors.Is(err, ErrNonFinite):
			log.Printf("[!] Кадр %d: %v", next.Frame, err)
		default:
			d.skipped++
			log.Printf("[!] Ошибка кадра %d: %v", d.state.Frame+1, err)
		}
	}
	d.state = next
	return next
}

// State returns the state after the last accepted frame.
func (d *Driver) State() ControlLoopState {
	return d.state
}

// Skipped returns how many frames were rejected so far.
func (d *Driver) Skipped() int {
	return d.skipped
}

func (d *Driver) World() *World {
	return d.world
}
