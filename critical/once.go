package critical

const (
	onceUninit uint8 = iota
	onceRunning
	onceDone
)

// Once holds a value computed on first use and kept forever after.
type Once[T any] struct {
	state Static[uint8]
	v     T
}

// Get returns the value, calling init to produce it on first use. A call
// made while init is still running (from the interrupt handler, or from init
// itself) does not wait and does not run init again; it returns
// ErrReentrant.
func (o *Once[T]) Get(init func() T) (T, error) {
	if o.state.Read() == onceDone {
		return o.v, nil
	}

	state := Disable()
	prev := o.state.Read()
	if prev == onceUninit {
		o.state.Write(onceRunning)
	}
	Restore(state)

	switch prev {
	case onceDone:
		return o.v, nil
	case onceRunning:
		var zero T
		return zero, ErrReentrant
	}

	v := init()
	o.v = v
	o.state.Write(onceDone)
	return v, nil
}

// Value returns the value and whether it has been initialized.
func (o *Once[T]) Value() (T, bool) {
	if o.state.Read() != onceDone {
		var zero T
		return zero, false
	}
	return o.v, true
}
