package denizen

import "time"

// Effect is a short-lived visual left behind by interactions such as bites.
type Effect struct {
	Base
	Linger float64       // seconds before the effect starts leaving
	Leave  time.Duration // removal delay once it does
}

// NewEffect creates and registers an effect showing o.ImageURI.
func NewEffect(o Options) *Effect {
	e := &Effect{Base: newBase(o, KindEffect)}
	if o.ImageURI != "" {
		e.ImageURI = o.ImageURI
	}
	e.Linger = o.Linger
	e.Leave = o.Leave
	e.attach(e)
	return e
}

// UpdateOneTick counts down the linger time and leaves once it has passed.
func (e *Effect) UpdateOneTick() {
	e.Linger -= e.dt()
	if e.Linger < 0 {
		e.Kill(e.Leave)
	}
}
