package denizen

import "fmt"

// FactoryFor returns the constructor for a spawnable kind. Effects and
// starters are not species.
func FactoryFor(kind Kind) (Factory, error) {
	switch kind {
	case KindFish:
		return func(o Options) Denizen { return NewFish(o) }, nil
	case KindSwitchFish:
		return func(o Options) Denizen { return NewSwitchFish(o) }, nil
	case KindGoFish:
		return func(o Options) Denizen { return NewGoFish(o) }, nil
	case KindBiteFish:
		return func(o Options) Denizen { return NewBiteFish(o) }, nil
	case KindSeed:
		return func(o Options) Denizen { return NewSeed(o) }, nil
	default:
		return nil, fmt.Errorf("%s is not a species", kind)
	}
}
