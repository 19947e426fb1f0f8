package cli

import "github.com/jonboulle/clockwork"

// clock supplies the reference year for dates on the forecast page, which never
// prints one. Tests freeze it via SetClock.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
