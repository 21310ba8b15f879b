package chord

import (
	"errors"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/jsphweid/drumscribe/model"
)

// ErrMixedClocks rejects a hit whose clock differs from the rest of its
// phrase: client timestamps and the live clock are not comparable.
var ErrMixedClocks = errors.New("timeMs must be sent with every hit of a phrase or with none")

// Live transcribes hits as they are played. The pending group is committed
// once no hit has arrived for the idle window.
type Live struct {
	mu       sync.Mutex
	w        window
	stamped  bool
	commit   func(model.Note)
	debounce func(f func())
	start    time.Time
}

func NewLive(bpm float64, idle time.Duration, commit func(model.Note)) *Live {
	return &Live{
		w:        window{bpm: bpm},
		commit:   commit,
		debounce: debounce.New(idle),
		start:    time.Now(),
	}
}

// Now is the live clock in milliseconds, used for hits without a timestamp.
func (l *Live) Now() float64 {
	return float64(time.Since(l.start).Microseconds()) / 1000
}

// Hit feeds one hit played at timeMs, or now on the live clock when timeMs
// is nil. ok reports whether the key is a known drum.
func (l *Live) Hit(key uint8, timeMs *float64) (ok bool, err error) {
	tag, ok := MidiToDrum[key]
	if !ok {
		return false, nil
	}

	l.mu.Lock()
	stamped := timeMs != nil
	if l.w.pending != nil && l.stamped != stamped {
		l.mu.Unlock()
		return true, ErrMixedClocks
	}
	l.stamped = stamped

	at := l.Now()
	if stamped {
		at = *timeMs
	}
	n, done := l.w.add(tag, at)
	if done {
		l.commit(n)
	}
	l.mu.Unlock()

	l.debounce(l.Flush)
	return true, nil
}

func (l *Live) Flush() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n, done := l.w.flush(); done {
		l.commit(n)
	}
}
