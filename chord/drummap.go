package chord

// GM percussion keys to LilyPond drum names.
var MidiToDrum = map[uint8]string{
	// kick
	35: "bd",
	36: "bd",

	// snare, side stick
	37: "sn",
	38: "sn",
	40: "sn",

	// hi-hats: closed, pedal, open
	42: "hhc",
	44: "hhc",
	46: "hho",

	// crash and ride
	49: "cymc",
	57: "cymc",
	51: "cymr",
	59: "cymr",
}

// KeyboardToMidi lets a computer keyboard stand in for a drum kit.
var KeyboardToMidi = map[string]uint8{
	"a": 36,
	"s": 38,
	"d": 42,
	"f": 46,
	" ": 49,
	"j": 51,
}

// EndOfPhraseDuration is given to the last group of a phrase, which has no
// following hit to measure against.
const EndOfPhraseDuration = "1"

// ClassifyDuration maps the gap between two hits to a LilyPond duration.
// ok is false when the gap is short enough that the hits form a chord.
func ClassifyDuration(ms float64, bpm float64) (duration string, ok bool) {
	msPerBeat := 60000 / bpm
	beats := ms / msPerBeat

	switch {
	case beats >= 3.5:
		return "1", true
	case beats >= 1.5:
		return "2", true
	case beats >= 0.75:
		return "4", true
	case beats >= 0.35:
		return "8", true
	case beats >= 0.18:
		return "16", true
	}
	return "", false
}
