package model

// Chord is a group of hits close enough together to be notated as one
// simultaneous note.
type Chord struct {
	StartMs float64
	Types   []string
}
