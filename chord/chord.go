// Package chord turns timed drum hits into notes. Hits that land within a
// short window of the first hit in a group are notated together; the gap
// to the next group decides the group's duration.
package chord

import (
	"github.com/google/uuid"
	"github.com/jsphweid/drumscribe/model"
)

type window struct {
	bpm     float64
	pending *model.Chord
}

// add feeds one mapped hit and returns the note it completes, if any.
func (w *window) add(tag string, timeMs float64) (model.Note, bool) {
	if w.pending == nil {
		w.pending = &model.Chord{StartMs: timeMs, Types: []string{tag}}
		return model.Note{}, false
	}

	duration, ok := ClassifyDuration(timeMs-w.pending.StartMs, w.bpm)
	if !ok {
		w.pending.Types = append(w.pending.Types, tag)
		return model.Note{}, false
	}

	n := toNote(*w.pending, duration)
	w.pending = &model.Chord{StartMs: timeMs, Types: []string{tag}}
	return n, true
}

func (w *window) flush() (model.Note, bool) {
	if w.pending == nil {
		return model.Note{}, false
	}
	n := toNote(*w.pending, EndOfPhraseDuration)
	w.pending = nil
	return n, true
}

func toNote(c model.Chord, duration string) model.Note {
	return model.Note{
		Id:       uuid.New().String(),
		Types:    c.Types,
		Duration: duration,
		IsRest:   false,
	}
}

// Transcribe converts a complete, time ordered phrase. Unmapped keys are
// skipped and the final group ends the phrase.
func Transcribe(hits []model.Hit, bpm float64) model.Notes {
	res := make(model.Notes, 0)
	w := window{bpm: bpm}
	for _, h := range hits {
		tag, ok := MidiToDrum[h.Key]
		if !ok {
			continue
		}
		if n, done := w.add(tag, h.TimeMs); done {
			res = append(res, n)
		}
	}
	if n, done := w.flush(); done {
		res = append(res, n)
	}
	return res
}
