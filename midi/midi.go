package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/jsphweid/drumscribe/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (*smf.SMF, error) {
	dat, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("Error reading midi file... %w", err)
	}
	return ReadMidi(dat)
}

func ReadMidi(dat []byte) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			s, e = nil, fmt.Errorf("Error parsing midi file... %v", r)
		}
	}()

	if len(dat) == 0 {
		return nil, errors.New("Error parsing midi file... empty input")
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("Error parsing midi file... %w", err)
	}
	return res, nil
}

// Hits collects every sounding note-on across all tracks, ordered by time.
func Hits(s *smf.SMF) []model.Hit {
	var hits []model.Hit
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			if event.Message.GetNoteOn(&channel, &key, &velocity) && velocity > 0 {
				micros := s.TimeAt(absTicks)
				hits = append(hits, model.Hit{Key: key, TimeMs: float64(micros) / 1000})
			}
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].TimeMs < hits[j].TimeMs
	})
	return hits
}
