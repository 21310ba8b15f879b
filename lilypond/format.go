package lilypond

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/drumscribe/constants"
	"github.com/jsphweid/drumscribe/model"
)

var ErrNoTypes = errors.New("note has no drum types")

const documentTemplate = `
\version "%s"
\score {
  \new DrumStaff \drummode {
    \set DrumStaff.drumStyleTable = #drums-style
    %s
  }
  \layout { }
}
`

// FormatNote writes a single tag as "sn8" and several as "<sn hh>8".
func FormatNote(n model.Note) (string, error) {
	switch len(n.Types) {
	case 0:
		return "", fmt.Errorf("note %q: %w", n.Id, ErrNoTypes)
	case 1:
		return n.Types[0] + n.Duration, nil
	}
	return "<" + strings.Join(n.Types, " ") + ">" + n.Duration, nil
}

func FormatNotes(notes model.Notes) (string, error) {
	parts := make([]string, 0, len(notes))
	for _, n := range notes {
		s, err := FormatNote(n)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// Document embeds the formatted notes into a drum staff score.
func Document(notes model.Notes) (string, error) {
	body, err := FormatNotes(notes)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(documentTemplate, constants.LilypondVersion, body), nil
}
