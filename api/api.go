// Package api serves the note editor endpoints:
//
//	POST   /api/notes     append a note
//	GET    /api/notes     list notes in order
//	DELETE /api/notes     clear all notes
//	GET    /api/export    render the notes to PDF
//	GET    /api/notation  the LilyPond source that export would render
//	POST   /api/import    transcribe a midi file and append its notes
//	POST   /api/hits      feed a live drum hit to the transcriber
//	GET    /api/drums     the midi keys the transcriber understands, with keyboard bindings
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jsphweid/drumscribe/chord"
	"github.com/jsphweid/drumscribe/constants"
	"github.com/jsphweid/drumscribe/db"
	"github.com/jsphweid/drumscribe/lilypond"
	"github.com/jsphweid/drumscribe/midi"
	"github.com/jsphweid/drumscribe/model"
	"github.com/jsphweid/drumscribe/util"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

const maxMidiSize = 8 * 1024 * 1024

type Renderer interface {
	Render(ctx context.Context, notes model.Notes) ([]byte, error)
}

type Server struct {
	store    *db.NoteStore
	renderer Renderer
	live     *chord.Live
	cfg      *constants.Config
	log      zerolog.Logger
}

func New(cfg *constants.Config, store *db.NoteStore, renderer Renderer, log zerolog.Logger) *Server {
	return &Server{
		store:    store,
		renderer: renderer,
		live: chord.NewLive(cfg.Bpm, cfg.PhraseIdle, func(n model.Note) {
			store.Append(n)
		}),
		cfg: cfg,
		log: log,
	}
}

func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(s.logRequests)

	routes := router.PathPrefix("/api").Subrouter()
	routes.HandleFunc("/notes", s.handleCreateNote).Methods(http.MethodPost)
	routes.HandleFunc("/notes", s.handleListNotes).Methods(http.MethodGet)
	routes.HandleFunc("/notes", s.handleClearNotes).Methods(http.MethodDelete)
	routes.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	routes.HandleFunc("/notation", s.handleNotation).Methods(http.MethodGet)
	routes.HandleFunc("/import", s.handleImport).Methods(http.MethodPost)
	routes.HandleFunc("/hits", s.handleHit).Methods(http.MethodPost)
	routes.HandleFunc("/drums", s.handleDrums).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.cfg.AllowedOrigin},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(router)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var input model.NoteRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	note, err := validateNote(input)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.store.Append(note)
	s.log.Debug().Str("id", note.Id).Int("total", s.store.Len()).Msg("note saved")
	writeJSON(w, http.StatusOK, model.NoteSavedResponse{Message: "Note saved", Note: note})
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleClearNotes(w http.ResponseWriter, r *http.Request) {
	s.store.Clear()
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Notes cleared"})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	pdf, err := s.renderer.Render(r.Context(), s.store.List())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", constants.ExportFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func (s *Server) handleNotation(w http.ResponseWriter, r *http.Request) {
	source, err := lilypond.Document(s.store.List())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, source)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	bpm := s.cfg.Bpm
	if q := r.URL.Query().Get("bpm"); q != "" {
		parsed, err := strconv.ParseFloat(q, 64)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusUnprocessableEntity, "bpm must be a positive number")
			return
		}
		bpm = parsed
	}

	dat, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMidiSize))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Could not read request body: "+err.Error())
		return
	}

	parsed, err := midi.ReadMidi(dat)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	notes := chord.Transcribe(midi.Hits(parsed), bpm)
	s.store.Append(notes...)
	s.log.Info().Int("notes", len(notes)).Float64("bpm", bpm).Msg("midi imported")
	writeJSON(w, http.StatusOK, model.ImportResponse{
		Message: fmt.Sprintf("Imported %d notes", len(notes)),
		Notes:   notes,
	})
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	var input model.HitRequestBody
	if err := decodeBody(r, &input); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if input.Key == nil {
		writeError(w, http.StatusUnprocessableEntity, "field required: key")
		return
	}
	if *input.Key < 0 || *input.Key > 127 {
		writeError(w, http.StatusUnprocessableEntity, "key must be between 0 and 127")
		return
	}

	key := uint8(*input.Key)
	ok, err := s.live.Hit(key, input.TimeMs)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if !ok {
		s.log.Debug().Uint8("key", key).Msg("unmapped key ignored")
	}
	writeJSON(w, http.StatusAccepted, model.MessageResponse{Message: "Hit received"})
}

func (s *Server) handleDrums(w http.ResponseWriter, r *http.Request) {
	bindings := make(map[uint8]string, len(chord.KeyboardToMidi))
	for k, key := range chord.KeyboardToMidi {
		bindings[key] = k
	}
	res := make([]model.Drum, 0, len(chord.MidiToDrum))
	for _, key := range util.GetKeys(chord.MidiToDrum) {
		res = append(res, model.Drum{Key: key, Type: chord.MidiToDrum[key], Keyboard: bindings[key]})
	}
	writeJSON(w, http.StatusOK, res)
}

// FlushLive commits whatever the live transcriber is holding.
func (s *Server) FlushLive() {
	s.live.Flush()
}

func decodeBody(r *http.Request, v any) error {
	reqBody, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("Could not read request body: %w", err)
	}
	if err := json.Unmarshal(reqBody, v); err != nil {
		return fmt.Errorf("Could not unmarshal request body: %w", err)
	}
	return nil
}

func validateNote(in model.NoteRequestBody) (model.Note, error) {
	switch {
	case in.Id == nil:
		return model.Note{}, errors.New("field required: id")
	case in.Types == nil:
		return model.Note{}, errors.New("field required: types")
	case in.Duration == nil:
		return model.Note{}, errors.New("field required: duration")
	case in.IsRest == nil:
		return model.Note{}, errors.New("field required: isRest")
	case len(*in.Types) == 0:
		return model.Note{}, errors.New("types must contain at least one drum")
	}
	return model.Note{
		Id:       *in.Id,
		Types:    *in.Types,
		Duration: *in.Duration,
		IsRest:   *in.IsRest,
	}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
