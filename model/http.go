package model

// NoteRequestBody mirrors Note with pointers so missing fields can be told
// apart from zero values.
type NoteRequestBody struct {
	Id       *string   `json:"id"`
	Types    *[]string `json:"types"`
	Duration *string   `json:"duration"`
	IsRest   *bool     `json:"isRest"`
}

type HitRequestBody struct {
	Key    *int     `json:"key"`
	TimeMs *float64 `json:"timeMs"`
}

type NoteSavedResponse struct {
	Message string `json:"message"`
	Note    Note   `json:"note"`
}

type ImportResponse struct {
	Message string `json:"message"`
	Notes   Notes  `json:"notes"`
}

type Drum struct {
	Key      uint8  `json:"key"`
	Type     string `json:"type"`
	Keyboard string `json:"keyboard,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
