package model

type Note struct {
	Id       string   `json:"id"`
	Types    []string `json:"types"`
	Duration string   `json:"duration"`
	IsRest   bool     `json:"isRest"`
}

type Notes = []Note

// Hit is a single drum strike, as played or read from a midi file.
type Hit struct {
	Key    uint8
	TimeMs float64
}
