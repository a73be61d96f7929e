package ui

import (
	"encoding/json"
	"io"

	"github.com/abelbrown/rfd/internal/model"
)

// ThreadsJSON writes threads as a JSON array with two-space indentation
// and alphabetical keys. Absent fields are null. An empty listing is [].
func ThreadsJSON(w io.Writer, threads []model.Thread) error {
	if threads == nil {
		threads = []model.Thread{}
	}
	return writeJSON(w, threads)
}

// PostsJSON writes posts the same way ThreadsJSON writes threads.
func PostsJSON(w io.Writer, posts []model.Post) error {
	if posts == nil {
		posts = []model.Post{}
	}
	return writeJSON(w, posts)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
