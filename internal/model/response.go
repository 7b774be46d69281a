package model

// NoteResponse is the public view of a note. Owner id and blob key stay internal.
type NoteResponse struct {
	NoteID    string   `json:"noteId"`
	Title     string   `json:"title"`
	Text      string   `json:"text,omitempty"`
	Timestamp int64    `json:"timestamp"`
	Type      Type     `json:"type"`
	Size      *int64   `json:"size,omitempty"`
	Labels    []string `json:"labels"`
}

// Page wraps a list response. HasMore is always false while listing is not
// paginated.
type Page[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"hasMore"`
}

// Response projects the note to its public view.
func (n *Note) Response() NoteResponse {
	r := NoteResponse{
		NoteID:    n.NoteID,
		Title:     n.Title,
		Text:      n.Text,
		Timestamp: n.Timestamp.UnixMilli(),
		Type:      n.Type,
		Labels:    NewLabels(n.Labels...),
	}
	if n.Blob != nil {
		size := n.Blob.Size
		r.Size = &size
	}
	return r
}

// Responses projects a slice of notes; the result is never nil.
func Responses(notes []Note) []NoteResponse {
	out := make([]NoteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, notes[i].Response())
	}
	return out
}
