package recording

// SessionState is the introspection snapshot of a Session.
type SessionState struct {
	State      State  `json:"state"`
	Supported  bool   `json:"supported"`
	Format     string `json:"format,omitempty"`
	MimeType   string `json:"mime_type,omitempty"`
	Chunks     int    `json:"buffered_chunks"`
	Bytes      int    `json:"buffered_bytes"`
	HasDraft   bool   `json:"has_draft"`
	Status     string `json:"status,omitempty"`
	LastReason Reason `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SessionState{
		State:     s.state,
		Supported: s.supported,
		Format:    s.format.Name,
		MimeType:  s.format.MimeType,
		Chunks:    len(s.chunks),
		Bytes:     s.size,
		HasDraft:  s.draft != nil,
		Status:    s.status,
	}
	if s.lastErr != nil {
		st.LastReason = s.lastErr.Reason
	}
	return st
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string { return "recording-session" }
