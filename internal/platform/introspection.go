package platform

import (
	"github.com/aretw0/introspection"
)

// AppState aggregates the state of every component.
type AppState struct {
	Path       string `json:"path,omitempty"`
	Repository any    `json:"repository,omitempty"`
	RepoType   string `json:"repository_type,omitempty"`
	Notes      any    `json:"notes"`
	Tasks      any    `json:"tasks"`
	Recording  any    `json:"recording,omitempty"`
}

// State implements introspection.Introspectable.
// The recording session is included only once it has been created.
func (a *App) State() any {
	st := AppState{
		Path:  a.Path(),
		Notes: a.Notes.State(),
		Tasks: a.Tasks.State(),
	}
	if intro, ok := a.Repo.(introspection.Introspectable); ok {
		st.Repository = intro.State()
	}
	if comp, ok := a.Repo.(introspection.Component); ok {
		st.RepoType = comp.ComponentType()
	}
	if s := a.activeSession(); s != nil {
		st.Recording = s.State()
	}
	return st
}

// ComponentType implements introspection.Component.
func (a *App) ComponentType() string { return "daybook" }

var _ introspection.Introspectable = (*App)(nil)
var _ introspection.Component = (*App)(nil)
