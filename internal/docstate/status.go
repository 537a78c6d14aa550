package docstate

import (
	"time"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// Status is the lifecycle state of one document. The payload lives only in the variant it belongs to,
// so a document can never be both ready and failed.
type Status interface {
	Name() string
	isStatus()
}

// Status names as they appear on the wire.
const (
	StatusPending    = "pending"
	StatusGenerating = "generating"
	StatusReady      = "ready"
	StatusError      = "error"
)

type Pending struct{}

type Generating struct{}

// Ready carries the rendered document.
type Ready struct {
	HTML        string
	URL         string
	GeneratedAt time.Time
}

// Failed carries the last generation failure.
type Failed struct {
	Err string
}

func (Pending) Name() string    { return StatusPending }
func (Generating) Name() string { return StatusGenerating }
func (Ready) Name() string      { return StatusReady }
func (Failed) Name() string     { return StatusError }

func (Pending) isStatus()    {}
func (Generating) isStatus() {}
func (Ready) isStatus()      {}
func (Failed) isStatus()     {}

// Entry is one document kind and its current status.
type Entry struct {
	Kind   models.DocumentKind
	Status Status
}

// IsReady reports whether the entry holds rendered content.
func (e Entry) IsReady() bool {
	_, ok := e.Status.(Ready)
	return ok
}

// HTML returns the rendered content, or "" unless the entry is ready.
func (e Entry) HTML() string {
	if r, ok := e.Status.(Ready); ok {
		return r.HTML
	}
	return ""
}

// View converts the entry to its wire shape.
func (e Entry) View() models.DocumentStatus {
	v := models.DocumentStatus{Kind: e.Kind.String(), Status: StatusPending}
	if e.Status == nil {
		return v
	}
	v.Status = e.Status.Name()
	switch s := e.Status.(type) {
	case Ready:
		v.URL = s.URL
		v.HTML = s.HTML
		v.GeneratedAt = s.GeneratedAt.UTC().Format(time.RFC3339)
	case Failed:
		v.Error = s.Err
	}
	return v
}
