// Package docstate holds the per-contract document lifecycle as a pure reducer.
//
// Every change goes through Reduce, which never mutates its input. Store serializes dispatches for callers that
// share a state between goroutines.
package docstate

import (
	"math"
	"sync"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

// UI is bookkeeping for the preparation screen.
type UI struct {
	IsGeneratingAll bool
	IsRegistering   bool
	ShowTaqadiData  bool
	CopiedField     string
	IsLoading       bool
}

// State is the full preparation state for one contract.
type State struct {
	Case      models.CaseContext
	Documents [models.NumKinds]Entry
	UI        UI
}

// Initial returns the starting state for a contract: empty context, every document pending.
func Initial(contractID, companyID string) State {
	s := State{
		Case: models.CaseContext{ContractID: contractID, CompanyID: companyID},
	}
	for i := range s.Documents {
		s.Documents[i] = Entry{Kind: models.DocumentKind(i), Status: Pending{}}
	}
	return s
}

// Entry returns the entry for kind k.
func (s State) Entry(k models.DocumentKind) Entry {
	if !validKind(k) {
		return Entry{Kind: k, Status: Pending{}}
	}
	return s.Documents[k]
}

// ReadyHTML returns the rendered content of every ready document.
func (s State) ReadyHTML() map[models.DocumentKind]string {
	out := make(map[models.DocumentKind]string)
	for _, e := range s.Documents {
		if r, ok := e.Status.(Ready); ok {
			out[e.Kind] = r.HTML
		}
	}
	return out
}

// Views returns the wire view of every document in kind order.
func (s State) Views() []models.DocumentStatus {
	out := make([]models.DocumentStatus, 0, len(s.Documents))
	for _, e := range s.Documents {
		out = append(out, e.View())
	}
	return out
}

// Reduce applies a to s and returns the new state. Unknown actions and out-of-range kinds leave s unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case GenerateDocumentStart:
		return s.withStatus(act.Kind, Generating{})
	case GenerateDocumentSuccess:
		return s.withStatus(act.Kind, Ready{HTML: act.HTML, URL: act.URL, GeneratedAt: act.At})
	case GenerateDocumentError:
		return s.withStatus(act.Kind, Failed{Err: act.Err})
	case ResetDocument:
		return s.withStatus(act.Kind, Pending{})

	case SetContractData:
		s.Case.Contract = act.Contract
		s.Case.Customer = act.Customer
		s.Case.Vehicle = act.Vehicle
		s.Case.Calculations = act.Calculations
		s.Case.CompanyDocuments = act.CompanyDocuments
		s.Case.ContractFile = act.ContractFile
		s.Case.VehicleWithheld = act.VehicleWithheld
		s.Case.AsOf = act.AsOf
		return s
	case SetInvoices:
		s.Case.OverdueInvoices = act.Invoices
		return s
	case SetViolations:
		s.Case.TrafficViolations = act.Violations
		return s
	case SetTaqadiData:
		s.Case.TaqadiData = act.Data
		return s

	case GenerateAllStart:
		s.UI.IsGeneratingAll = true
		return s
	case GenerateAllComplete:
		s.UI.IsGeneratingAll = false
		return s
	case RegisterCaseStart:
		s.UI.IsRegistering = true
		return s
	case RegisterCaseComplete:
		s.UI.IsRegistering = false
		return s
	case ToggleTaqadiData:
		s.UI.ShowTaqadiData = !s.UI.ShowTaqadiData
		return s
	case SetCopiedField:
		s.UI.CopiedField = act.Field
		return s
	case SetLoading:
		s.UI.IsLoading = act.Loading
		return s
	case ResetState:
		return Initial(s.Case.ContractID, s.Case.CompanyID)
	}
	return s
}

// withStatus works on the copy s already is: Documents is an array, so the caller's state is untouched.
func (s State) withStatus(k models.DocumentKind, st Status) State {
	if !validKind(k) {
		return s
	}
	s.Documents[k] = Entry{Kind: k, Status: st}
	return s
}

func validKind(k models.DocumentKind) bool {
	return k >= 0 && int(k) < models.NumKinds
}

// ProgressOf projects readiness of the mandatory documents. It is recomputed on demand and never stored.
func ProgressOf(s State) models.Progress {
	ready := 0
	for _, k := range models.RequiredKinds {
		if s.Documents[k].IsReady() {
			ready++
		}
	}
	total := len(models.RequiredKinds)
	return models.Progress{
		Ready:      ready,
		Total:      total,
		Percentage: int(math.Round(float64(ready) / float64(total) * 100)),
	}
}

// Store serializes dispatches against a single state.
type Store struct {
	mu    sync.Mutex
	state State
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Dispatch reduces a into the current state and returns the result.
func (st *Store) Dispatch(a Action) State {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = Reduce(st.state, a)
	return st.state
}

// State returns a snapshot of the current state.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}
