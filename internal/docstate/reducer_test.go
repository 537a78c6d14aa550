package docstate

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lllllllleong/lawsuitflow/internal/models"
)

func TestReduce_StartThenError(t *testing.T) {
	for _, k := range models.AllKinds() {
		t.Run(k.String(), func(t *testing.T) {
			s := Initial("c-1", "co-1")
			s = Reduce(s, GenerateDocumentStart{Kind: k})
			assert.Equal(t, StatusGenerating, s.Entry(k).Status.Name())

			s = Reduce(s, GenerateDocumentError{Kind: k, Err: "template exploded"})
			e := s.Entry(k)
			require.IsType(t, Failed{}, e.Status)
			assert.Equal(t, "template exploded", e.Status.(Failed).Err)
			assert.Empty(t, e.HTML())
			assert.False(t, e.IsReady())
		})
	}
}

func TestReduce_SuccessThenResetRestoresInitialShape(t *testing.T) {
	initial := Initial("c-1", "co-1")
	for _, k := range models.AllKinds() {
		t.Run(k.String(), func(t *testing.T) {
			s := Reduce(initial, GenerateDocumentStart{Kind: k})
			s = Reduce(s, GenerateDocumentSuccess{Kind: k, URL: "blob:x", HTML: "<p>x</p>", At: time.Now()})
			require.True(t, s.Entry(k).IsReady())

			s = Reduce(s, ResetDocument{Kind: k})
			assert.Equal(t, initial.Entry(k), s.Entry(k))
			assert.Equal(t, initial.Documents, s.Documents)
		})
	}
}

func TestReduce_ErrorClearsPreviousContent(t *testing.T) {
	s := Initial("c-1", "co-1")
	s = Reduce(s, GenerateDocumentSuccess{Kind: models.KindMemo, URL: "blob:m", HTML: "<p>m</p>", At: time.Now()})
	s = Reduce(s, GenerateDocumentStart{Kind: models.KindMemo})
	s = Reduce(s, GenerateDocumentError{Kind: models.KindMemo, Err: "boom"})

	v := s.Entry(models.KindMemo).View()
	assert.Equal(t, StatusError, v.Status)
	assert.Empty(t, v.HTML)
	assert.Empty(t, v.URL)
	assert.Empty(t, v.GeneratedAt)
}

func TestReduce_DoesNotMutateInput(t *testing.T) {
	before := Initial("c-1", "co-1")
	after := Reduce(before, GenerateDocumentStart{Kind: models.KindClaims})

	assert.Equal(t, StatusPending, before.Entry(models.KindClaims).Status.Name())
	assert.Equal(t, StatusGenerating, after.Entry(models.KindClaims).Status.Name())
}

func TestReduce_StartWhileGeneratingIsOverwrite(t *testing.T) {
	s := Reduce(Initial("c-1", "co-1"), GenerateDocumentStart{Kind: models.KindMemo})
	again := Reduce(s, GenerateDocumentStart{Kind: models.KindMemo})
	assert.Equal(t, s, again)
}

func TestProgressOf(t *testing.T) {
	s := Initial("c-1", "co-1")
	p := ProgressOf(s)
	assert.Equal(t, models.Progress{Ready: 0, Total: 3, Percentage: 0}, p)

	for _, k := range models.RequiredKinds {
		t.Run(k.String(), func(t *testing.T) {
			one := Reduce(s, GenerateDocumentSuccess{Kind: k, URL: "blob:1", HTML: "<p/>", At: time.Now()})
			p := ProgressOf(one)
			assert.Equal(t, 1, p.Ready)
			assert.Equal(t, 33, p.Percentage)
		})
	}

	all := s
	for _, k := range models.RequiredKinds {
		all = Reduce(all, GenerateDocumentSuccess{Kind: k, HTML: "<p/>", At: time.Now()})
	}
	assert.Equal(t, 100, ProgressOf(all).Percentage)

	// optional kinds never count toward progress
	opt := Reduce(s, GenerateDocumentSuccess{Kind: models.KindViolations, HTML: "<p/>", At: time.Now()})
	assert.Equal(t, 0, ProgressOf(opt).Ready)
}

func TestReduce_ProgressTracksTwoOfThree(t *testing.T) {
	s := Initial("c-1", "co-1")
	s = Reduce(s, GenerateDocumentSuccess{Kind: models.KindMemo, HTML: "<p/>", At: time.Now()})
	s = Reduce(s, GenerateDocumentSuccess{Kind: models.KindClaims, HTML: "<p/>", At: time.Now()})
	assert.Equal(t, 67, ProgressOf(s).Percentage)

	s = Reduce(s, ResetDocument{Kind: models.KindClaims})
	assert.Equal(t, 33, ProgressOf(s).Percentage)
}

func TestReduce_SetSlicesLastWriteWins(t *testing.T) {
	s := Initial("c-1", "co-1")
	s = Reduce(s, SetInvoices{Invoices: []models.Invoice{{ID: "i1"}, {ID: "i2"}}})
	s = Reduce(s, SetInvoices{Invoices: []models.Invoice{{ID: "i3"}}})
	require.Len(t, s.Case.OverdueInvoices, 1)
	assert.Equal(t, "i3", s.Case.OverdueInvoices[0].ID)

	s = Reduce(s, SetViolations{Violations: []models.Violation{{ID: "v1"}}})
	s = Reduce(s, SetViolations{Violations: nil})
	assert.Empty(t, s.Case.TrafficViolations)

	calc := models.NewCalculations(decimal.NewFromInt(500), decimal.NewFromInt(50), decimal.Zero, decimal.Zero, 0)
	s = Reduce(s, SetContractData{Contract: &models.Contract{Number: "RC-1"}, Calculations: &calc})
	s = Reduce(s, SetContractData{Contract: &models.Contract{Number: "RC-2"}})
	assert.Equal(t, "RC-2", s.Case.Contract.Number)
	assert.Nil(t, s.Case.Calculations)
}

func TestReduce_UIFlags(t *testing.T) {
	s := Initial("c-1", "co-1")
	s = Reduce(s, GenerateAllStart{})
	assert.True(t, s.UI.IsGeneratingAll)
	assert.Equal(t, StatusPending, s.Entry(models.KindMemo).Status.Name())
	s = Reduce(s, GenerateAllComplete{})
	assert.False(t, s.UI.IsGeneratingAll)

	s = Reduce(s, RegisterCaseStart{})
	assert.True(t, s.UI.IsRegistering)
	s = Reduce(s, RegisterCaseComplete{})
	assert.False(t, s.UI.IsRegistering)

	s = Reduce(s, ToggleTaqadiData{})
	assert.True(t, s.UI.ShowTaqadiData)
	s = Reduce(s, SetCopiedField{Field: "facts"})
	assert.Equal(t, "facts", s.UI.CopiedField)
	s = Reduce(s, SetLoading{Loading: true})
	assert.True(t, s.UI.IsLoading)
}

func TestReduce_ResetState(t *testing.T) {
	s := Initial("c-1", "co-1")
	s = Reduce(s, SetInvoices{Invoices: []models.Invoice{{ID: "i1"}}})
	s = Reduce(s, GenerateDocumentSuccess{Kind: models.KindMemo, HTML: "<p/>", At: time.Now()})
	s = Reduce(s, ToggleTaqadiData{})

	s = Reduce(s, ResetState{})
	assert.Equal(t, Initial("c-1", "co-1"), s)
}

func TestReduce_OutOfRangeKindIsIgnored(t *testing.T) {
	s := Initial("c-1", "co-1")
	assert.Equal(t, s, Reduce(s, GenerateDocumentStart{Kind: models.DocumentKind(99)}))
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	st := NewStore(Initial("c-1", "co-1"))
	var wg sync.WaitGroup
	for _, k := range models.AllKinds() {
		wg.Add(1)
		go func(k models.DocumentKind) {
			defer wg.Done()
			st.Dispatch(GenerateDocumentStart{Kind: k})
			st.Dispatch(GenerateDocumentSuccess{Kind: k, HTML: "<p/>", At: time.Now()})
		}(k)
	}
	wg.Wait()

	for _, k := range models.AllKinds() {
		assert.True(t, st.State().Entry(k).IsReady(), k.String())
	}
}
