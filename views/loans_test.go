package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblioteca_portal/gateway"
	"biblioteca_portal/models"
)

var fixtureLoans = []models.Loan{
	{ID: 1, UsuarioID: 4, LibroID: 1, Estado: "activo"},
	{ID: 2, UsuarioID: 4, LibroID: 2, Estado: "devuelto", Multa: 1.5, DiasRetraso: 3},
	{ID: 3, UsuarioID: 4, LibroID: 3, Estado: "vencido"},
	{ID: 4, UsuarioID: 4, LibroID: 4, Estado: "activo"},
	{ID: 5, UsuarioID: 4, LibroID: 5, Estado: "perdido"},
}

func TestPartitionLoans(t *testing.T) {
	active, history := PartitionLoans(fixtureLoans)

	assert.Equal(t, []int{1, 4}, loanIDs(active))
	assert.Equal(t, []int{2, 3, 5}, loanIDs(history))

	seen := map[int]int{}
	for _, l := range append(append([]models.Loan{}, active...), history...) {
		seen[l.ID]++
	}
	assert.Len(t, seen, len(fixtureLoans))
	for id, n := range seen {
		assert.Equal(t, 1, n, "loan %d", id)
	}
}

func loanIDs(loans []models.Loan) []int {
	out := []int{}
	for _, l := range loans {
		out = append(out, l.ID)
	}
	return out
}

func TestLoanStatusLabel(t *testing.T) {
	assert.Equal(t, "Activo", LoanStatusLabel("activo"))
	assert.Equal(t, "Devuelto", LoanStatusLabel("devuelto"))
	assert.Equal(t, "Vencido", LoanStatusLabel("vencido"))
}

func TestReturnMessage(t *testing.T) {
	assert.Equal(t, "✅ Libro devuelto exitosamente", ReturnMessage(&models.ReturnResult{}))
	assert.Equal(t, "✅ Libro devuelto exitosamente\nMulta aplicada: $2.50", ReturnMessage(&models.ReturnResult{Multa: 2.5, DiasRetraso: 5}))
}

func TestLoansReturn(t *testing.T) {
	fb := &fakeBackend{
		ReturnLoanFunc: func(id int) (*models.ReturnResult, error) {
			assert.Equal(t, 1, id)
			return &models.ReturnResult{Message: "Libro devuelto exitosamente", Multa: 3}, nil
		},
		ListUserLoansFunc: func(userID int) ([]models.Loan, error) {
			assert.Equal(t, 4, userID)
			return fixtureLoans[1:], nil
		},
	}
	v := New(fb, nil, Options{})
	st := NewState(testSession)
	st.Loans = fixtureLoans

	var prompt string
	next, msg, err := v.Loans.Return(context.Background(), st, 1, func(p string) bool { prompt = p; return true })
	require.NoError(t, err)
	assert.Equal(t, ConfirmReturn, prompt)
	assert.Equal(t, "✅ Libro devuelto exitosamente\nMulta aplicada: $3.00", msg)
	assert.Len(t, next.Loans, 4)
	assert.Equal(t, []string{"ReturnLoan", "ListUserLoans"}, fb.Calls())
}

func TestLoansReturn_Declined(t *testing.T) {
	fb := &fakeBackend{}
	v := New(fb, nil, Options{})

	_, _, err := v.Loans.Return(context.Background(), NewState(testSession), 1, func(string) bool { return false })
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Empty(t, fb.Calls())
}

func TestLoansReturn_Failure(t *testing.T) {
	fb := &fakeBackend{
		ReturnLoanFunc: func(id int) (*models.ReturnResult, error) {
			return nil, &gateway.HTTPError{Service: "loans", Status: 400, Detail: "El libro ya fue devuelto"}
		},
	}
	v := New(fb, nil, Options{})

	_, msg, err := v.Loans.Return(context.Background(), NewState(testSession), 2, Always)
	require.Error(t, err)
	assert.Equal(t, "❌ Error al devolver el libro: El libro ya fue devuelto", msg)
	assert.Equal(t, []string{"ReturnLoan"}, fb.Calls())
}

func TestDetail_UsesSnapshotOnly(t *testing.T) {
	st := NewState(testSession)
	st.Loans = fixtureLoans

	d, ok := Detail(st, 2)
	require.True(t, ok)
	assert.True(t, d.HasFine)
	assert.Equal(t, "$1.50", d.Multa)
	assert.Equal(t, 3, d.DiasRetraso)
	assert.Equal(t, "Devuelto", d.Estado)

	d, ok = Detail(st, 1)
	require.True(t, ok)
	assert.False(t, d.HasFine)

	_, ok = Detail(st, 42)
	assert.False(t, ok)
}

func TestLoansView(t *testing.T) {
	st := NewState(testSession)
	st.Loans = fixtureLoans

	p := LoansView(st, 3, nil)
	assert.Len(t, p.Active, 2)
	assert.Len(t, p.History, 3)
	require.NotNil(t, p.Detail)
	assert.Equal(t, 3, p.Detail.ID)

	p = LoansView(st, 0, assert.AnError)
	assert.Equal(t, MsgLoansFailed, p.Error)
}
