package views

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biblioteca_portal/gateway"
	"biblioteca_portal/models"
)

func TestDashboardCounters(t *testing.T) {
	allLoans := append([]models.Loan{
		{ID: 90, UsuarioID: 7, Estado: "activo"},
		{ID: 91, UsuarioID: 7, Estado: "activo"},
	}, fixtureLoans...)

	fb := &fakeBackend{
		ListBooksFunc:            func() ([]models.Book, error) { return fixtureBooks, nil },
		ListAllLoansFunc:         func() ([]models.Loan, error) { return allLoans, nil },
		ListUserReservationsFunc: func(int) ([]models.Reservation, error) { return fixtureReservations, nil },
	}
	v := New(fb, nil, Options{})

	c, err := v.Dashboard.Counters(context.Background(), NewState(testSession))
	require.NoError(t, err)
	assert.Equal(t, Counters{TotalBooks: 4, ActiveLoans: 2, ActiveReservations: 2}, c)
	assert.NotContains(t, fb.Calls(), "ListUserLoans")
}

func TestDashboardCounters_Scoped(t *testing.T) {
	fb := &fakeBackend{
		ListUserLoansFunc: func(userID int) ([]models.Loan, error) { return fixtureLoans, nil },
	}
	v := New(fb, nil, Options{ScopedLoans: true})

	c, err := v.Dashboard.Counters(context.Background(), NewState(testSession))
	require.NoError(t, err)
	assert.Equal(t, 2, c.ActiveLoans)
	assert.NotContains(t, fb.Calls(), "ListAllLoans")
}

func TestDashboardRefresh_AnyFailureZeroesAll(t *testing.T) {
	fb := &fakeBackend{
		ListBooksFunc:    func() ([]models.Book, error) { return fixtureBooks, nil },
		ListAllLoansFunc: func() ([]models.Loan, error) { return nil, &gateway.HTTPError{Status: 503} },
		ListUserReservationsFunc: func(int) ([]models.Reservation, error) {
			return fixtureReservations, nil
		},
	}
	v := New(fb, nil, Options{})

	st := v.Dashboard.Refresh(context.Background(), NewState(testSession))
	require.NotNil(t, st.Counters)
	assert.Equal(t, Counters{}, *st.Counters)
	assert.Equal(t, DashboardPage{}, DashboardView(st))
}

func TestDashboardCounters_NoSession(t *testing.T) {
	fb := &fakeBackend{}
	v := New(fb, nil, Options{})

	_, err := v.Dashboard.Counters(context.Background(), State{})
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, fb.Calls())
}

func TestActivityLabel(t *testing.T) {
	assert.Equal(t, "Devolución", ActivityLabel(models.ActionReturn))
	assert.Equal(t, "otra", ActivityLabel("otra"))
}
