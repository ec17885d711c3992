package views

import (
	"context"
	"sync"

	"biblioteca_portal/models"
)

// fakeBackend records calls in order; unset funcs return zero values
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	ListBooksFunc            func() ([]models.Book, error)
	CreateLoanFunc           func(in models.LoanRequest) (*models.Loan, error)
	ListUserLoansFunc        func(userID int) ([]models.Loan, error)
	ListAllLoansFunc         func() ([]models.Loan, error)
	ReturnLoanFunc           func(loanID int) (*models.ReturnResult, error)
	CreateReservationFunc    func(in models.ReservationRequest) (*models.Reservation, error)
	ListUserReservationsFunc func(userID int) ([]models.Reservation, error)
	CancelReservationFunc    func(id string) (*models.Reservation, error)
	ListNotificationsFunc    func(userID int) ([]models.Notification, error)
	MarkNotificationReadFunc func(id string) error
}

func (f *fakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) ListBooks(ctx context.Context, token string) ([]models.Book, error) {
	f.record("ListBooks")
	if f.ListBooksFunc != nil {
		return f.ListBooksFunc()
	}
	return nil, nil
}

func (f *fakeBackend) CreateLoan(ctx context.Context, token string, in models.LoanRequest) (*models.Loan, error) {
	f.record("CreateLoan")
	if f.CreateLoanFunc != nil {
		return f.CreateLoanFunc(in)
	}
	return &models.Loan{}, nil
}

func (f *fakeBackend) ListUserLoans(ctx context.Context, token string, userID int) ([]models.Loan, error) {
	f.record("ListUserLoans")
	if f.ListUserLoansFunc != nil {
		return f.ListUserLoansFunc(userID)
	}
	return nil, nil
}

func (f *fakeBackend) ListAllLoans(ctx context.Context, token string) ([]models.Loan, error) {
	f.record("ListAllLoans")
	if f.ListAllLoansFunc != nil {
		return f.ListAllLoansFunc()
	}
	return nil, nil
}

func (f *fakeBackend) ReturnLoan(ctx context.Context, token string, loanID int) (*models.ReturnResult, error) {
	f.record("ReturnLoan")
	if f.ReturnLoanFunc != nil {
		return f.ReturnLoanFunc(loanID)
	}
	return &models.ReturnResult{}, nil
}

func (f *fakeBackend) CreateReservation(ctx context.Context, token string, in models.ReservationRequest) (*models.Reservation, error) {
	f.record("CreateReservation")
	if f.CreateReservationFunc != nil {
		return f.CreateReservationFunc(in)
	}
	return &models.Reservation{}, nil
}

func (f *fakeBackend) ListUserReservations(ctx context.Context, token string, userID int) ([]models.Reservation, error) {
	f.record("ListUserReservations")
	if f.ListUserReservationsFunc != nil {
		return f.ListUserReservationsFunc(userID)
	}
	return nil, nil
}

func (f *fakeBackend) CancelReservation(ctx context.Context, token, id string) (*models.Reservation, error) {
	f.record("CancelReservation")
	if f.CancelReservationFunc != nil {
		return f.CancelReservationFunc(id)
	}
	return &models.Reservation{}, nil
}

func (f *fakeBackend) ListNotifications(ctx context.Context, token string, userID int) ([]models.Notification, error) {
	f.record("ListNotifications")
	if f.ListNotificationsFunc != nil {
		return f.ListNotificationsFunc(userID)
	}
	return nil, nil
}

func (f *fakeBackend) MarkNotificationRead(ctx context.Context, token, id string) error {
	f.record("MarkNotificationRead")
	if f.MarkNotificationReadFunc != nil {
		return f.MarkNotificationReadFunc(id)
	}
	return nil
}

var testSession = models.Session{
	Token: "tok",
	User:  models.User{ID: 4, Username: "estudiante1", FullName: "Ana Pérez", Role: "estudiante"},
}
