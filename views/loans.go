package views

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"biblioteca_portal/gateway"
	"biblioteca_portal/models"
)

const ConfirmReturn = "¿Estás seguro de que quieres devolver este libro?"

// PartitionLoans splits loans into active (estado activo) and history (everything else).
// Every loan lands in exactly one side and order is kept.
func PartitionLoans(loans []models.Loan) (active, history []models.Loan) {
	active = make([]models.Loan, 0, len(loans))
	history = make([]models.Loan, 0, len(loans))
	for _, l := range loans {
		if l.Active() {
			active = append(active, l)
		} else {
			history = append(history, l)
		}
	}
	return active, history
}

func LoanStatusLabel(estado string) string {
	switch estado {
	case models.LoanActive:
		return "Activo"
	case models.LoanReturned:
		return "Devuelto"
	case models.LoanOverdue:
		return "Vencido"
	}
	return estado
}

// ReturnMessage is the success text of a return; a fine is appended when charged
func ReturnMessage(r *models.ReturnResult) string {
	msg := "✅ Libro devuelto exitosamente"
	if r != nil && r.Multa > 0 {
		msg += "\nMulta aplicada: " + money(r.Multa)
	}
	return msg
}

type Loans struct {
	backend Backend
	log     *zap.Logger
}

// Load replaces the loan snapshot with the session user's loans
func (v *Loans) Load(ctx context.Context, st State) (State, error) {
	if err := requireSession(st); err != nil {
		return st, err
	}
	loans, err := v.backend.ListUserLoans(ctx, st.Session.Token, st.Session.User.ID)
	if err != nil {
		v.log.Warn("load loans", zap.Int("usuario_id", st.Session.User.ID), zap.Error(err))
		return st, err
	}
	st.Loans = loans
	return st, nil
}

// Return gives a loan back after confirmation and reloads the list
func (v *Loans) Return(ctx context.Context, st State, loanID int, confirm Confirmer) (State, string, error) {
	if err := requireSession(st); err != nil {
		return st, MsgLoginRequired, err
	}
	if !confirm(ConfirmReturn) {
		return st, "", ErrNotConfirmed
	}

	res, err := v.backend.ReturnLoan(ctx, st.Session.Token, loanID)
	if err != nil {
		v.log.Warn("return loan", zap.Int("prestamo_id", loanID), zap.Error(err))
		switch {
		case gateway.IsConnection(err):
			return st, "🔌 Error de conexión al devolver el libro", err
		case gateway.Detail(err) != "":
			return st, "❌ Error al devolver el libro: " + gateway.Detail(err), err
		}
		return st, "❌ Error al devolver el libro", err
	}

	if next, lerr := v.Load(ctx, st); lerr == nil {
		st = next
	}
	return st, ReturnMessage(res), nil
}

// LoanRow is a loan as listed
type LoanRow struct {
	models.Loan
	StatusLabel string
}

// LoanDetail is the overlay content for one loan
type LoanDetail struct {
	ID                  int
	LibroID             int
	UsuarioID           int
	FechaPrestamo       string
	FechaEsperada       string
	FechaDevolucionReal string
	Estado              string
	HasFine             bool
	Multa               string
	DiasRetraso         int
}

// Detail looks a loan up in the last snapshot; it never calls the backend
func Detail(st State, loanID int) (LoanDetail, bool) {
	for _, l := range st.Loans {
		if l.ID != loanID {
			continue
		}
		d := LoanDetail{
			ID:            l.ID,
			LibroID:       l.LibroID,
			UsuarioID:     l.UsuarioID,
			FechaPrestamo: l.FechaPrestamo.Date(),
			FechaEsperada: l.FechaDevolucionEsperada.Date(),
			Estado:        LoanStatusLabel(l.Estado),
		}
		if l.FechaDevolucionReal != nil {
			d.FechaDevolucionReal = l.FechaDevolucionReal.Date()
		}
		if l.Multa > 0 {
			d.HasFine = true
			d.Multa = money(l.Multa)
			d.DiasRetraso = l.DiasRetraso
		}
		return d, true
	}
	return LoanDetail{}, false
}

type LoansPage struct {
	Active  []LoanRow
	History []LoanRow
	Detail  *LoanDetail
	Error   string
}

const (
	EmptyActiveLoans = "No tienes préstamos activos"
	EmptyLoanHistory = "No hay historial de préstamos"
)

// LoansView builds the page; detailID > 0 opens the overlay for that loan
func LoansView(st State, detailID int, loadErr error) LoansPage {
	if loadErr != nil {
		return LoansPage{Error: MsgLoansFailed}
	}
	active, history := PartitionLoans(st.Loans)
	p := LoansPage{Active: loanRows(active), History: loanRows(history)}
	if detailID > 0 {
		if d, ok := Detail(st, detailID); ok {
			p.Detail = &d
		}
	}
	return p
}

func loanRows(loans []models.Loan) []LoanRow {
	rows := make([]LoanRow, 0, len(loans))
	for _, l := range loans {
		rows = append(rows, LoanRow{Loan: l, StatusLabel: LoanStatusLabel(l.Estado)})
	}
	return rows
}

// FineLabel is used by the history list
func FineLabel(l models.Loan) string {
	if l.Multa <= 0 {
		return ""
	}
	return fmt.Sprintf("Multa: %s", money(l.Multa))
}
