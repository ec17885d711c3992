package cli

import (
	"fmt"
	"io"

	"biblioteca_portal/models"
	"biblioteca_portal/views"
)

// truncateString shortens s to maxLength runes, marking the cut with "..."
func truncateString(s string, maxLength int) string {
	r := []rune(s)
	if len(r) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(r[:maxLength])
	}
	return string(r[:maxLength-3]) + "..."
}

func printCounters(w io.Writer, user models.User, c views.Counters) {
	fmt.Fprintf(w, "Bienvenido, %s\n\n", user.FullName)
	fmt.Fprintf(w, "%-22s %d\n", "Libros en catálogo:", c.TotalBooks)
	fmt.Fprintf(w, "%-22s %d\n", "Préstamos activos:", c.ActiveLoans)
	fmt.Fprintf(w, "%-22s %d\n", "Reservas activas:", c.ActiveReservations)
}

func printCatalog(w io.Writer, p views.CatalogPage) {
	if p.Error != "" {
		fmt.Fprintln(w, p.Error)
		return
	}
	fmt.Fprintf(w, "%-5s %-30s %-25s %-15s %s\n", "ID", "Título", "Autor", "Categoría", "Disponibles")
	for _, b := range p.Books {
		avail := fmt.Sprintf("%d/%d", b.EjemplaresDisponibles, b.EjemplaresTotales)
		if b.Disabled {
			avail += " (sin ejemplares)"
		}
		fmt.Fprintf(w, "%-5d %-30s %-25s %-15s %s\n",
			b.ID,
			truncateString(b.Titulo, 30),
			truncateString(b.Autor, 25),
			truncateString(b.Categoria, 15),
			avail,
		)
	}
	fmt.Fprintln(w, p.CountLabel)
}

func printLoans(w io.Writer, p views.LoansPage) {
	if p.Error != "" {
		fmt.Fprintln(w, p.Error)
		return
	}
	fmt.Fprintln(w, "Préstamos activos")
	if len(p.Active) == 0 {
		fmt.Fprintln(w, "  "+views.EmptyActiveLoans)
	} else {
		printLoanRows(w, p.Active)
	}
	fmt.Fprintln(w, "\nHistorial")
	if len(p.History) == 0 {
		fmt.Fprintln(w, "  "+views.EmptyLoanHistory)
	} else {
		printLoanRows(w, p.History)
	}
	if p.Detail != nil {
		printLoanDetail(w, *p.Detail)
	}
}

func printLoanRows(w io.Writer, rows []views.LoanRow) {
	fmt.Fprintf(w, "%-5s %-6s %-12s %-12s %-10s %s\n", "ID", "Libro", "Prestado", "Devolver", "Estado", "Multa")
	for _, r := range rows {
		fmt.Fprintf(w, "%-5d %-6d %-12s %-12s %-10s %s\n",
			r.ID, r.LibroID, r.FechaPrestamo.Date(), r.FechaDevolucionEsperada.Date(), r.StatusLabel, views.FineLabel(r.Loan))
	}
}

func printLoanDetail(w io.Writer, d views.LoanDetail) {
	fmt.Fprintf(w, "\nDetalle del préstamo #%d\n", d.ID)
	fmt.Fprintf(w, "  %-20s #%d\n", "Libro:", d.LibroID)
	fmt.Fprintf(w, "  %-20s #%d\n", "Usuario:", d.UsuarioID)
	fmt.Fprintf(w, "  %-20s %s\n", "Fecha de préstamo:", d.FechaPrestamo)
	fmt.Fprintf(w, "  %-20s %s\n", "Devolución esperada:", d.FechaEsperada)
	fmt.Fprintf(w, "  %-20s %s\n", "Estado:", d.Estado)
	if d.FechaDevolucionReal != "" {
		fmt.Fprintf(w, "  %-20s %s\n", "Devuelto el:", d.FechaDevolucionReal)
	}
	if d.HasFine {
		fmt.Fprintf(w, "  %-20s %s\n", "Multa:", d.Multa)
		fmt.Fprintf(w, "  %-20s %d\n", "Días de retraso:", d.DiasRetraso)
	}
}

func printNotifications(w io.Writer, rows []views.NotificationRow) {
	fmt.Fprintln(w, "Notificaciones")
	if len(rows) == 0 {
		fmt.Fprintln(w, "  No tienes notificaciones nuevas")
		return
	}
	for _, n := range rows {
		fmt.Fprintf(w, "  [%s] %-12s %s (%s)\n", n.ID, n.Tipo, n.Mensaje, n.FechaCreacion.Date())
	}
}

func printReservations(w io.Writer, p views.ReservationsPage) {
	printNotifications(w, p.Notifications)
	fmt.Fprintln(w)
	if p.Error != "" {
		fmt.Fprintln(w, p.Error)
		return
	}
	fmt.Fprintf(w, "%-12s %-38s %-6s %-12s %-12s %s\n", "Reserva", "ID", "Libro", "Reservada", "Vence", "Estado")
	for _, r := range p.Items {
		fmt.Fprintf(w, "%-12s %-38s %-6d %-12s %-12s %s\n",
			r.ShortID, r.ID, r.LibroID, r.FechaReserva.Date(), r.FechaVencimiento.Date(), r.StatusLabel)
	}
	fmt.Fprintln(w, p.CountLabel)
}
