package views

import (
	"errors"
	"fmt"

	"biblioteca_portal/gateway"
)

const (
	MsgUnknownError   = "Error desconocido"
	MsgConnection     = "🔌 Error de conexión. Verifica que el servidor esté funcionando."
	MsgLoginRequired  = "Debes iniciar sesión para continuar"
	MsgUnavailable    = "No hay ejemplares disponibles de este libro"
	MsgCatalogFailed  = "Error al cargar el catálogo. Verifica que el servicio esté funcionando."
	MsgLoansFailed    = "Error al cargar los préstamos"
	MsgReservasFailed = "Error al cargar las reservas"
	MsgInvalidLogin   = "Credenciales inválidas"
)

// Reason is the user facing text for err: the server detail when there is one,
// the connection message for transport failures, otherwise fallback.
func Reason(err error, fallback string) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnavailable):
		return MsgUnavailable
	case errors.Is(err, ErrNoSession), gateway.IsUnauthenticated(err):
		return MsgLoginRequired
	case gateway.IsConnection(err):
		return MsgConnection
	}
	if d := gateway.Detail(err); d != "" {
		return d
	}
	return fallback
}

// Failure prefixes the reason with the action that failed
func Failure(action string, err error, fallback string) string {
	if gateway.IsConnection(err) {
		return fmt.Sprintf("🔌 Error de conexión al %s", action)
	}
	return fmt.Sprintf("❌ Error al %s: %s", action, Reason(err, fallback))
}

// Plural builds labels like "1 libro encontrado" / "3 libros encontrados"
func Plural(n int, noun, adj string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s %s", n, noun, adj)
	}
	return fmt.Sprintf("%d %ss %ss", n, noun, adj)
}

// ShortID is the reservation label: first 8 characters plus "...", or N/A
func ShortID(id string) string {
	if id == "" {
		return "N/A"
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return id + "..."
}

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }
