package models

const (
	ReservationActive    = "activa"
	ReservationCancelled = "cancelada"
	ReservationExpired   = "vencida"
	ReservationCompleted = "completada"
)

type Reservation struct {
	ID               string `json:"id"`
	UsuarioID        int    `json:"usuario_id"`
	LibroID          int    `json:"libro_id"`
	FechaReserva     Time   `json:"fecha_reserva"`
	FechaVencimiento Time   `json:"fecha_vencimiento"`
	Estado           string `json:"estado"`
	Notificado       bool   `json:"notificado"`
}

func (r Reservation) Active() bool { return r.Estado == ReservationActive }

type ReservationRequest struct {
	UsuarioID   int `json:"usuario_id"`
	LibroID     int `json:"libro_id"`
	DiasReserva int `json:"dias_reserva"`
}

const (
	NotifyDue       = "vencimiento"
	NotifyAvailable = "disponible"
	NotifyReminder  = "recordatorio"
	NotifyCancelled = "cancelacion"
)

type Notification struct {
	ID            string  `json:"id"`
	UsuarioID     int     `json:"usuario_id"`
	Tipo          string  `json:"tipo"`
	Mensaje       string  `json:"mensaje"`
	ReservaID     *string `json:"reserva_id,omitempty"`
	FechaCreacion Time    `json:"fecha_creacion"`
	Leida         bool    `json:"leida"`
}
