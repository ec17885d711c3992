package models

import "time"

const ActivityTable = "biblio_activity_log"

// 审计动作
const (
	ActionReserve  = "reservar"
	ActionLoan     = "prestar"
	ActionReturn   = "devolver"
	ActionCancel   = "cancelar_reserva"
	ActionMarkRead = "leer_notificacion"
	ActionLogin    = "login"
	ActionLogout   = "logout"
)

// ActivityEntry 记录门户用户发起的写操作（本地审计，不影响业务）
type ActivityEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UsuarioID int       `gorm:"index;not null" json:"usuario_id"`
	Accion    string    `gorm:"size:40;not null" json:"accion"`
	RecursoID string    `gorm:"size:64" json:"recurso_id,omitempty"`
	Detalle   string    `gorm:"size:255" json:"detalle,omitempty"`
	OK        bool      `gorm:"not null" json:"ok"`
	RequestID string    `gorm:"size:64" json:"request_id,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ActivityEntry) TableName() string { return ActivityTable }
