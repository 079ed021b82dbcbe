package model

import "time"

// Audit action codes written by the services.
const (
	AuditUserCreate        = "USER_CREATE"
	AuditRoomCreate        = "ROOM_CREATE"
	AuditRoomUpdate        = "ROOM_UPDATE"
	AuditRoomImage         = "ROOM_IMAGE_UPLOAD"
	AuditReservationCreate = "RESERVATION_CREATE"
	AuditReservationCancel = "RESERVATION_CANCEL"
	AuditPaymentRecord     = "PAYMENT_RECORD"
)

// AuditEntry is one append-only row of the audit trail.
type AuditEntry struct {
	ID      uint64    // audit_log.id
	At      time.Time // audit_log.created_at
	ActorID uint64    // audit_log.actor_id
	DBRole  string    // audit_log.db_role, the storage account that applied the change
	Action  string    // audit_log.action
	Detail  string    // audit_log.detail
}
