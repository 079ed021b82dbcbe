// Package policy decides which role may perform which action.  It performs
// no I/O and holds no state, so it is safe to call from any goroutine.
package policy

import "github.com/iliyamo/hotel-reservation/internal/model"

// Action is an operation subject to authorization.
type Action uint8

const (
	CreateReservation Action = iota + 1
	ReadReservation
	CancelReservation
	ListAllReservations
	ProcessPayment
	ReadPayments
	ManageRooms
	ManageUsers
	ReadAudit
)

// Permit reports whether role may perform action.  isOwner tells whether
// the acting identity is the client the record belongs to (or, for
// CreateReservation, whether the reservation is being made for the actor
// themselves).  Unknown roles and actions are denied.
func Permit(role model.Role, action Action, isOwner bool) bool {
	switch role {
	case model.RoleAdmin:
		switch action {
		case CreateReservation, ReadReservation, CancelReservation, ListAllReservations,
			ProcessPayment, ReadPayments, ManageRooms, ManageUsers, ReadAudit:
			return true
		}
	case model.RoleFrontDesk:
		switch action {
		case CreateReservation, ReadReservation, CancelReservation, ListAllReservations,
			ProcessPayment, ReadPayments:
			return true
		}
	case model.RoleClient:
		switch action {
		case CreateReservation, ReadReservation, CancelReservation, ProcessPayment, ReadPayments:
			return isOwner
		}
	}
	return false
}
