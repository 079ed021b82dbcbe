package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/hotel-reservation/internal/model"
)

func TestPermit(t *testing.T) {
	tests := []struct {
		name    string
		role    model.Role
		action  Action
		isOwner bool
		want    bool
	}{
		{"client books for self", model.RoleClient, CreateReservation, true, true},
		{"client books for other", model.RoleClient, CreateReservation, false, false},
		{"front desk books for other", model.RoleFrontDesk, CreateReservation, false, true},
		{"admin books for other", model.RoleAdmin, CreateReservation, false, true},

		{"client reads own", model.RoleClient, ReadReservation, true, true},
		{"client reads other", model.RoleClient, ReadReservation, false, false},
		{"client cancels other", model.RoleClient, CancelReservation, false, false},
		{"front desk reads any", model.RoleFrontDesk, ReadReservation, false, true},
		{"front desk cancels any", model.RoleFrontDesk, CancelReservation, false, true},
		{"admin cancels any", model.RoleAdmin, CancelReservation, false, true},

		{"client lists all", model.RoleClient, ListAllReservations, true, false},
		{"front desk lists all", model.RoleFrontDesk, ListAllReservations, false, true},

		{"client pays own", model.RoleClient, ProcessPayment, true, true},
		{"client pays other", model.RoleClient, ProcessPayment, false, false},
		{"front desk pays", model.RoleFrontDesk, ProcessPayment, false, true},
		{"admin pays", model.RoleAdmin, ProcessPayment, false, true},

		{"client manages rooms", model.RoleClient, ManageRooms, true, false},
		{"front desk manages rooms", model.RoleFrontDesk, ManageRooms, true, false},
		{"admin manages rooms", model.RoleAdmin, ManageRooms, false, true},

		{"front desk manages users", model.RoleFrontDesk, ManageUsers, false, false},
		{"admin reads audit", model.RoleAdmin, ReadAudit, false, true},
		{"front desk reads audit", model.RoleFrontDesk, ReadAudit, false, false},

		{"unknown role", model.Role("guest"), ReadReservation, true, false},
		{"unknown action", model.RoleAdmin, Action(0), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Permit(tt.role, tt.action, tt.isOwner))
		})
	}
}
