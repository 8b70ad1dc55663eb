package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stayspot/accommodation-booking/internal/model"
)

func TestAuthPolicy(t *testing.T) {
	var p AuthPolicy

	assert.True(t, p.IsConstrainedRole(model.RoleCustomer))
	assert.False(t, p.IsConstrainedRole(model.RoleManager))

	owner := &model.User{ID: 1, Role: model.RoleCustomer}
	other := &model.User{ID: 2, Role: model.RoleCustomer}
	manager := &model.User{ID: 9, Role: model.RoleManager}
	booking := &model.Booking{ID: 5, UserID: 1}

	assert.True(t, p.CanMutateBooking(owner, booking))
	assert.False(t, p.CanMutateBooking(other, booking))
	assert.True(t, p.CanMutateBooking(manager, booking))

	assert.True(t, p.CanReadUserPayments(owner, 1))
	assert.False(t, p.CanReadUserPayments(other, 1))
	assert.True(t, p.CanReadUserPayments(manager, 1))
}
