package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegisteredOwner(t *testing.T) {
	citizenID := uuid.New()
	owner := RegisteredOwner(citizenID)

	assert.True(t, owner.IsRegistered())

	id, ok := owner.CitizenID()
	assert.True(t, ok)
	assert.Equal(t, citizenID, id)

	_, ok = owner.Anonymous()
	assert.False(t, ok)
}

func TestAnonymousOwner(t *testing.T) {
	info := AnonymousInfo{Name: "Jane", Email: "jane@example.com"}
	owner := AnonymousOwner(info)

	assert.False(t, owner.IsRegistered())

	_, ok := owner.CitizenID()
	assert.False(t, ok)

	got, ok := owner.Anonymous()
	assert.True(t, ok)
	assert.Equal(t, info, got)
}

func TestOwnerZeroValueIsAnonymous(t *testing.T) {
	var owner Owner
	assert.False(t, owner.IsRegistered())

	info, ok := owner.Anonymous()
	assert.True(t, ok)
	assert.Equal(t, AnonymousInfo{}, info)
}

func TestComplaintOwner(t *testing.T) {
	citizenID := uuid.New()

	registered := Complaint{CitizenID: &citizenID}
	id, ok := registered.Owner().CitizenID()
	assert.True(t, ok)
	assert.Equal(t, citizenID, id)

	anon := Complaint{AnonymousInfo: &AnonymousInfo{Name: "Alex"}}
	assert.False(t, anon.Owner().IsRegistered())
	info, _ := anon.Owner().Anonymous()
	assert.Equal(t, "Alex", info.Name)

	// A complaint with neither field is treated as anonymous.
	var bare Complaint
	assert.False(t, bare.Owner().IsRegistered())
}

func TestComplaintPublicProjection(t *testing.T) {
	citizenID := uuid.New()
	c := Complaint{
		ID:            uuid.New(),
		Title:         "Broken streetlight",
		Description:   "Dark corner at 5th and Main",
		Category:      CategoryStreetlight,
		Location:      Location{Latitude: 40.1, Longitude: -75.2, Address: "5th and Main"},
		Status:        StatusPending,
		VoteCount:     3,
		CitizenID:     &citizenID,
		AnonymousInfo: nil,
		InternalNotes: []InternalNote{{Note: "checked on site"}},
	}

	p := c.Public()
	assert.Equal(t, c.ID, p.ID)
	assert.Equal(t, c.Title, p.Title)
	assert.Equal(t, c.Category, p.Category)
	assert.Equal(t, c.Location, p.Location)
	assert.Equal(t, 3, p.VoteCount)
}
