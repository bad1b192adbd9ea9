package models

import "github.com/google/uuid"

// AnonymousInfo is free-text contact information for complaints filed
// without an account. Every field is optional.
type AnonymousInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Owner identifies who filed a complaint: either a registered citizen or
// anonymous contact info, never both. Use the constructors; the zero value
// is anonymous with no contact details.
type Owner struct {
	citizenID  uuid.UUID
	anonymous  AnonymousInfo
	registered bool
}

// RegisteredOwner builds an owner backed by a citizen account.
func RegisteredOwner(citizenID uuid.UUID) Owner {
	return Owner{citizenID: citizenID, registered: true}
}

// AnonymousOwner builds an owner from optional contact info.
func AnonymousOwner(info AnonymousInfo) Owner {
	return Owner{anonymous: info}
}

// IsRegistered reports whether the owner is a citizen account.
func (o Owner) IsRegistered() bool { return o.registered }

// CitizenID returns the owning citizen's id and whether one exists.
func (o Owner) CitizenID() (uuid.UUID, bool) {
	if !o.registered {
		return uuid.Nil, false
	}
	return o.citizenID, true
}

// Anonymous returns the anonymous contact info and whether the owner is
// anonymous.
func (o Owner) Anonymous() (AnonymousInfo, bool) {
	if o.registered {
		return AnonymousInfo{}, false
	}
	return o.anonymous, true
}
