package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the write-side aggregate root. It is the authoritative
// representation; read-side projections are derived from its events.
type User struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	LastName  string    `bson:"lastName"`
	Email     string    `bson:"email"`
	RoleID    string    `bson:"roleId"`
	Address   string    `bson:"address"` // optional, empty when not provided
	Phone     string    `bson:"phone"`   // optional, empty when not provided
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// NewUser constructs a User and enforces the aggregate invariants:
// well-formed id, non-empty name and last name, and a plausible email.
func NewUser(id, name, lastName, email, roleID, address, phone string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: user id %q is not a valid uuid", ErrInvalidInput, id)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, fmt.Errorf("%w: last name must not be empty", ErrInvalidInput)
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(roleID) == "" {
		return nil, fmt.Errorf("%w: role id must not be empty", ErrInvalidInput)
	}

	now := time.Now().UTC()
	return &User{
		ID:        id,
		Name:      name,
		LastName:  lastName,
		Email:     email,
		RoleID:    roleID,
		Address:   address,
		Phone:     phone,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Update applies a partial update: nil fields are left unchanged.
// Email is immutable and the role reference changes only through ChangeRole.
func (u *User) Update(name, lastName, address, phone *string) error {
	if name != nil {
		if strings.TrimSpace(*name) == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		u.Name = *name
	}
	if lastName != nil {
		if strings.TrimSpace(*lastName) == "" {
			return fmt.Errorf("%w: last name must not be empty", ErrInvalidInput)
		}
		u.LastName = *lastName
	}
	if address != nil {
		u.Address = *address
	}
	if phone != nil {
		u.Phone = *phone
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeRole repoints the user's role reference. The caller is responsible
// for verifying that the role exists before calling.
func (u *User) ChangeRole(roleID string) error {
	if strings.TrimSpace(roleID) == "" {
		return fmt.Errorf("%w: role id must not be empty", ErrInvalidInput)
	}
	u.RoleID = roleID
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func validateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
	}
	return nil
}
