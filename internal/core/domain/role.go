package domain

import (
	"fmt"
	"strings"
)

// Role groups permission identifiers under a name. Roles are created out of
// band; commands only mutate the permission set.
type Role struct {
	ID            string   `bson:"_id"`
	Name          string   `bson:"RoleName"`
	PermissionIDs []string `bson:"PermissionIds"`
	Version       int64    `bson:"version"`
}

// NewRole constructs a Role. The permission list must not contain duplicates;
// it is a set even though it is persisted as an array.
func NewRole(id, name string, permissionIDs []string) (*Role, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: role id must not be empty", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: role name must not be empty", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(permissionIDs))
	for _, p := range permissionIDs {
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("%w: duplicate permission %q", ErrInvalidInput, p)
		}
		seen[p] = struct{}{}
	}
	return &Role{
		ID:            id,
		Name:          name,
		PermissionIDs: permissionIDs,
		Version:       1,
	}, nil
}

// HasPermission reports whether permissionID is in the set.
func (r *Role) HasPermission(permissionID string) bool {
	for _, p := range r.PermissionIDs {
		if p == permissionID {
			return true
		}
	}
	return false
}

// AddPermission adds permissionID to the set. It returns false without
// mutating when the permission is already present.
func (r *Role) AddPermission(permissionID string) bool {
	if permissionID == "" || r.HasPermission(permissionID) {
		return false
	}
	r.PermissionIDs = append(r.PermissionIDs, permissionID)
	return true
}

// RemovePermission removes permissionID from the set. It returns false when
// the permission was not present.
func (r *Role) RemovePermission(permissionID string) bool {
	for i, p := range r.PermissionIDs {
		if p == permissionID {
			r.PermissionIDs = append(r.PermissionIDs[:i], r.PermissionIDs[i+1:]...)
			return true
		}
	}
	return false
}
