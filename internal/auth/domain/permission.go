package domain

import "strings"

// Permission is a bit set of operations a principal may perform on a
// resource. Permissions combine with bitwise OR and are checked with Has;
// a check for a combined requirement passes only when every bit is present.
type Permission uint8

const (
	// PermissionCreate allows creating new resources.
	PermissionCreate Permission = 1 << iota

	// PermissionRead allows reading resource data.
	PermissionRead

	// PermissionUpdate allows replacing resource data.
	PermissionUpdate

	// PermissionDelete allows removing resources.
	PermissionDelete
)

// PermissionAll grants every defined permission.
const PermissionAll = PermissionCreate | PermissionRead | PermissionUpdate | PermissionDelete

// Has reports whether every bit of required is present in p.
func (p Permission) Has(required Permission) bool {
	return p&required == required
}

// String renders the set as a comma-separated list, "none" when empty.
func (p Permission) String() string {
	if p == 0 {
		return "none"
	}

	names := make([]string, 0, 4)
	if p.Has(PermissionCreate) {
		names = append(names, "create")
	}
	if p.Has(PermissionRead) {
		names = append(names, "read")
	}
	if p.Has(PermissionUpdate) {
		names = append(names, "update")
	}
	if p.Has(PermissionDelete) {
		names = append(names, "delete")
	}
	return strings.Join(names, ",")
}

// ParsePermission converts a single permission name to its bit. Unknown names
// return false.
func ParsePermission(name string) (Permission, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "create":
		return PermissionCreate, true
	case "read":
		return PermissionRead, true
	case "update":
		return PermissionUpdate, true
	case "delete":
		return PermissionDelete, true
	default:
		return 0, false
	}
}

// ParsePermissions converts a comma-separated list of permission names to a
// bit set. Unknown names return false; an empty list is the empty set.
func ParsePermissions(list string) (Permission, bool) {
	var permission Permission
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		bit, ok := ParsePermission(name)
		if !ok {
			return 0, false
		}
		permission |= bit
	}
	return permission, true
}
