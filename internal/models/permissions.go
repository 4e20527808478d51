package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"unicode"
)

// Permission is a named capability a client may hold and a token may carry.
type Permission string

const (
	PermReadPrefs       Permission = "read_prefs"
	PermWritePrefs      Permission = "write_prefs"
	PermWriteDiary      Permission = "write_diary"
	PermWriteAPI        Permission = "write_api"
	PermReadGPX         Permission = "read_gpx"
	PermWriteGPX        Permission = "write_gpx"
	PermWriteNotes      Permission = "write_notes"
	PermWriteRedactions Permission = "write_redactions"
)

// AllPermissions lists every permission in display order.
var AllPermissions = []Permission{
	PermReadPrefs,
	PermWritePrefs,
	PermWriteDiary,
	PermWriteAPI,
	PermReadGPX,
	PermWriteGPX,
	PermWriteNotes,
	PermWriteRedactions,
}

var permissionBits = func() map[Permission]PermissionSet {
	m := make(map[Permission]PermissionSet, len(AllPermissions))
	for i, p := range AllPermissions {
		m[p] = 1 << uint(i)
	}
	return m
}()

// Description is the human readable label shown on the consent page.
func (p Permission) Description() string {
	switch p {
	case PermReadPrefs:
		return "read their user preferences"
	case PermWritePrefs:
		return "modify their user preferences"
	case PermWriteDiary:
		return "create diary entries, comments and make friends"
	case PermWriteAPI:
		return "modify the map"
	case PermReadGPX:
		return "read their private GPS traces"
	case PermWriteGPX:
		return "upload GPS traces"
	case PermWriteNotes:
		return "modify notes"
	case PermWriteRedactions:
		return "redact map data"
	default:
		return string(p)
	}
}

// ParsePermission resolves a permission by name.
func ParsePermission(name string) (Permission, bool) {
	p := Permission(name)
	_, ok := permissionBits[p]
	return p, ok
}

// PermissionSet is a bitmask over AllPermissions. The zero value is empty.
// Stored in the database as space-separated permission names.
type PermissionSet uint16

// NewPermissionSet builds a set from the given permissions.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s |= permissionBits[p]
	}
	return s
}

// FullPermissionSet returns a set holding every permission.
func FullPermissionSet() PermissionSet {
	return NewPermissionSet(AllPermissions...)
}

// ParsePermissionSet parses permission names separated by spaces, commas or
// both. Unknown names are an error.
func ParsePermissionSet(s string) (PermissionSet, error) {
	var set PermissionSet
	for _, name := range strings.FieldsFunc(s, isPermissionSeparator) {
		p, ok := ParsePermission(name)
		if !ok {
			return 0, fmt.Errorf("unknown permission %q", name)
		}
		set |= permissionBits[p]
	}
	return set, nil
}

func isPermissionSeparator(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	bit, ok := permissionBits[p]
	return ok && s&bit != 0
}

// Intersect returns the permissions present in both sets.
func (s PermissionSet) Intersect(other PermissionSet) PermissionSet {
	return s & other
}

// IsSubsetOf reports whether every permission in s is also in other.
func (s PermissionSet) IsSubsetOf(other PermissionSet) bool {
	return s&^other == 0
}

// IsEmpty reports whether the set has no permissions.
func (s PermissionSet) IsEmpty() bool {
	return s == 0
}

// List returns the permissions in display order.
func (s PermissionSet) List() []Permission {
	var out []Permission
	for _, p := range AllPermissions {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s PermissionSet) String() string {
	names := make([]string, 0, len(AllPermissions))
	for _, p := range s.List() {
		names = append(names, string(p))
	}
	return strings.Join(names, " ")
}

// Value implements driver.Valuer interface
func (s PermissionSet) Value() (driver.Value, error) {
	return s.String(), nil
}

// Scan implements sql.Scanner interface
func (s *PermissionSet) Scan(value any) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*s = 0
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("failed to scan PermissionSet value: %v", value)
	}
	parsed, err := ParsePermissionSet(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
