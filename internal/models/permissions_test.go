package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermissionSet_Basics(t *testing.T) {
	s := NewPermissionSet(PermReadPrefs, PermWriteNotes)

	assert.True(t, s.Has(PermReadPrefs))
	assert.True(t, s.Has(PermWriteNotes))
	assert.False(t, s.Has(PermWritePrefs))
	assert.False(t, s.Has(Permission("bogus")))
	assert.Equal(t, []Permission{PermReadPrefs, PermWriteNotes}, s.List())
	assert.Equal(t, "read_prefs write_notes", s.String())
	assert.True(t, PermissionSet(0).IsEmpty())
}

func TestPermissionSet_Intersect(t *testing.T) {
	ceiling := NewPermissionSet(PermReadPrefs, PermReadGPX)
	granted := NewPermissionSet(PermReadPrefs, PermWritePrefs)

	got := granted.Intersect(ceiling)
	assert.Equal(t, NewPermissionSet(PermReadPrefs), got)
	assert.True(t, got.IsSubsetOf(ceiling))
	assert.True(t, got.IsSubsetOf(granted))
	assert.False(t, granted.IsSubsetOf(ceiling))
}

func TestParsePermissionSet(t *testing.T) {
	s, err := ParsePermissionSet("  read_gpx   write_gpx ")
	require.NoError(t, err)
	assert.Equal(t, NewPermissionSet(PermReadGPX, PermWriteGPX), s)

	for _, raw := range []string{"read_prefs,write_notes", "read_prefs, write_notes", " write_notes,,read_prefs ,"} {
		s, err := ParsePermissionSet(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, NewPermissionSet(PermReadPrefs, PermWriteNotes), s, raw)
	}

	empty, err := ParsePermissionSet("")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = ParsePermissionSet("read_prefs admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"admin"`)

	_, err = ParsePermissionSet("read_prefs,admin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"admin"`)
}

func TestPermissionSet_ScanValue(t *testing.T) {
	full := FullPermissionSet()
	v, err := full.Value()
	require.NoError(t, err)

	var scanned PermissionSet
	require.NoError(t, scanned.Scan([]byte(v.(string))))
	assert.Equal(t, full, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.True(t, scanned.IsEmpty())

	require.Error(t, scanned.Scan(42))
}

func TestFullPermissionSet(t *testing.T) {
	full := FullPermissionSet()
	for _, p := range AllPermissions {
		assert.True(t, full.Has(p), "full set should contain %s", p)
	}
	assert.Len(t, full.List(), len(AllPermissions))
}
