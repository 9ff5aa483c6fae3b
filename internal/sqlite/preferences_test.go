package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskshelf/internal/prefs"
)

func TestPreferences_RemovePersists(t *testing.T) {
	b := setupBackend(t)
	p, err := b.Preferences()
	require.NoError(t, err)

	require.NoError(t, p.Edit().PutString("a", "1").PutString("b", "2").Commit())
	require.NoError(t, p.Edit().Remove("a").Commit())

	values, err := loadPreferences(b.db)
	require.NoError(t, err)
	assert.Equal(t, map[string]prefs.Value{"b": {Kind: prefs.KindString, Str: "2"}}, values)
}

func TestPreferences_KindChangeOverwrites(t *testing.T) {
	b := setupBackend(t)
	p, err := b.Preferences()
	require.NoError(t, err)

	require.NoError(t, p.Edit().PutString("k", "text").Commit())
	require.NoError(t, p.Edit().PutInt64("k", 7).Commit())

	values, err := loadPreferences(b.db)
	require.NoError(t, err)
	assert.Equal(t, prefs.Value{Kind: prefs.KindInt64, Int: 7}, values["k"])
}

func TestPreferences_SkipsUndecodableRows(t *testing.T) {
	b := setupBackend(t)
	_, err := b.db.Exec("INSERT INTO preferences (key, kind, value) VALUES ('bad', 'int64', 'x'), ('odd', 'float', '1.5'), ('ok', 'bool', 'true')")
	require.NoError(t, err)

	values, err := loadPreferences(b.db)
	require.NoError(t, err)
	assert.Equal(t, map[string]prefs.Value{"ok": {Kind: prefs.KindBool, Bool: true}}, values)
}

func TestEncodeDecodeValue(t *testing.T) {
	for _, v := range []prefs.Value{
		{Kind: prefs.KindString, Str: "hello"},
		{Kind: prefs.KindInt64, Int: -42},
		{Kind: prefs.KindBool, Bool: true},
	} {
		got, ok := decodeValue(v.Kind, encodeValue(v))
		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
}
