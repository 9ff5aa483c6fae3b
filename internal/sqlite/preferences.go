package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/taskshelf/internal/prefs"
)

// loadPreferences reads the whole preferences table. Rows with an
// unparseable value are skipped.
func loadPreferences(db *sql.DB) (map[string]prefs.Value, error) {
	rows, err := db.Query("SELECT key, kind, value FROM preferences")
	if err != nil {
		return nil, fmt.Errorf("querying preferences: %w", err)
	}
	defer rows.Close()

	values := make(map[string]prefs.Value)
	for rows.Next() {
		var key, kind, raw string
		if err := rows.Scan(&key, &kind, &raw); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		v, ok := decodeValue(prefs.Kind(kind), raw)
		if !ok {
			continue
		}
		values[key] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating preferences: %w", err)
	}
	return values, nil
}

// persistPreferences returns a commit hook writing a batch of changes in one
// transaction.
func persistPreferences(db *sql.DB) prefs.PersistFunc {
	return func(changes []prefs.Change) error {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction: %w", err)
		}
		defer tx.Rollback()

		for _, c := range changes {
			if c.Value == nil {
				if _, err := tx.Exec("DELETE FROM preferences WHERE key = ?", c.Key); err != nil {
					return fmt.Errorf("removing preference %s: %w", c.Key, err)
				}
				continue
			}
			_, err := tx.Exec(
				"INSERT INTO preferences (key, kind, value) VALUES (?, ?, ?) "+
					"ON CONFLICT(key) DO UPDATE SET kind = excluded.kind, value = excluded.value",
				c.Key, string(c.Value.Kind), encodeValue(*c.Value),
			)
			if err != nil {
				return fmt.Errorf("writing preference %s: %w", c.Key, err)
			}
		}
		return tx.Commit()
	}
}

func encodeValue(v prefs.Value) string {
	switch v.Kind {
	case prefs.KindInt64:
		return strconv.FormatInt(v.Int, 10)
	case prefs.KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

func decodeValue(kind prefs.Kind, raw string) (prefs.Value, bool) {
	switch kind {
	case prefs.KindString:
		return prefs.Value{Kind: kind, Str: raw}, true
	case prefs.KindInt64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return prefs.Value{}, false
		}
		return prefs.Value{Kind: kind, Int: n}, true
	case prefs.KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return prefs.Value{}, false
		}
		return prefs.Value{Kind: kind, Bool: b}, true
	default:
		return prefs.Value{}, false
	}
}
