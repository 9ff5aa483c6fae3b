package types

// Preferences is a persistent key-value store for small settings. Reads are
// served from memory; writes go through an Editor and become visible only
// after Commit succeeds.
type Preferences interface {
	// GetString returns the string stored under key. ok is false when the
	// key is missing or holds another kind of value.
	GetString(key string) (value string, ok bool)
	GetInt64(key string) (value int64, ok bool)
	GetBool(key string) (value bool, ok bool)
	Contains(key string) bool

	// Edit starts a batch of changes.
	Edit() Editor
}

// Editor batches preference changes. Changes apply in call order; Commit
// writes all of them or none.
type Editor interface {
	PutString(key, value string) Editor
	PutInt64(key string, value int64) Editor
	PutBool(key string, value bool) Editor
	Remove(key string) Editor
	Commit() error
}
