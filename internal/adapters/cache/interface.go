package cache

// SeenCache remembers identifiers that already made it to the store, so a
// redelivered notification can be skipped before touching the database.
// Losing an entry is safe: the insert underneath is idempotent.
type SeenCache interface {
	Seen(id string) bool
	Mark(id string) error
}
