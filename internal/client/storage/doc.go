// Package storage is the client's persistent key-value store.
//
// Values are strings addressed by string keys; callers own the encoding
// (the session record and archive list are JSON). The SQLite implementation
// keeps everything in a single kv table created by the embedded goose
// migrations (see Open).
//
// Get reports absence with ok == false and a nil error. Remove and RemoveMany
// are idempotent.
package storage
