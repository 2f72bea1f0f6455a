// Package settings provides typed, persistent runtime settings.
//
// Settings live in a SQLite key/value table and are loaded once at
// startup. Each setter persists the new value immediately and fires the
// change callback, so the publish loop observes new values on its next
// tick without a restart.
//
// Architecture:
//
//	┌────────────┐   Load/Save    ┌──────────────┐
//	│ Publisher  │ ─────────────► │ SQLiteStore  │
//	│ (typed)    │                │ (key/value)  │
//	└────────────┘                └──────────────┘
//	      │ implements
//	      ▼
//	publish.Settings
//
// Like the sensor and publish packages, this package assumes a single
// goroutine owns the settings. Persistence errors are returned to the
// caller; the in-memory value is only updated after a successful save.
package settings
