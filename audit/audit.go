// Package audit is a connection/event audit log: who connected, from
// where, what role they took, and why a connection was refused or
// dropped. It deliberately never stores frame or detection payloads —
// that's out of scope per spec's Non-goals ("persistence of frames or
// detections beyond what is in flight"); this is operational history,
// not the media pipeline.
package audit

import (
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/n0remac/camrelay/rlog"
)

// Event is one audited occurrence: a peer attaching, detaching, or
// being refused.
type Event struct {
	ID         uint `gorm:"primaryKey"`
	CreatedAt  time.Time
	Role       string
	RemoteAddr string
	Action     string // attach | detach | rejected_singleton | rate_limited | status
	Detail     string
}

// Log wraps a gorm database. A nil *Log is valid and every method on it
// is a no-op, so callers can construct audit.Open("") to disable
// auditing entirely without branching at every call site.
type Log struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the Event table. An empty dsn
// returns a nil *Log (auditing disabled). A dsn that looks like a
// Postgres connection string ("postgres://" or containing "host=") uses
// the Postgres driver; anything else is treated as a sqlite file path.
func Open(dsn string) (*Log, error) {
	if dsn == "" {
		return nil, nil
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Event{}); err != nil {
		return nil, err
	}
	return &Log{db: db}, nil
}

// Record appends one audit event. A failed write is logged by Record
// itself and not returned, rather than surfacing the gorm error into
// the hot connection path (§7: ambient concerns
// never block the relay).
func (l *Log) Record(role, remoteAddr, action, detail string) {
	if l == nil {
		return
	}
	if err := l.db.Create(&Event{
		CreatedAt:  time.Now(),
		Role:       role,
		RemoteAddr: remoteAddr,
		Action:     action,
		Detail:     detail,
	}).Error; err != nil {
		rlog.Error("audit: write failed", err, map[string]any{"action": action, "role": role})
	}
}
