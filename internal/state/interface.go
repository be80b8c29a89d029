package state

import (
	"database/sql"

	"github.com/llehouerou/chants/internal/playlist"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	SaveQueue(s playlist.Snapshot)
	GetQueue() (*playlist.Snapshot, error)
	GetCacheLimit() (int, error)
	SaveCacheLimit(mb int) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
