package picturemaker

import (
	"github.com/hazyhaar/lapse/picturemaker/internal/journal"
)

// Journal records sessions and shots in SQLite. It satisfies Recorder.
type Journal = journal.Journal

// OpenJournal opens (or creates) the journal database at path. The caller
// must blank-import modernc.org/sqlite.
func OpenJournal(path string) (*Journal, error) {
	return journal.Open(path)
}

var _ Recorder = (*journal.Journal)(nil)
