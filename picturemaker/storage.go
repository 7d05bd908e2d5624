package picturemaker

import "github.com/hazyhaar/lapse/picturemaker/internal/storage"

// NewDirStorage writes shots as <folder>/<local time>.png. An empty layout
// keeps 2006-01-02_15-04-05.000.
func NewDirStorage(layout string) Storage {
	if layout != "" {
		return storage.New(storage.WithLayout(layout))
	}
	return storage.New()
}
