package usgs

import (
	"context"
	"fmt"
	"os"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// FileSource reads a feed document saved to disk, e.g. a downloaded
// all_week.geojson used for offline rendering.
type FileSource struct {
	Path string
}

// Fetch reads and parses the file.
func (f FileSource) Fetch(_ context.Context) (domain.Feed, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("read feed file: %w", err)
	}
	return domain.ParseFeed(data)
}
