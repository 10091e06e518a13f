package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/pace-bias/internal/models"
)

// LocalDirSource reads and writes day card documents in the local data
// directory, one <yyyy-mm-dd>.json per day. It is the canonical store the
// augmentation step persists into.
type LocalDirSource struct {
	dir string
}

// NewLocalDirSource creates a day source backed by a directory of JSON files.
func NewLocalDirSource(dir string) *LocalDirSource {
	return &LocalDirSource{dir: dir}
}

// Name returns the name of the data source
func (s *LocalDirSource) Name() string { return "local_dir" }

// Dir returns the backing data directory.
func (s *LocalDirSource) Dir() string { return s.dir }

// Path returns the file path for a day's card document.
func (s *LocalDirSource) Path(date models.YMD) string {
	return filepath.Join(s.dir, date.ISO()+".json")
}

// FetchDay reads the card document for one calendar day.
func (s *LocalDirSource) FetchDay(ctx context.Context, date models.YMD) (*models.RaceDay, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewSourceError(s.Name(), ErrCodeNotFound,
				fmt.Sprintf("no card document for %s", date.ISO()), models.ErrNotFound)
		}
		return nil, NewSourceError(s.Name(), ErrCodeNetworkError, "failed to read card document", err)
	}

	day, err := decodeDay(data)
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "failed to decode card document", err)
	}
	return day, nil
}

// StoreDay writes the card document back to the data directory, creating the
// directory when needed.
func (s *LocalDirSource) StoreDay(day *models.RaceDay) error {
	if day.Date == "" {
		return NewSourceError(s.Name(), ErrCodeInvalidData, "day document has no date", nil)
	}
	date, err := models.ParseISODate(day.Date)
	if err != nil {
		return NewSourceError(s.Name(), ErrCodeInvalidData, "day document has a bad date", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(day, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode card document: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.Path(date), data, 0o644); err != nil {
		return fmt.Errorf("failed to write card document: %w", err)
	}
	return nil
}

// decodeDay parses and sanity-checks a day card document.
func decodeDay(data []byte) (*models.RaceDay, error) {
	var day models.RaceDay
	if err := json.Unmarshal(data, &day); err != nil {
		return nil, err
	}
	if day.Date == "" {
		return nil, fmt.Errorf("day document has no date")
	}
	if _, err := models.ParseISODate(day.Date); err != nil {
		return nil, fmt.Errorf("day document has a bad date %q: %w", day.Date, err)
	}
	return &day, nil
}
