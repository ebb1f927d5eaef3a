package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Store provides read access to the media catalog database.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the catalog database at the given path. The catalog must
// already exist; reclaim never creates or migrates it.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("open catalog: empty path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA query_only = ON",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the catalog database path.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// ReadHashedRecords returns every catalog row carrying a perceptual hash.
// Rows missing the fields required for resolution (basename, parent, size)
// are skipped; optional columns become nil pointers rather than zero values.
func (s *Store) ReadHashedRecords(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT file_id, file_model, file_basename, file_parent, file_size,
               phash, duration, video_codec, audio_codec, video_format,
               width, height, bit_rate, frame_rate
        FROM files
        WHERE phash IS NOT NULL AND phash != ''`)
	if err != nil {
		return nil, fmt.Errorf("query hashed records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			id          int64
			model       sql.NullString
			basename    sql.NullString
			parent      sql.NullString
			size        sql.NullInt64
			phash       string
			duration    sql.NullFloat64
			videoCodec  sql.NullString
			audioCodec  sql.NullString
			videoFormat sql.NullString
			width       sql.NullInt64
			height      sql.NullInt64
			bitRate     sql.NullInt64
			frameRate   sql.NullString
		)
		if err := rows.Scan(
			&id, &model, &basename, &parent, &size,
			&phash, &duration, &videoCodec, &audioCodec, &videoFormat,
			&width, &height, &bitRate, &frameRate,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}

		if !basename.Valid || basename.String == "" || !parent.Valid || parent.String == "" {
			continue
		}
		if !size.Valid || size.Int64 < 0 {
			continue
		}

		record := Record{
			ID:             id,
			SourceModel:    model.String,
			Basename:       basename.String,
			ParentDir:      parent.String,
			SizeBytes:      size.Int64,
			PerceptualHash: phash,
		}
		if duration.Valid {
			value := duration.Float64
			record.DurationSeconds = &value
		}
		record.VideoCodec = nullableString(videoCodec)
		record.AudioCodec = nullableString(audioCodec)
		record.VideoFormat = nullableString(videoFormat)
		record.Width = nullableInt(width)
		record.Height = nullableInt(height)
		record.BitRate = nullableInt(bitRate)
		record.FrameRate = nullableString(frameRate)

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return records, nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid || value.String == "" {
		return nil
	}
	text := value.String
	return &text
}

func nullableInt(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	number := value.Int64
	return &number
}
