package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/wavestream/internal/db"
)

// QueueTrack represents a track in the saved queue.
type QueueTrack struct {
	ID           string
	Title        string
	Artist       string
	CoverRef     string
	AudioRef     string
	DurationHint time.Duration
}

// Snapshot is the saved transport state: queue, current track, modes and
// the media position at the time of the write.
type Snapshot struct {
	Tracks       []QueueTrack
	CurrentIndex int
	Current      *QueueTrack
	Volume       float64
	Shuffle      bool
	RepeatMode   string
	IsPlaying    bool
	Elapsed      time.Duration
	SourceRef    string
	SavedAt      time.Time
}

func getSnapshot(db *sql.DB) (*Snapshot, error) {
	var (
		s                             Snapshot
		shuffle, isPlaying            bool
		elapsedMS, savedAtMS          int64
		curID, curTitle, curArtist    sql.Null[string]
		curCover, curAudio, sourceRef sql.Null[string]
		curDurationMS                 sql.Null[int64]
	)
	row := db.QueryRow(`
		SELECT current_index, volume, shuffle, repeat_mode, is_playing,
			elapsed_ms, source_ref, saved_at,
			current_id, current_title, current_artist, current_cover,
			current_audio, current_duration_ms
		FROM player_state WHERE id = 1
	`)
	err := row.Scan(
		&s.CurrentIndex, &s.Volume, &shuffle, &s.RepeatMode, &isPlaying,
		&elapsedMS, &sourceRef, &savedAtMS,
		&curID, &curTitle, &curArtist, &curCover,
		&curAudio, &curDurationMS,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // nil snapshot means nothing saved yet
	}
	if err != nil {
		return nil, err
	}

	s.Shuffle = shuffle
	s.IsPlaying = isPlaying
	s.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	s.SourceRef = dbutil.Value(sourceRef)
	s.SavedAt = time.UnixMilli(savedAtMS)
	if curID.Valid {
		s.Current = &QueueTrack{
			ID:           curID.V,
			Title:        dbutil.Value(curTitle),
			Artist:       dbutil.Value(curArtist),
			CoverRef:     dbutil.Value(curCover),
			AudioRef:     dbutil.Value(curAudio),
			DurationHint: time.Duration(dbutil.Value(curDurationMS)) * time.Millisecond,
		}
	}

	s.Tracks, err = getQueueTracks(db)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func getQueueTracks(db *sql.DB) ([]QueueTrack, error) {
	rows, err := db.Query(`
		SELECT track_id, title, artist, cover_ref, audio_ref, duration_ms
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []QueueTrack
	for rows.Next() {
		var t QueueTrack
		var title, artist, cover, audio sql.Null[string]
		var durationMS sql.Null[int64]

		if err := rows.Scan(&t.ID, &title, &artist, &cover, &audio, &durationMS); err != nil {
			return nil, err
		}

		t.Title = dbutil.Value(title)
		t.Artist = dbutil.Value(artist)
		t.CoverRef = dbutil.Value(cover)
		t.AudioRef = dbutil.Value(audio)
		t.DurationHint = time.Duration(dbutil.Value(durationMS)) * time.Millisecond
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

func saveSnapshot(sqlDB *sql.DB, s Snapshot) error {
	return dbutil.WithTx(sqlDB, func(tx *sql.Tx) error {
		// Clear existing queue
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}

		var cur QueueTrack
		if s.Current != nil {
			cur = *s.Current
		}
		_, err := tx.Exec(`
			INSERT INTO player_state (
				id, current_index, volume, shuffle, repeat_mode, is_playing,
				elapsed_ms, source_ref, saved_at,
				current_id, current_title, current_artist, current_cover,
				current_audio, current_duration_ms
			)
			VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index,
				volume = excluded.volume,
				shuffle = excluded.shuffle,
				repeat_mode = excluded.repeat_mode,
				is_playing = excluded.is_playing,
				elapsed_ms = excluded.elapsed_ms,
				source_ref = excluded.source_ref,
				saved_at = excluded.saved_at,
				current_id = excluded.current_id,
				current_title = excluded.current_title,
				current_artist = excluded.current_artist,
				current_cover = excluded.current_cover,
				current_audio = excluded.current_audio,
				current_duration_ms = excluded.current_duration_ms
		`,
			s.CurrentIndex, s.Volume, s.Shuffle, s.RepeatMode, s.IsPlaying,
			s.Elapsed.Milliseconds(), dbutil.NonZero(s.SourceRef), s.SavedAt.UnixMilli(),
			dbutil.NonZero(cur.ID), dbutil.NonZero(cur.Title),
			dbutil.NonZero(cur.Artist), dbutil.NonZero(cur.CoverRef),
			dbutil.NonZero(cur.AudioRef), cur.DurationHint.Milliseconds(),
		)
		if err != nil {
			return err
		}

		// Insert tracks
		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, track_id, title, artist, cover_ref, audio_ref, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range s.Tracks {
			_, err = stmt.Exec(i, t.ID,
				dbutil.NonZero(t.Title), dbutil.NonZero(t.Artist),
				dbutil.NonZero(t.CoverRef), dbutil.NonZero(t.AudioRef),
				t.DurationHint.Milliseconds())
			if err != nil {
				return err
			}
		}
		return nil
	})
}
