// Package store records telemetry sessions, their events, and the player's
// car samples into a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/heyvito/f1telem/proto"
)

// Store wraps a SQLite database holding recorded telemetry. It is safe for
// concurrent use.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// Session is a recorded session.
type Session struct {
	UID              uint64
	Format           uint16
	GameMajorVersion uint8
	GameMinorVersion uint8
	PlayerCarIndex   uint8
	FirstSeenAt      time.Time
	LastSeenAt       time.Time
	LastFrame        uint32
	LastSessionTime  float32
}

// EventRecord is a recorded event. Details holds the JSON representation of
// the event details.
type EventRecord struct {
	ID          uuid.UUID
	SessionUID  uint64
	Frame       uint32
	SessionTime float32
	Code        proto.EventCode
	Details     json.RawMessage
	RecordedAt  time.Time
}

// Open opens (creating if required) the database at path and applies any
// pending migration.
func Open(logger *zap.Logger, path string) (*Store, error) {
	log := logger.With(zap.String("facility", "store"))
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err = db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed applying %q: %w", pragma, err)
		}
	}

	if err = migrateUp(db, log); err != nil {
		_ = db.Close()
		return nil, err
	}

	version, _, err := schemaVersion(db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	log.Debug("Database ready", zap.String("path", path), zap.Uint("schema_version", version))

	return &Store{db: db, log: log, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func uidKey(uid uint64) string { return strconv.FormatUint(uid, 10) }

// RecordSession registers the session h belongs to, or updates its last seen
// frame in case it is already known.
func (s *Store) RecordSession(ctx context.Context, h proto.Header) error {
	now := s.now().UnixNano()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (
			session_uid, format, game_major_version, game_minor_version,
			player_car_index, first_seen_at, last_seen_at, last_frame,
			last_session_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_uid) DO UPDATE SET
			last_seen_at = excluded.last_seen_at,
			last_frame = MAX(last_frame, excluded.last_frame),
			last_session_time = MAX(last_session_time, excluded.last_session_time)`,
		uidKey(h.SessionUID), h.Format, h.GameMajorVersion, h.GameMinorVersion,
		h.PlayerCarIndex, now, now, h.FrameIdentifier, h.SessionTime)
	if err != nil {
		return fmt.Errorf("failed recording session: %w", err)
	}
	return nil
}

// Sessions returns every recorded session, most recently seen first.
func (s *Store) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_uid, format, game_major_version, game_minor_version,
			player_car_index, first_seen_at, last_seen_at, last_frame,
			last_session_time
		FROM sessions ORDER BY last_seen_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess        Session
			uid         string
			first, last int64
		)
		if err = rows.Scan(&uid, &sess.Format, &sess.GameMajorVersion, &sess.GameMinorVersion,
			&sess.PlayerCarIndex, &first, &last, &sess.LastFrame, &sess.LastSessionTime); err != nil {
			return nil, err
		}
		if sess.UID, err = strconv.ParseUint(uid, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid session uid %q: %w", uid, err)
		}
		sess.FirstSeenAt = time.Unix(0, first)
		sess.LastSeenAt = time.Unix(0, last)
		out = append(out, sess)
	}
	return out, rows.Err()
}

// RecordEvent stores ev, received with header h, and returns the identifier
// assigned to it.
func (s *Store) RecordEvent(ctx context.Context, h proto.Header, ev *proto.Event) (uuid.UUID, error) {
	details, err := json.Marshal(ev.Details)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed encoding event details: %w", err)
	}

	id := uuid.New()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (event_id, session_uid, frame, session_time, code, details, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), uidKey(h.SessionUID), h.FrameIdentifier, h.SessionTime,
		ev.Code.String(), string(details), s.now().UnixNano())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed recording event: %w", err)
	}
	return id, nil
}

// Events returns every event recorded for the provided session, ordered by
// frame.
func (s *Store) Events(ctx context.Context, sessionUID uint64) ([]EventRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, frame, session_time, code, details, recorded_at
		FROM events WHERE session_uid = ? ORDER BY frame, recorded_at`,
		uidKey(sessionUID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EventRecord
	for rows.Next() {
		var (
			rec        EventRecord
			id, code   string
			details    string
			recordedAt int64
		)
		if err = rows.Scan(&id, &rec.Frame, &rec.SessionTime, &code, &details, &recordedAt); err != nil {
			return nil, err
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid event id %q: %w", id, err)
		}
		if err = rec.Code.UnmarshalText([]byte(code)); err != nil {
			return nil, err
		}
		rec.SessionUID = sessionUID
		rec.Details = json.RawMessage(details)
		rec.RecordedAt = time.Unix(0, recordedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecordPlayerSample stores the player's car telemetry for the frame
// identified by h. Samples for an already recorded frame replace it.
func (s *Store) RecordPlayerSample(ctx context.Context, h proto.Header, t proto.CarTelemetry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO player_samples (
			session_uid, frame, session_time, speed, throttle, brake, steer,
			gear, engine_rpm, drs
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uidKey(h.SessionUID), h.FrameIdentifier, h.SessionTime, t.Speed, t.Throttle,
		t.Brake, t.Steer, t.Gear, t.EngineRPM, t.DRS)
	if err != nil {
		return fmt.Errorf("failed recording player sample: %w", err)
	}
	return nil
}

// PlayerSample is a reduced view of a recorded CarTelemetry.
type PlayerSample struct {
	Frame       uint32
	SessionTime float32
	Speed       uint16
	Throttle    float32
	Brake       float32
	Steer       float32
	Gear        int8
	EngineRPM   uint16
	DRS         uint8
}

// PlayerSamples returns every sample recorded for the provided session,
// ordered by frame.
func (s *Store) PlayerSamples(ctx context.Context, sessionUID uint64) ([]PlayerSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT frame, session_time, speed, throttle, brake, steer, gear, engine_rpm, drs
		FROM player_samples WHERE session_uid = ? ORDER BY frame`,
		uidKey(sessionUID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerSample
	for rows.Next() {
		var p PlayerSample
		if err = rows.Scan(&p.Frame, &p.SessionTime, &p.Speed, &p.Throttle, &p.Brake,
			&p.Steer, &p.Gear, &p.EngineRPM, &p.DRS); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
