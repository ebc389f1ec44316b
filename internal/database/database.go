// Package database stores save slots in sqlite: the world state, the event
// queue snapshots, the set of only-once events already triggered and the
// random source position.
package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"eventide/internal/log"
	"eventide/internal/random"
	"eventide/internal/scripting/manager"
	"eventide/internal/scripting/vm"
)

var ErrSlotNotFound = errors.New("save slot not found")

// Slot is one complete save
type Slot struct {
	Name    string
	SavedAt time.Time
	World   []byte // world fixture YAML
	State   manager.SaveState
}

// SlotInfo summarizes a slot for listings
type SlotInfo struct {
	Name    string
	SavedAt time.Time
	Events  int
}

// Store is a sqlite-backed save store
type Store struct {
	db       *sql.DB
	filename string
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Open opens or creates the database at filename and brings its schema up to date
func Open(filename string) (*Store, error) {
	db, err := sql.Open("sqlite", filename+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer; sqlite serializes anyway
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, filename: filename}
	if err = s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Debug("save database opened", "file", filename)
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	s.db = nil
	return nil
}

// SaveSlot writes slot, replacing any save with the same name
func (s *Store) SaveSlot(ctx context.Context, slot *Slot) error {
	if slot.Name == "" {
		return errors.New("save slot needs a name")
	}
	if slot.SavedAt.IsZero() {
		slot.SavedAt = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSlot(ctx, tx, slot.Name); err != nil {
		return err
	}

	world := slot.World
	if world == nil {
		world = []byte{}
	}
	insert := psql.Insert("save_slots").
		Columns("name", "world", "has_random", "seed", "draws", "saved_at")
	if rs := slot.State.Random; rs != nil {
		insert = insert.Values(slot.Name, world, 1, rs.Seed, int64(rs.Draws), slot.SavedAt.UnixMilli())
	} else {
		insert = insert.Values(slot.Name, world, 0, 0, 0, slot.SavedAt.UnixMilli())
	}
	if err := exec(ctx, tx, insert); err != nil {
		return fmt.Errorf("failed to insert slot %s: %w", slot.Name, err)
	}

	if len(slot.State.Events) > 0 {
		events := psql.Insert("slot_events").
			Columns("slot", "position", "event_id", "prefab", "trigger_name", "state", "snapshot")
		for i, snap := range slot.State.Events {
			data, err := json.Marshal(snap)
			if err != nil {
				return fmt.Errorf("failed to encode event %s: %w", snap.ID, err)
			}
			events = events.Values(slot.Name, i, snap.ID, snap.Prefab, snap.Trigger, snap.State, string(data))
		}
		if err := exec(ctx, tx, events); err != nil {
			return fmt.Errorf("failed to insert events for slot %s: %w", slot.Name, err)
		}
	}

	if len(slot.State.Triggered) > 0 {
		triggered := psql.Insert("slot_triggered").Columns("slot", "prefab")
		for _, nid := range slot.State.Triggered {
			triggered = triggered.Values(slot.Name, nid)
		}
		if err := exec(ctx, tx, triggered); err != nil {
			return fmt.Errorf("failed to insert triggered events for slot %s: %w", slot.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit slot %s: %w", slot.Name, err)
	}
	log.Info("saved slot", "slot", slot.Name, "events", len(slot.State.Events))
	return nil
}

// LoadSlot reads the slot called name
func (s *Store) LoadSlot(ctx context.Context, name string) (*Slot, error) {
	query, args, err := psql.Select("world", "has_random", "seed", "draws", "saved_at").
		From("save_slots").
		Where(squirrel.Eq{"name": name}).
		ToSql()
	if err != nil {
		return nil, err
	}

	slot := &Slot{Name: name}
	var hasRandom bool
	var seed, draws, savedAt int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&slot.World, &hasRandom, &seed, &draws, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slot %s: %w", name, err)
	}
	slot.SavedAt = time.UnixMilli(savedAt)
	if hasRandom {
		slot.State.Random = &random.State{Seed: seed, Draws: uint64(draws)}
	}

	if slot.State.Events, err = s.loadEvents(ctx, name); err != nil {
		return nil, err
	}
	if slot.State.Triggered, err = s.loadTriggered(ctx, name); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Store) loadEvents(ctx context.Context, slot string) ([]vm.Snapshot, error) {
	query, args, err := psql.Select("snapshot").
		From("slot_events").
		Where(squirrel.Eq{"slot": slot}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for slot %s: %w", slot, err)
	}
	defer rows.Close()

	events := []vm.Snapshot{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		var snap vm.Snapshot
		if err := json.Unmarshal([]byte(data), &snap); err != nil {
			return nil, fmt.Errorf("failed to decode saved event: %w", err)
		}
		events = append(events, snap)
	}
	return events, rows.Err()
}

func (s *Store) loadTriggered(ctx context.Context, slot string) ([]string, error) {
	query, args, err := psql.Select("prefab").
		From("slot_triggered").
		Where(squirrel.Eq{"slot": slot}).
		OrderBy("prefab").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query triggered events for slot %s: %w", slot, err)
	}
	defer rows.Close()

	triggered := []string{}
	for rows.Next() {
		var nid string
		if err := rows.Scan(&nid); err != nil {
			return nil, fmt.Errorf("failed to scan triggered row: %w", err)
		}
		triggered = append(triggered, nid)
	}
	return triggered, rows.Err()
}

// ListSlots returns every slot, most recent first
func (s *Store) ListSlots(ctx context.Context) ([]SlotInfo, error) {
	query, args, err := psql.Select("s.name", "s.saved_at", "COUNT(e.position)").
		From("save_slots s").
		LeftJoin("slot_events e ON e.slot = s.name").
		GroupBy("s.name", "s.saved_at").
		OrderBy("s.saved_at DESC", "s.name").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	defer rows.Close()

	var slots []SlotInfo
	for rows.Next() {
		var info SlotInfo
		var savedAt int64
		if err := rows.Scan(&info.Name, &savedAt, &info.Events); err != nil {
			return nil, fmt.Errorf("failed to scan slot row: %w", err)
		}
		info.SavedAt = time.UnixMilli(savedAt)
		slots = append(slots, info)
	}
	return slots, rows.Err()
}

// DeleteSlot removes a slot. Deleting a missing slot returns ErrSlotNotFound.
func (s *Store) DeleteSlot(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := psql.Select("COUNT(*)").From("save_slots").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return err
	}
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return fmt.Errorf("failed to look up slot %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrSlotNotFound, name)
	}
	if err := deleteSlot(ctx, tx, name); err != nil {
		return err
	}
	return tx.Commit()
}

// deleteSlot removes a slot and its rows. Child rows go first so it works
// without foreign key enforcement.
func deleteSlot(ctx context.Context, tx *sql.Tx, name string) error {
	for _, table := range []string{"slot_events", "slot_triggered"} {
		if err := exec(ctx, tx, psql.Delete(table).Where(squirrel.Eq{"slot": name})); err != nil {
			return fmt.Errorf("failed to clear %s for slot %s: %w", table, name, err)
		}
	}
	if err := exec(ctx, tx, psql.Delete("save_slots").Where(squirrel.Eq{"name": name})); err != nil {
		return fmt.Errorf("failed to delete slot %s: %w", name, err)
	}
	return nil
}

func exec(ctx context.Context, tx *sql.Tx, q squirrel.Sqlizer) error {
	query, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}
