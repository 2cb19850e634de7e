package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Daz-Mac/fishing-assistant/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// UpsertSnapshot records the latest state of an entity, overwriting any
// previous snapshot, and appends a history row. Latest wins: the snapshot
// table holds exactly one row per entity.
func (s *Store) UpsertSnapshot(snap models.EntitySnapshot, source string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO entity_snapshots (entity_id, state, attributes, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id) DO UPDATE SET
			state = excluded.state,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at
	`, snap.EntityID, snap.State, string(snap.Attributes), snap.UpdatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO snapshot_history (entity_id, state, attributes, recorded_at, source)
		VALUES (?, ?, ?, ?, ?)
	`, snap.EntityID, snap.State, string(snap.Attributes), snap.UpdatedAt, source); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) GetSnapshot(entityID string) (*models.EntitySnapshot, error) {
	row := s.db.QueryRow(`
		SELECT entity_id, state, attributes, updated_at
		FROM entity_snapshots
		WHERE entity_id = ?
	`, entityID)

	var snap models.EntitySnapshot
	var attrs sql.NullString
	err := row.Scan(&snap.EntityID, &snap.State, &attrs, &snap.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if attrs.Valid {
		snap.Attributes = json.RawMessage(attrs.String)
	}
	return &snap, nil
}

func (s *Store) ListSnapshots() ([]models.EntitySnapshot, error) {
	rows, err := s.db.Query(`
		SELECT entity_id, state, attributes, updated_at
		FROM entity_snapshots
		ORDER BY entity_id ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []models.EntitySnapshot
	for rows.Next() {
		var snap models.EntitySnapshot
		var attrs sql.NullString
		if err := rows.Scan(&snap.EntityID, &snap.State, &attrs, &snap.UpdatedAt); err != nil {
			return nil, err
		}
		if attrs.Valid {
			snap.Attributes = json.RawMessage(attrs.String)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// Sibling implements the card's sibling lookup on the snapshot table.
func (s *Store) Sibling(entityID string) (*models.EntitySnapshot, bool) {
	snap, err := s.GetSnapshot(entityID)
	if err != nil || snap == nil {
		return nil, false
	}
	return snap, true
}

func (s *Store) GetHistory(entityID string, start, end time.Time) ([]models.EntitySnapshot, error) {
	rows, err := s.db.Query(`
		SELECT entity_id, state, attributes, recorded_at
		FROM snapshot_history
		WHERE entity_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC
	`, entityID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []models.EntitySnapshot
	for rows.Next() {
		var snap models.EntitySnapshot
		var attrs sql.NullString
		if err := rows.Scan(&snap.EntityID, &snap.State, &attrs, &snap.UpdatedAt); err != nil {
			return nil, err
		}
		if attrs.Valid {
			snap.Attributes = json.RawMessage(attrs.String)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// PruneHistory deletes history rows older than the cutoff and returns the
// number removed.
func (s *Store) PruneHistory(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM snapshot_history WHERE recorded_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) UpsertCardConfig(cardID string, config json.RawMessage) error {
	_, err := s.db.Exec(`
		INSERT INTO card_configs (card_id, config, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(card_id) DO UPDATE SET
			config = excluded.config,
			updated_at = excluded.updated_at
	`, cardID, string(config), time.Now().UTC())
	return err
}

func (s *Store) GetCardConfig(cardID string) (json.RawMessage, error) {
	var config string
	err := s.db.QueryRow(`SELECT config FROM card_configs WHERE card_id = ?`, cardID).Scan(&config)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return json.RawMessage(config), nil
}

func (s *Store) ListCardIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT card_id FROM card_configs ORDER BY card_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) DeleteCard(cardID string) error {
	_, err := s.db.Exec(`DELETE FROM card_configs WHERE card_id = ?`, cardID)
	return err
}
