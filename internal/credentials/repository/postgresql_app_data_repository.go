package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/allisson/requestguard/internal/database"
	apperrors "github.com/allisson/requestguard/internal/errors"
)

// PostgreSQLAppDataRepository implements the vault AppDataRepository for PostgreSQL.
type PostgreSQLAppDataRepository struct {
	db *sql.DB
}

// NewPostgreSQLAppDataRepository creates a new PostgreSQL app data repository.
func NewPostgreSQLAppDataRepository(db *sql.DB) *PostgreSQLAppDataRepository {
	return &PostgreSQLAppDataRepository{db: db}
}

// GetData retrieves the user's document.
func (p *PostgreSQLAppDataRepository) GetData(
	ctx context.Context,
	userID string,
) (map[string]json.RawMessage, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT data FROM app_data WHERE user_id = $1`

	var raw []byte
	err := querier.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.WrapKind(apperrors.ErrStoreFailure, err, "failed to get app data")
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, apperrors.WrapKind(apperrors.ErrStoreFailure, err, "failed to decode app data")
	}
	return doc, nil
}

// UpsertField merges {field: value} into the user's document with the jsonb || operator,
// which replaces only that top-level key.
func (p *PostgreSQLAppDataRepository) UpsertField(
	ctx context.Context,
	userID, field string,
	value json.RawMessage,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO app_data (user_id, data, updated_at)
			  VALUES ($1, jsonb_build_object($2::text, $3::jsonb), $4)
			  ON CONFLICT (user_id) DO UPDATE
			  SET data = COALESCE(app_data.data, '{}'::jsonb) || EXCLUDED.data,
			      updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(ctx, query, userID, field, string(value), time.Now().UTC())
	if err != nil {
		return apperrors.WrapKind(apperrors.ErrStoreFailure, err, "failed to upsert app data")
	}
	return nil
}
