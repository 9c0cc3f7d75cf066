package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/allisson/requestguard/internal/database"
	apperrors "github.com/allisson/requestguard/internal/errors"
)

// MySQLAppDataRepository implements the vault AppDataRepository for MySQL.
type MySQLAppDataRepository struct {
	db *sql.DB
}

// NewMySQLAppDataRepository creates a new MySQL app data repository.
func NewMySQLAppDataRepository(db *sql.DB) *MySQLAppDataRepository {
	return &MySQLAppDataRepository{db: db}
}

// GetData retrieves the user's document.
func (m *MySQLAppDataRepository) GetData(
	ctx context.Context,
	userID string,
) (map[string]json.RawMessage, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT data FROM app_data WHERE user_id = ?`

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

// UpsertField sets field on the user's document with JSON_SET, leaving other keys intact.
func (m *MySQLAppDataRepository) UpsertField(
	ctx context.Context,
	userID, field string,
	value json.RawMessage,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO app_data (user_id, data, updated_at)
			  VALUES (?, JSON_OBJECT(?, CAST(? AS JSON)), ?)
			  ON DUPLICATE KEY UPDATE
			  data = JSON_SET(COALESCE(data, JSON_OBJECT()), ?, CAST(? AS JSON)),
			  updated_at = ?`

	now := time.Now().UTC()
	_, err := querier.ExecContext(
		ctx,
		query,
		userID,
		field,
		string(value),
		now,
		jsonPath(field),
		string(value),
		now,
	)
	if err != nil {
		return apperrors.WrapKind(apperrors.ErrStoreFailure, err, "failed to upsert app data")
	}
	return nil
}

// jsonPath quotes field as a MySQL JSON path member.
func jsonPath(field string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(field)
	return `$."` + escaped + `"`
}
