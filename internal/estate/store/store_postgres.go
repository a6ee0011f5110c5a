package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"legado/internal/estate/models"
	"legado/internal/intake"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

// PostgresStore persists estates in PostgreSQL. Assets, beneficiaries, and
// the file descriptor are stored as jsonb since the service treats them as
// opaque documents.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed estate store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the estate table when absent.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS digital_estates (
			id            UUID PRIMARY KEY,
			name          TEXT NOT NULL,
			dob           TIMESTAMPTZ NOT NULL,
			assets        JSONB NOT NULL,
			beneficiaries JSONB NOT NULL,
			file          JSONB,
			created_at    TIMESTAMPTZ NOT NULL,
			updated_at    TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure digital_estates schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, estate *models.DigitalEstate) error {
	assets, beneficiaries, file, err := marshalDocuments(estate)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO digital_estates (id, name, dob, assets, beneficiaries, file, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, estate.ID.String(), estate.Name, estate.DOB, assets, beneficiaries, file, estate.CreatedAt, estate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert estate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindAll(ctx context.Context) ([]*models.DigitalEstate, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, dob, assets, beneficiaries, file, created_at, updated_at
		FROM digital_estates
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list estates: %w", err)
	}
	defer rows.Close()

	var estates []*models.DigitalEstate
	for rows.Next() {
		estate, err := scanEstate(rows)
		if err != nil {
			return nil, err
		}
		estates = append(estates, estate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list estates: %w", err)
	}
	return estates, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, estateID id.EstateID) (*models.DigitalEstate, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, dob, assets, beneficiaries, file, created_at, updated_at
		FROM digital_estates
		WHERE id = $1
	`, estateID.String())

	estate, err := scanEstate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return estate, nil
}

func (s *PostgresStore) Update(ctx context.Context, estate *models.DigitalEstate) error {
	assets, beneficiaries, file, err := marshalDocuments(estate)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx, `
		UPDATE digital_estates
		SET name = $2, dob = $3, assets = $4, beneficiaries = $5, file = $6, updated_at = $7
		WHERE id = $1
	`, estate.ID.String(), estate.Name, estate.DOB, assets, beneficiaries, file, estate.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update estate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, estateID id.EstateID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM digital_estates WHERE id = $1`, estateID.String())
	if err != nil {
		return fmt.Errorf("delete estate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func marshalDocuments(estate *models.DigitalEstate) (assets, beneficiaries, file []byte, err error) {
	assets, err = json.Marshal(estate.Assets)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal assets: %w", err)
	}
	beneficiaries, err = json.Marshal(estate.Beneficiaries)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal beneficiaries: %w", err)
	}
	if estate.File != nil {
		file, err = json.Marshal(estate.File)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("marshal file descriptor: %w", err)
		}
	}
	return assets, beneficiaries, file, nil
}

func scanEstate(row pgx.Row) (*models.DigitalEstate, error) {
	var (
		estate        models.DigitalEstate
		rawID         string
		assets        []byte
		beneficiaries []byte
		file          []byte
	)
	if err := row.Scan(&rawID, &estate.Name, &estate.DOB, &assets, &beneficiaries, &file, &estate.CreatedAt, &estate.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan estate: %w", err)
	}

	estateID, err := id.ParseEstateID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan estate id: %w", err)
	}
	estate.ID = estateID

	if err := json.Unmarshal(assets, &estate.Assets); err != nil {
		return nil, fmt.Errorf("unmarshal assets: %w", err)
	}
	if err := json.Unmarshal(beneficiaries, &estate.Beneficiaries); err != nil {
		return nil, fmt.Errorf("unmarshal beneficiaries: %w", err)
	}
	if len(file) > 0 {
		var f intake.StoredFile
		if err := json.Unmarshal(file, &f); err != nil {
			return nil, fmt.Errorf("unmarshal file descriptor: %w", err)
		}
		estate.File = &f
	}
	return &estate, nil
}
