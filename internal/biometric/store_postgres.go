// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

// PostgreSQL implementation of the biometric template vault.
package biometric

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veriface/veriface/internal/platform/apperr"
)

// # Template Repository

// PostgresTemplateRepository implements the TemplateRepository interface using pgx.
type PostgresTemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new PostgreSQL implementation of the TemplateRepository.
func NewTemplateRepository(pool *pgxpool.Pool) *PostgresTemplateRepository {
	return &PostgresTemplateRepository{pool: pool}
}

/*
Upsert stores a template, replacing any previous enrollment for the user.

Description: Uses the unique index on userid so enrollment and
re-enrollment share one code path.

Parameters:
  - context: context.Context
  - template: *Template

Returns:
  - error: Persistence failures
*/
func (repository *PostgresTemplateRepository) Upsert(context context.Context, template *Template) error {
	const query = `
		INSERT INTO biometrics.template (
			id, userid, envelope, dim, modelname, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (userid) DO UPDATE SET
			envelope = EXCLUDED.envelope,
			dim = EXCLUDED.dim,
			modelname = EXCLUDED.modelname,
			updatedat = EXCLUDED.updatedat`

	now := time.Now()
	if template.CreatedAt.IsZero() {
		template.CreatedAt = now
	}
	template.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		template.ID,
		template.UserID,
		template.Envelope,
		template.Dim,
		template.ModelName,
		template.CreatedAt,
		template.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_template_repo_upsert_failed: %w", err)
	}

	return nil
}

/*
FindByUserID returns the enrolled template for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *Template: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresTemplateRepository) FindByUserID(context context.Context, userID string) (*Template, error) {
	const query = `
		SELECT id, userid, envelope, dim, modelname, createdat, updatedat
		FROM biometrics.template
		WHERE userid = $1`

	template := &Template{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&template.ID,
		&template.UserID,
		&template.Envelope,
		&template.Dim,
		&template.ModelName,
		&template.CreatedAt,
		&template.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Biometric template")
		}
		return nil, fmt.Errorf("postgres_template_repo_find_failed: %w", err)
	}

	return template, nil
}
