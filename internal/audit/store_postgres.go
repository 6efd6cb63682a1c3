// Copyright (c) 2026 Veriface. All rights reserved.
// Author: dev@veriface.io

package audit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/veriface/veriface/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Insert appends one entry to the trail.

Description: Attempts against unknown accounts carry no user; the column
is written as NULL in that case so the foreign key stays intact.

Parameters:
  - context: context.Context
  - entry: *Entry

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Insert(context context.Context, entry *Entry) error {
	const query = `
		INSERT INTO system.auditlog (id, userid, action, success, ipaddress, createdat)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	// NULL rather than an empty string for anonymous attempts.
	var userID any
	if entry.UserID != "" {
		userID = entry.UserID
	}

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		userID,
		entry.Action,
		entry.Success,
		entry.IPAddress,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_audit_repo_insert_failed: %w", err)
	}

	return nil
}

/*
List retrieves a filtered, paginated slice of the trail, newest first.

Parameters:
  - context: context.Context
  - filter: Filter
  - limit: int
  - offset: int

Returns:
  - []*Entry: Page of entries ordered by creation time descending
  - int: Total number of entries matching the filter
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Entry, int, error) {

	// Base queries for selection and counting
	query := `
		SELECT id, COALESCE(userid::text, ''), action, success, ipaddress, createdat
		FROM system.auditlog
		WHERE 1=1
	`
	countQuery := `SELECT count(*) FROM system.auditlog WHERE 1=1`

	args := []any{}
	countArgs := []any{}

	// Apply filter parameters
	if filter.UserID != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		query += ` AND userid = ` + placeholder
		countQuery += ` AND userid = ` + placeholder
		args = append(args, filter.UserID)
		countArgs = append(countArgs, filter.UserID)
	}
	if filter.Action != "" {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		query += ` AND action = ` + placeholder
		countQuery += ` AND action = ` + placeholder
		args = append(args, filter.Action)
		countArgs = append(countArgs, filter.Action)
	}

	// Append ordering and pagination bounds
	query += ` ORDER BY createdat DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, limit, offset)

	// Retrieve total count for metadata
	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_audit_entries")
	}

	// Execute paginated selection
	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_audit_entries")
	}
	defer rows.Close()

	// Hydrate result set
	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Action, &entry.Success, &entry.IPAddress, &entry.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_audit_entry")
		}
		entries = append(entries, entry)
	}

	return entries, total, nil
}
