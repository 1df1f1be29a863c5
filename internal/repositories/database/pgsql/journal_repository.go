package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/facturo/ledger_backend/internal/apperrors"
	"github.com/facturo/ledger_backend/internal/core/domain"
	portsrepo "github.com/facturo/ledger_backend/internal/core/ports/repositories"
	"github.com/facturo/ledger_backend/internal/models"
	"github.com/facturo/ledger_backend/internal/utils/mapping"
	"github.com/facturo/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, tenant_id, entry_ref, journal_code, entry_date, description, currency_code, status, is_auto, source_type, source_id, original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_code, debit, credit, description`

// scanEntry scans one journal entry header row (nullable columns handled).
func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	var sourceType, sourceID sql.NullString
	var originalID, reversingID sql.NullString

	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.EntryRef,
		&m.JournalCode,
		&m.EntryDate,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.IsAuto,
		&sourceType,
		&sourceID,
		&originalID,
		&reversingID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.JournalEntry{}, err
	}

	if sourceType.Valid {
		m.SourceType = sourceType.String
	}
	if sourceID.Valid {
		m.SourceID = sourceID.String
	}
	if originalID.Valid {
		m.OriginalEntryID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingEntryID = &reversingID.String
	}
	return m, nil
}

// SaveEntries persists entries and their lines atomically in a single DB
// transaction. The journal is append-only: existing rows are never touched.
func (r *PgxJournalRepository) SaveEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // No-op once the transaction is committed

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	lineQuery := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	batch := &pgx.Batch{}
	for _, entry := range entries {
		m := mapping.ToModelJournalEntry(entry)

		var sourceType, sourceID sql.NullString
		if m.SourceType != "" {
			sourceType = sql.NullString{String: m.SourceType, Valid: true}
		}
		if m.SourceID != "" {
			sourceID = sql.NullString{String: m.SourceID, Valid: true}
		}

		batch.Queue(entryQuery,
			m.EntryID,
			m.TenantID,
			m.EntryRef,
			m.JournalCode,
			m.EntryDate,
			m.Description,
			m.CurrencyCode,
			m.Status,
			m.IsAuto,
			sourceType,
			sourceID,
			m.OriginalEntryID,
			m.ReversingEntryID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)

		for _, line := range entry.Lines {
			ml := mapping.ToModelJournalLine(line)
			batch.Queue(lineQuery,
				ml.LineID,
				ml.EntryID,
				ml.AccountCode,
				ml.Debit,
				ml.Credit,
				ml.Description,
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: journal entry already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert journal entries: %w", err)
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry and its lines by identifier.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND entry_id = $2;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	linesByEntry, err := r.findLinesByEntryIDs(ctx, []string{entry.EntryID})
	if err != nil {
		return nil, err
	}
	entry.Lines = linesByEntry[entry.EntryID]
	return &entry, nil
}

// FindEntryBySource retrieves the POSTED entry generated from a given source
// document, if one exists.
func (r *PgxJournalRepository) FindEntryBySource(ctx context.Context, tenantID string, sourceType domain.SourceType, sourceID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND source_type = $2 AND source_id = $3 AND status = 'POSTED'
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, sourceType, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry for %s %s: %w", sourceType, sourceID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindEntriesByDateRange retrieves entries with their lines for a date range,
// ordered by entry date then creation time.
func (r *PgxJournalRepository) FindEntriesByDateRange(ctx context.Context, tenantID string, from, to time.Time, includeReversed bool) ([]domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1
		  AND ($2::timestamptz IS NULL OR entry_date >= $2)
		  AND ($3::timestamptz IS NULL OR entry_date <= $3)
	`
	if !includeReversed {
		query += ` AND status != 'REVERSED' AND original_entry_id IS NULL`
	}
	query += ` ORDER BY entry_date ASC, created_at ASC, entry_id ASC;`

	var fromArg, toArg interface{}
	if !from.IsZero() {
		fromArg = from
	}
	if !to.IsZero() {
		toArg = to
	}

	rows, err := r.Pool.Query(ctx, query, tenantID, fromArg, toArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}
	return r.attachLines(ctx, entries)
}

// ListEntries retrieves a page of entries with their lines for a date range
// using token-based pagination on (entry_date, created_at, entry_id); the
// entry ID breaks timestamp ties so ordering is total.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, from, to time.Time, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1

	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE tenant_id = $1 AND entry_date >= $2 AND entry_date <= $3
	`
	args := []interface{}{tenantID, from, to}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (entry_date, created_at, entry_id) > ($4, $5, $6)`
		args = append(args, lastDate, lastCreatedAt, lastEntryID)
	}

	query += ` ORDER BY entry_date ASC, created_at ASC, entry_id ASC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries page: %w", err)
	}
	defer rows.Close()

	entries, err := collectEntries(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1] // last item actually included in this page
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	entries, err = r.attachLines(ctx, entries)
	if err != nil {
		return nil, nil, err
	}
	return entries, nextTokenVal, nil
}

// UpdateEntryStatusAndLinks updates the status and reversal linkage of an
// entry. This is the only permitted mutation of a persisted entry.
func (r *PgxJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, tenantID string, entryID string, status domain.EntryStatus, reversingEntryID *string, originalEntryID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $3,
		    reversing_entry_id = COALESCE($4, reversing_entry_id),
		    original_entry_id = COALESCE($5, original_entry_id),
		    last_updated_by = $6,
		    last_updated_at = $7
		WHERE tenant_id = $1 AND entry_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, tenantID, entryID, status, reversingEntryID, originalEntryID, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// collectEntries drains header rows into domain entries without their lines.
func collectEntries(rows pgx.Rows) ([]domain.JournalEntry, error) {
	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, nil
}

// attachLines loads the lines of the given entries in one query and attaches
// them in place.
func (r *PgxJournalRepository) attachLines(ctx context.Context, entries []domain.JournalEntry) ([]domain.JournalEntry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	entryIDs := make([]string, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.EntryID
	}

	linesByEntry, err := r.findLinesByEntryIDs(ctx, entryIDs)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = linesByEntry[entries[i].EntryID]
	}
	return entries, nil
}

// findLinesByEntryIDs retrieves the lines of a set of entries, grouped by
// entry ID and ordered by line ID for deterministic output.
func (r *PgxJournalRepository) findLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM journal_lines
		WHERE entry_id = ANY($1)
		ORDER BY entry_id ASC, line_id ASC;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	linesByEntry := make(map[string][]domain.JournalLine, len(entryIDs))
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountCode,
			&m.Debit,
			&m.Credit,
			&m.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal line row: %w", err)
		}
		linesByEntry[m.EntryID] = append(linesByEntry[m.EntryID], mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal line rows: %w", err)
	}
	return linesByEntry, nil
}
