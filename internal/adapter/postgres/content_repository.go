package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"mcommerce/internal/core/domain"
	"mcommerce/internal/core/port"
)

const contentColumns = `id, title, content_type, body, workflow_state, version, author, tags, metadata, created_at, updated_at`

func scanContent(row pgx.Row) (domain.ContentWorkflow, error) {
	var (
		c        domain.ContentWorkflow
		metadata []byte
	)
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Type,
		&c.Body,
		&c.State,
		&c.Version,
		&c.Author,
		&c.Tags,
		&metadata,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return c, err
	}
	if len(metadata) > 0 {
		if err = json.Unmarshal(metadata, &c.Metadata); err != nil {
			return c, fmt.Errorf("decode content metadata: %w", err)
		}
	}
	return c, nil
}

// CreateContent implements port.ContentRepository.
func (r *Repository) CreateContent(ctx context.Context, c *domain.ContentWorkflow) error {
	metadata, err := json.Marshal(c.Metadata)
	if err != nil {
		return domain.Store("failed to create content", err)
	}
	return r.WithinTx(ctx, func(ctx context.Context) error {
		_, err := r.conn(ctx).Exec(ctx, `INSERT INTO contents (`+contentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			c.ID, c.Title, string(c.Type), c.Body, string(c.State), c.Version, c.Author, nonNil(c.Tags), metadata, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			return domain.Store("failed to create content", err)
		}
		return r.appendTransitions(ctx, c.ID, 0, c.History)
	})
}

// GetContent implements port.ContentRepository.
func (r *Repository) GetContent(ctx context.Context, id string) (*domain.ContentWorkflow, error) {
	c, err := scanContent(r.conn(ctx).QueryRow(ctx, `SELECT `+contentColumns+` FROM contents WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.Store("failed to load content", err)
	}
	history, err := r.loadTransitions(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	c.History = history[id]
	return &c, nil
}

// UpdateContent implements port.ContentRepository. History records beyond
// those already stored are appended.
func (r *Repository) UpdateContent(ctx context.Context, c *domain.ContentWorkflow) error {
	metadata, err := json.Marshal(c.Metadata)
	if err != nil {
		return domain.Store("failed to update content", err)
	}
	return r.WithinTx(ctx, func(ctx context.Context) error {
		q := r.conn(ctx)
		tag, err := q.Exec(ctx, `UPDATE contents
SET title = $2, body = $3, workflow_state = $4, version = $5, tags = $6, metadata = $7, updated_at = $8
WHERE id = $1`,
			c.ID, c.Title, c.Body, string(c.State), c.Version, nonNil(c.Tags), metadata, c.UpdatedAt)
		if err != nil {
			return domain.Store("failed to update content", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.NotFound("content", c.ID)
		}
		var stored int
		if err = q.QueryRow(ctx, `SELECT count(*) FROM content_transitions WHERE content_id = $1`, c.ID).Scan(&stored); err != nil {
			return domain.Store("failed to update content", err)
		}
		if stored >= len(c.History) {
			return nil
		}
		return r.appendTransitions(ctx, c.ID, stored, c.History[stored:])
	})
}

// ListContent implements port.ContentRepository.
func (r *Repository) ListContent(ctx context.Context, f port.ContentFilter) ([]domain.ContentWorkflow, error) {
	var (
		where []string
		args  []any
	)
	if f.State != "" {
		args = append(args, string(f.State))
		where = append(where, fmt.Sprintf("workflow_state = $%d", len(args)))
	}
	if f.Type != "" {
		args = append(args, string(f.Type))
		where = append(where, fmt.Sprintf("content_type = $%d", len(args)))
	}
	if f.Author != "" {
		args = append(args, f.Author)
		where = append(where, fmt.Sprintf("author = $%d", len(args)))
	}
	query := `SELECT ` + contentColumns + ` FROM contents`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Store("failed to list content", err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ContentWorkflow, error) {
		return scanContent(row)
	})
	if err != nil {
		return nil, domain.Store("failed to list content", err)
	}
	if len(items) == 0 {
		return items, nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	history, err := r.loadTransitions(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].History = history[items[i].ID]
	}
	return items, nil
}

func (r *Repository) appendTransitions(ctx context.Context, contentID string, offset int, records []domain.TransitionRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, rec := range records {
		batch.Queue(`INSERT INTO content_transitions (content_id, seq, from_state, to_state, transitioned_at)
VALUES ($1,$2,$3,$4,$5)`, contentID, offset+i, string(rec.From), string(rec.To), rec.At)
	}
	if err := r.conn(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return domain.Store("failed to record content transition", err)
	}
	return nil
}

func (r *Repository) loadTransitions(ctx context.Context, ids []string) (map[string][]domain.TransitionRecord, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT content_id, from_state, to_state, transitioned_at
FROM content_transitions WHERE content_id = ANY($1) ORDER BY content_id, seq`, ids)
	if err != nil {
		return nil, domain.Store("failed to load content history", err)
	}
	defer rows.Close()

	out := make(map[string][]domain.TransitionRecord, len(ids))
	for rows.Next() {
		var (
			id  string
			rec domain.TransitionRecord
		)
		if err = rows.Scan(&id, &rec.From, &rec.To, &rec.At); err != nil {
			return nil, domain.Store("failed to load content history", err)
		}
		out[id] = append(out[id], rec)
	}
	if err = rows.Err(); err != nil {
		return nil, domain.Store("failed to load content history", err)
	}
	return out, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
