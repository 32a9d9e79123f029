package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const channelColumns = `id, name, platform, niche_id, require_approval, active, created_at, updated_at`

// CreateNiche inserts a niche and returns its identifier.
func (s *Store) CreateNiche(ctx context.Context, name, description string) (*Niche, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("niche name is required")
	}
	now := time.Now().UTC()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO niches (name, description, created_at) VALUES (?, ?, ?)`,
		name,
		strings.TrimSpace(description),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert niche: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return &Niche{ID: id, Name: name, Description: strings.TrimSpace(description), CreatedAt: now}, nil
}

// EnsureNiche returns the niche with the given name, creating it when it
// does not exist yet. Niche names are unique.
func (s *Store) EnsureNiche(ctx context.Context, name, description string) (*Niche, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("niche name is required")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, description, created_at FROM niches WHERE name = ?`,
		name,
	)
	var (
		niche     Niche
		createdAt sql.NullString
	)
	err := row.Scan(&niche.ID, &niche.Name, &niche.Description, &createdAt)
	if err == nil {
		if niche.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		return &niche, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get niche: %w", err)
	}
	return s.CreateNiche(ctx, name, description)
}

// SetPromptTemplate upserts the template for one stage type of a niche.
func (s *Store) SetPromptTemplate(ctx context.Context, nicheID int64, templateType, text string) error {
	templateType = strings.TrimSpace(templateType)
	if templateType == "" {
		return errors.New("template type is required")
	}
	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO prompt_templates (niche_id, type, template_text) VALUES (?, ?, ?)
         ON CONFLICT (niche_id, type) DO UPDATE SET template_text = excluded.template_text`,
		nicheID,
		templateType,
		text,
	)
	if err != nil {
		return fmt.Errorf("upsert template: %w", err)
	}
	return nil
}

// CreateChannel inserts a channel. NicheID may be zero for no niche.
func (s *Store) CreateChannel(ctx context.Context, name, platform string, nicheID int64, requireApproval bool) (*Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("channel name is required")
	}
	platform = strings.ToLower(strings.TrimSpace(platform))
	if platform == "" {
		platform = "youtube"
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	var niche any
	if nicheID > 0 {
		niche = nicheID
	}
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO channels (name, platform, niche_id, require_approval, active, created_at, updated_at)
         VALUES (?, ?, ?, ?, 1, ?, ?)`,
		name,
		platform,
		niche,
		boolToInt(requireApproval),
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert channel: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetChannel(ctx, id)
}

// GetChannel fetches a channel with its niche and prompt templates attached.
// Returns nil when the channel does not exist.
func (s *Store) GetChannel(ctx context.Context, id int64) (*Channel, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE id = ?`, id)
	channel, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get channel: %w", err)
	}
	if err := s.attachNiche(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// ListActiveChannels returns every active channel with niches attached.
func (s *Store) ListActiveChannels(ctx context.Context) ([]*Channel, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+channelColumns+` FROM channels WHERE active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	var channels []*Channel
	for rows.Next() {
		channel, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, channel)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, channel := range channels {
		if err := s.attachNiche(ctx, channel); err != nil {
			return nil, err
		}
	}
	return channels, nil
}

// SetChannelActive flips the active flag on a channel.
func (s *Store) SetChannelActive(ctx context.Context, id int64, active bool) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE channels SET active = ?, updated_at = ? WHERE id = ?`,
		boolToInt(active),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return fmt.Errorf("update channel: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("channel %d not found", id)
	}
	return nil
}

func (s *Store) attachNiche(ctx context.Context, channel *Channel) error {
	if channel == nil || channel.NicheID == nil {
		return nil
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, description, created_at FROM niches WHERE id = ?`,
		*channel.NicheID,
	)
	var (
		niche     Niche
		createdAt sql.NullString
	)
	err := row.Scan(&niche.ID, &niche.Name, &niche.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get niche: %w", err)
	}
	if niche.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	channel.Niche = &niche

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, niche_id, type, template_text FROM prompt_templates WHERE niche_id = ? ORDER BY id`,
		niche.ID,
	)
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tpl PromptTemplate
		if err := rows.Scan(&tpl.ID, &tpl.NicheID, &tpl.Type, &tpl.TemplateText); err != nil {
			return fmt.Errorf("scan template: %w", err)
		}
		channel.Templates = append(channel.Templates, tpl)
	}
	return rows.Err()
}

func scanChannel(row rowScanner) (*Channel, error) {
	var (
		channel         Channel
		nicheID         sql.NullInt64
		requireApproval int
		active          int
		createdAt       sql.NullString
		updatedAt       sql.NullString
	)
	if err := row.Scan(
		&channel.ID,
		&channel.Name,
		&channel.Platform,
		&nicheID,
		&requireApproval,
		&active,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}
	if nicheID.Valid {
		id := nicheID.Int64
		channel.NicheID = &id
	}
	channel.RequireApproval = requireApproval != 0
	channel.Active = active != 0

	var err error
	if channel.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if channel.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &channel, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
