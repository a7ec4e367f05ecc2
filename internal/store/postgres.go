package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/advisor-match/internal/db"
	"github.com/sells-group/advisor-match/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS advisor_drafts (
	user_id       TEXT PRIMARY KEY,
	profile_id    TEXT NOT NULL DEFAULT '',
	form          JSONB NOT NULL,
	open_sections JSONB NOT NULL DEFAULT '{}'::jsonb,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS advisor_profiles (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	province   TEXT NOT NULL DEFAULT '',
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS consumer_profiles (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	province   TEXT NOT NULL DEFAULT '',
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS firms (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	website    TEXT NOT NULL DEFAULT '',
	province   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chats (
	id              TEXT PRIMARY KEY,
	participant_a   TEXT NOT NULL,
	participant_b   TEXT NOT NULL,
	participant_key TEXT NOT NULL UNIQUE,
	last_updated    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id        TEXT PRIMARY KEY,
	chat_id   TEXT NOT NULL REFERENCES chats(id),
	sender_id TEXT NOT NULL,
	body      TEXT NOT NULL,
	sent_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS matches (
	seq        BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL,
	match_id   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (user_id, match_id)
);

CREATE TABLE IF NOT EXISTS newsletter_subscribers (
	email         TEXT PRIMARY KEY,
	subscribed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_advisor_profiles_user ON advisor_profiles(user_id);
CREATE INDEX IF NOT EXISTS idx_consumer_profiles_user ON consumer_profiles(user_id);
CREATE INDEX IF NOT EXISTS idx_advisor_profiles_data ON advisor_profiles USING GIN (data);
CREATE INDEX IF NOT EXISTS idx_chats_a ON chats(participant_a);
CREATE INDEX IF NOT EXISTS idx_chats_b ON chats(participant_b);
CREATE INDEX IF NOT EXISTS idx_chat_messages_chat ON chat_messages(chat_id, sent_at);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

// --- Drafts ---

func (s *PostgresStore) GetAdvisorDraft(ctx context.Context, userID string) (*model.AdvisorDraft, error) {
	var d model.AdvisorDraft
	var formJSON, openJSON []byte
	err := s.pool.QueryRow(ctx,
		`SELECT user_id, profile_id, form, open_sections, updated_at FROM advisor_drafts WHERE user_id = $1`,
		userID,
	).Scan(&d.UserID, &d.ProfileID, &formJSON, &openJSON, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("draft", userID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get draft %s", userID)
	}
	if err := json.Unmarshal(formJSON, &d.Form); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal draft form")
	}
	if err := json.Unmarshal(openJSON, &d.OpenSections); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal open sections")
	}
	return &d, nil
}

func (s *PostgresStore) PutAdvisorDraft(ctx context.Context, d *model.AdvisorDraft) error {
	formJSON, err := json.Marshal(d.Form)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal draft form")
	}
	openJSON, err := json.Marshal(d.OpenSections)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal open sections")
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO advisor_drafts (user_id, profile_id, form, open_sections, updated_at) VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id) DO UPDATE SET profile_id = EXCLUDED.profile_id, form = EXCLUDED.form,
		 open_sections = EXCLUDED.open_sections, updated_at = EXCLUDED.updated_at`,
		d.UserID, d.ProfileID, formJSON, openJSON, d.UpdatedAt,
	)
	return eris.Wrapf(err, "postgres: put draft %s", d.UserID)
}

// --- Profiles ---

func pgUpsertProfileSQL(table string) string {
	return `INSERT INTO ` + table + ` (id, user_id, name, province, data, updated_at) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET user_id = EXCLUDED.user_id, name = EXCLUDED.name,
		province = EXCLUDED.province, data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
}

func (s *PostgresStore) SetAdvisorProfile(ctx context.Context, p *model.AdvisorProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal advisor profile")
	}
	_, err = s.pool.Exec(ctx, pgUpsertProfileSQL("advisor_profiles"),
		p.ID, p.UserID, p.Name, p.Province, data, stamp(p.UpdatedAt))
	return eris.Wrapf(err, "postgres: set advisor profile %s", p.ID)
}

func (s *PostgresStore) GetAdvisorProfile(ctx context.Context, id string) (*model.AdvisorProfile, error) {
	var p model.AdvisorProfile
	if err := s.getProfile(ctx, "advisor_profiles", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListAdvisorProfiles(ctx context.Context) ([]model.AdvisorProfile, error) {
	return pgListProfiles[model.AdvisorProfile](ctx, s.pool, "advisor_profiles")
}

func (s *PostgresStore) SetConsumerProfile(ctx context.Context, p *model.ConsumerProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal consumer profile")
	}
	_, err = s.pool.Exec(ctx, pgUpsertProfileSQL("consumer_profiles"),
		p.ID, p.UserID, p.Name, p.Province, data, stamp(p.UpdatedAt))
	return eris.Wrapf(err, "postgres: set consumer profile %s", p.ID)
}

func (s *PostgresStore) GetConsumerProfile(ctx context.Context, id string) (*model.ConsumerProfile, error) {
	var p model.ConsumerProfile
	if err := s.getProfile(ctx, "consumer_profiles", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListConsumerProfiles(ctx context.Context) ([]model.ConsumerProfile, error) {
	return pgListProfiles[model.ConsumerProfile](ctx, s.pool, "consumer_profiles")
}

var profileColumns = []string{"id", "user_id", "name", "province", "data", "updated_at"}

// ImportProfiles bulk-upserts profiles through a COPY-backed temp table.
func (s *PostgresStore) ImportProfiles(ctx context.Context, advisors []model.AdvisorProfile, consumers []model.ConsumerProfile) (int64, error) {
	advisorRows := make([][]any, 0, len(advisors))
	for i := range advisors {
		p := &advisors[i]
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: import: marshal advisor")
		}
		advisorRows = append(advisorRows, []any{p.ID, p.UserID, p.Name, p.Province, data, stamp(p.UpdatedAt)})
	}
	consumerRows := make([][]any, 0, len(consumers))
	for i := range consumers {
		p := &consumers[i]
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: import: marshal consumer")
		}
		consumerRows = append(consumerRows, []any{p.ID, p.UserID, p.Name, p.Province, data, stamp(p.UpdatedAt)})
	}

	na, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "advisor_profiles", Columns: profileColumns, ConflictKeys: []string{"id"},
	}, advisorRows)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: import advisors")
	}
	nc, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table: "consumer_profiles", Columns: profileColumns, ConflictKeys: []string{"id"},
	}, consumerRows)
	if err != nil {
		return na, eris.Wrap(err, "postgres: import consumers")
	}
	return na + nc, nil
}

func (s *PostgresStore) getProfile(ctx context.Context, table, id string, dst any) error {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM `+table+` WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound("profile", id)
	}
	if err != nil {
		return eris.Wrapf(err, "postgres: get %s %s", table, id)
	}
	return eris.Wrap(json.Unmarshal(data, dst), "postgres: unmarshal profile")
}

func pgListProfiles[T any](ctx context.Context, pool db.Pool, table string) ([]T, error) {
	rows, err := pool.Query(ctx, `SELECT data FROM `+table+` ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list %s", table)
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", table)
		}
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal %s", table)
		}
		out = append(out, v)
	}
	return out, eris.Wrapf(rows.Err(), "postgres: list %s iterate", table)
}

// --- Firms ---

func (s *PostgresStore) ListFirms(ctx context.Context) ([]model.Firm, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, website, province, created_at FROM firms ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list firms")
	}
	defer rows.Close()

	firms := []model.Firm{}
	for rows.Next() {
		var f model.Firm
		if err := rows.Scan(&f.ID, &f.Name, &f.Website, &f.Province, &f.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan firm")
		}
		firms = append(firms, f)
	}
	return firms, eris.Wrap(rows.Err(), "postgres: list firms iterate")
}

func (s *PostgresStore) AddFirm(ctx context.Context, f *model.Firm) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO firms (id, name, website, province, created_at) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Name, f.Website, f.Province, f.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: add firm %s", f.Name)
}

// --- Chats ---

func (s *PostgresStore) ListChats(ctx context.Context, userID string) ([]model.Chat, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, participant_a, participant_b, last_updated FROM chats
		 WHERE participant_a = $1 OR participant_b = $1 ORDER BY last_updated DESC`,
		userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list chats")
	}
	chats := []model.Chat{}
	for rows.Next() {
		var c model.Chat
		if err := rows.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.LastUpdated); err != nil {
			rows.Close()
			return nil, eris.Wrap(err, "postgres: scan chat")
		}
		chats = append(chats, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: list chats iterate")
	}

	for i := range chats {
		msgs, err := s.messages(ctx, chats[i].ID)
		if err != nil {
			return nil, err
		}
		chats[i].Messages = msgs
	}
	return chats, nil
}

func (s *PostgresStore) FindChat(ctx context.Context, a, b string) (*model.Chat, error) {
	var c model.Chat
	err := s.pool.QueryRow(ctx,
		`SELECT id, participant_a, participant_b, last_updated FROM chats WHERE participant_key = $1`,
		model.ParticipantKey(a, b),
	).Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: find chat")
	}
	if c.Messages, err = s.messages(ctx, c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	var c model.Chat
	err := s.pool.QueryRow(ctx,
		`SELECT id, participant_a, participant_b, last_updated FROM chats WHERE id = $1`, id,
	).Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("chat", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get chat %s", id)
	}
	if c.Messages, err = s.messages(ctx, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) messages(ctx context.Context, chatID string) ([]model.Message, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, chat_id, sender_id, body, sent_at FROM chat_messages WHERE chat_id = $1 ORDER BY sent_at, id`,
		chatID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list messages %s", chatID)
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.SentAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan message")
		}
		msgs = append(msgs, m)
	}
	return msgs, eris.Wrap(rows.Err(), "postgres: list messages iterate")
}

func (s *PostgresStore) CreateChat(ctx context.Context, chat *model.Chat) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chats (id, participant_a, participant_b, participant_key, last_updated) VALUES ($1, $2, $3, $4, $5)`,
		chat.ID, chat.Participants[0], chat.Participants[1],
		model.ParticipantKey(chat.Participants[0], chat.Participants[1]), stamp(chat.LastUpdated),
	)
	return eris.Wrapf(err, "postgres: create chat %s", chat.ID)
}

func (s *PostgresStore) AppendMessage(ctx context.Context, msg *model.Message) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: append message: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	sentAt := stamp(msg.SentAt)
	tag, err := tx.Exec(ctx, `UPDATE chats SET last_updated = $1 WHERE id = $2`, sentAt, msg.ChatID)
	if err != nil {
		return eris.Wrapf(err, "postgres: touch chat %s", msg.ChatID)
	}
	if tag.RowsAffected() == 0 {
		return notFound("chat", msg.ChatID)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO chat_messages (id, chat_id, sender_id, body, sent_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.ChatID, msg.SenderID, msg.Body, sentAt,
	); err != nil {
		return eris.Wrapf(err, "postgres: insert message into %s", msg.ChatID)
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: append message: commit")
}

// --- Matches ---

func (s *PostgresStore) AppendMatch(ctx context.Context, userID, matchID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO matches (user_id, match_id, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, match_id) DO NOTHING`,
		userID, matchID, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: append match %s", matchID)
}

func (s *PostgresStore) ListMatches(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT match_id FROM matches WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list matches")
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "postgres: scan match")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "postgres: list matches iterate")
}

// --- Users ---

func (s *PostgresStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, name, role, password_hash, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, string(u.Role), u.PasswordHash, u.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: create user %s", u.Email)
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return pgScanUser(s.pool.QueryRow(ctx,
		`SELECT id, email, name, role, password_hash, created_at FROM users WHERE id = $1`, id), id)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return pgScanUser(s.pool.QueryRow(ctx,
		`SELECT id, email, name, role, password_hash, created_at FROM users WHERE email = $1`, email), email)
}

func pgScanUser(row pgx.Row, key string) (*model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("user", key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get user %s", key)
	}
	u.Role = model.Role(role)
	return &u, nil
}

// --- Newsletter ---

func (s *PostgresStore) Subscribe(ctx context.Context, email string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO newsletter_subscribers (email, subscribed_at) VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING`,
		email, time.Now().UTC(),
	)
	if err != nil {
		return false, eris.Wrap(err, "postgres: subscribe")
	}
	return tag.RowsAffected() > 0, nil
}
