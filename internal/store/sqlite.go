package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/advisor-match/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS advisor_drafts (
	user_id       TEXT PRIMARY KEY,
	profile_id    TEXT NOT NULL DEFAULT '',
	form          TEXT NOT NULL,
	open_sections TEXT NOT NULL DEFAULT '{}',
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS advisor_profiles (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	province   TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS consumer_profiles (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	name       TEXT NOT NULL,
	province   TEXT NOT NULL DEFAULT '',
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS firms (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	website    TEXT NOT NULL DEFAULT '',
	province   TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS chats (
	id              TEXT PRIMARY KEY,
	participant_a   TEXT NOT NULL,
	participant_b   TEXT NOT NULL,
	participant_key TEXT NOT NULL UNIQUE,
	last_updated    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS chat_messages (
	id        TEXT PRIMARY KEY,
	chat_id   TEXT NOT NULL REFERENCES chats(id),
	sender_id TEXT NOT NULL,
	body      TEXT NOT NULL,
	sent_at   DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS matches (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	match_id   TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE (user_id, match_id)
);

CREATE TABLE IF NOT EXISTS newsletter_subscribers (
	email         TEXT PRIMARY KEY,
	subscribed_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_advisor_profiles_user ON advisor_profiles(user_id);
CREATE INDEX IF NOT EXISTS idx_consumer_profiles_user ON consumer_profiles(user_id);
CREATE INDEX IF NOT EXISTS idx_chats_a ON chats(participant_a);
CREATE INDEX IF NOT EXISTS idx_chats_b ON chats(participant_b);
CREATE INDEX IF NOT EXISTS idx_chat_messages_chat ON chat_messages(chat_id, sent_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Drafts ---

func (s *SQLiteStore) GetAdvisorDraft(ctx context.Context, userID string) (*model.AdvisorDraft, error) {
	var d model.AdvisorDraft
	var formJSON, openJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, profile_id, form, open_sections, updated_at FROM advisor_drafts WHERE user_id = ?`,
		userID,
	).Scan(&d.UserID, &d.ProfileID, &formJSON, &openJSON, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("draft", userID)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get draft %s", userID)
	}
	if err := json.Unmarshal([]byte(formJSON), &d.Form); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal draft form")
	}
	if err := json.Unmarshal([]byte(openJSON), &d.OpenSections); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal open sections")
	}
	return &d, nil
}

func (s *SQLiteStore) PutAdvisorDraft(ctx context.Context, d *model.AdvisorDraft) error {
	formJSON, err := json.Marshal(d.Form)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal draft form")
	}
	openJSON, err := json.Marshal(d.OpenSections)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal open sections")
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO advisor_drafts (user_id, profile_id, form, open_sections, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET profile_id = excluded.profile_id, form = excluded.form,
		 open_sections = excluded.open_sections, updated_at = excluded.updated_at`,
		d.UserID, d.ProfileID, string(formJSON), string(openJSON), d.UpdatedAt,
	)
	return eris.Wrapf(err, "sqlite: put draft %s", d.UserID)
}

// --- Profiles ---

func (s *SQLiteStore) SetAdvisorProfile(ctx context.Context, p *model.AdvisorProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal advisor profile")
	}
	_, err = s.db.ExecContext(ctx, upsertProfileSQL("advisor_profiles"),
		p.ID, p.UserID, p.Name, p.Province, string(data), stamp(p.UpdatedAt),
	)
	return eris.Wrapf(err, "sqlite: set advisor profile %s", p.ID)
}

func (s *SQLiteStore) GetAdvisorProfile(ctx context.Context, id string) (*model.AdvisorProfile, error) {
	var p model.AdvisorProfile
	if err := s.getProfile(ctx, "advisor_profiles", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) ListAdvisorProfiles(ctx context.Context) ([]model.AdvisorProfile, error) {
	return listProfiles[model.AdvisorProfile](ctx, s.db, "advisor_profiles")
}

func (s *SQLiteStore) SetConsumerProfile(ctx context.Context, p *model.ConsumerProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal consumer profile")
	}
	_, err = s.db.ExecContext(ctx, upsertProfileSQL("consumer_profiles"),
		p.ID, p.UserID, p.Name, p.Province, string(data), stamp(p.UpdatedAt),
	)
	return eris.Wrapf(err, "sqlite: set consumer profile %s", p.ID)
}

func (s *SQLiteStore) GetConsumerProfile(ctx context.Context, id string) (*model.ConsumerProfile, error) {
	var p model.ConsumerProfile
	if err := s.getProfile(ctx, "consumer_profiles", id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) ListConsumerProfiles(ctx context.Context) ([]model.ConsumerProfile, error) {
	return listProfiles[model.ConsumerProfile](ctx, s.db, "consumer_profiles")
}

// ImportProfiles upserts all profiles in one transaction.
func (s *SQLiteStore) ImportProfiles(ctx context.Context, advisors []model.AdvisorProfile, consumers []model.ConsumerProfile) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: import: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var n int64
	for i := range advisors {
		p := &advisors[i]
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: import: marshal advisor")
		}
		if _, err := tx.ExecContext(ctx, upsertProfileSQL("advisor_profiles"),
			p.ID, p.UserID, p.Name, p.Province, string(data), stamp(p.UpdatedAt)); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import advisor %s", p.ID)
		}
		n++
	}
	for i := range consumers {
		p := &consumers[i]
		data, err := json.Marshal(p)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: import: marshal consumer")
		}
		if _, err := tx.ExecContext(ctx, upsertProfileSQL("consumer_profiles"),
			p.ID, p.UserID, p.Name, p.Province, string(data), stamp(p.UpdatedAt)); err != nil {
			return 0, eris.Wrapf(err, "sqlite: import consumer %s", p.ID)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: import: commit")
	}
	return n, nil
}

func upsertProfileSQL(table string) string {
	return `INSERT INTO ` + table + ` (id, user_id, name, province, data, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, name = excluded.name,
		province = excluded.province, data = excluded.data, updated_at = excluded.updated_at`
}

func (s *SQLiteStore) getProfile(ctx context.Context, table, id string, dst any) error {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM `+table+` WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("profile", id)
	}
	if err != nil {
		return eris.Wrapf(err, "sqlite: get %s %s", table, id)
	}
	return eris.Wrap(json.Unmarshal([]byte(data), dst), "sqlite: unmarshal profile")
}

func listProfiles[T any](ctx context.Context, db *sql.DB, table string) ([]T, error) {
	rows, err := db.QueryContext(ctx, `SELECT data FROM `+table+` ORDER BY name, id`)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list %s", table)
	}
	defer rows.Close() //nolint:errcheck

	out := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", table)
		}
		var v T
		if err := json.Unmarshal([]byte(data), &v); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal %s", table)
		}
		out = append(out, v)
	}
	return out, eris.Wrapf(rows.Err(), "sqlite: list %s iterate", table)
}

// --- Firms ---

func (s *SQLiteStore) ListFirms(ctx context.Context) ([]model.Firm, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, website, province, created_at FROM firms ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list firms")
	}
	defer rows.Close() //nolint:errcheck

	firms := []model.Firm{}
	for rows.Next() {
		var f model.Firm
		if err := rows.Scan(&f.ID, &f.Name, &f.Website, &f.Province, &f.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan firm")
		}
		firms = append(firms, f)
	}
	return firms, eris.Wrap(rows.Err(), "sqlite: list firms iterate")
}

func (s *SQLiteStore) AddFirm(ctx context.Context, f *model.Firm) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO firms (id, name, website, province, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Website, f.Province, f.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: add firm %s", f.Name)
}

// --- Chats ---

func (s *SQLiteStore) ListChats(ctx context.Context, userID string) ([]model.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, participant_a, participant_b, last_updated FROM chats
		 WHERE participant_a = ? OR participant_b = ? ORDER BY last_updated DESC`,
		userID, userID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list chats")
	}
	chats := []model.Chat{}
	for rows.Next() {
		var c model.Chat
		if err := rows.Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.LastUpdated); err != nil {
			rows.Close() //nolint:errcheck
			return nil, eris.Wrap(err, "sqlite: scan chat")
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "sqlite: list chats iterate")
	}
	rows.Close() //nolint:errcheck

	for i := range chats {
		msgs, err := s.messages(ctx, chats[i].ID)
		if err != nil {
			return nil, err
		}
		chats[i].Messages = msgs
	}
	return chats, nil
}

func (s *SQLiteStore) FindChat(ctx context.Context, a, b string) (*model.Chat, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM chats WHERE participant_key = ?`, model.ParticipantKey(a, b),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: find chat")
	}
	return s.GetChat(ctx, id)
}

func (s *SQLiteStore) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	var c model.Chat
	err := s.db.QueryRowContext(ctx,
		`SELECT id, participant_a, participant_b, last_updated FROM chats WHERE id = ?`, id,
	).Scan(&c.ID, &c.Participants[0], &c.Participants[1], &c.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("chat", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get chat %s", id)
	}
	if c.Messages, err = s.messages(ctx, id); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) messages(ctx context.Context, chatID string) ([]model.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, chat_id, sender_id, body, sent_at FROM chat_messages WHERE chat_id = ? ORDER BY sent_at, rowid`,
		chatID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list messages %s", chatID)
	}
	defer rows.Close() //nolint:errcheck

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ChatID, &m.SenderID, &m.Body, &m.SentAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan message")
		}
		msgs = append(msgs, m)
	}
	return msgs, eris.Wrap(rows.Err(), "sqlite: list messages iterate")
}

func (s *SQLiteStore) CreateChat(ctx context.Context, chat *model.Chat) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chats (id, participant_a, participant_b, participant_key, last_updated) VALUES (?, ?, ?, ?, ?)`,
		chat.ID, chat.Participants[0], chat.Participants[1],
		model.ParticipantKey(chat.Participants[0], chat.Participants[1]), stamp(chat.LastUpdated),
	)
	return eris.Wrapf(err, "sqlite: create chat %s", chat.ID)
}

func (s *SQLiteStore) AppendMessage(ctx context.Context, msg *model.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: append message: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	sentAt := stamp(msg.SentAt)
	res, err := tx.ExecContext(ctx, `UPDATE chats SET last_updated = ? WHERE id = ?`, sentAt, msg.ChatID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: touch chat %s", msg.ChatID)
	}
	if err := checkRowsAffected(res, "chat", msg.ChatID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO chat_messages (id, chat_id, sender_id, body, sent_at) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.SenderID, msg.Body, sentAt,
	); err != nil {
		return eris.Wrapf(err, "sqlite: insert message into %s", msg.ChatID)
	}
	return eris.Wrap(tx.Commit(), "sqlite: append message: commit")
}

// --- Matches ---

func (s *SQLiteStore) AppendMatch(ctx context.Context, userID, matchID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (user_id, match_id, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, match_id) DO NOTHING`,
		userID, matchID, time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: append match %s", matchID)
}

func (s *SQLiteStore) ListMatches(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT match_id FROM matches WHERE user_id = ? ORDER BY seq`, userID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list matches")
	}
	defer rows.Close() //nolint:errcheck

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan match")
		}
		ids = append(ids, id)
	}
	return ids, eris.Wrap(rows.Err(), "sqlite: list matches iterate")
}

// --- Users ---

func (s *SQLiteStore) CreateUser(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, name, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, string(u.Role), u.PasswordHash, u.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: create user %s", u.Email)
}

func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, name, role, password_hash, created_at FROM users WHERE id = ?`, id), id)
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, name, role, password_hash, created_at FROM users WHERE email = ?`, email), email)
}

func (s *SQLiteStore) scanUser(row *sql.Row, key string) (*model.User, error) {
	var u model.User
	var role string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &role, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("user", key)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get user %s", key)
	}
	u.Role = model.Role(role)
	return &u, nil
}

// --- Newsletter ---

func (s *SQLiteStore) Subscribe(ctx context.Context, email string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO newsletter_subscribers (email, subscribed_at) VALUES (?, ?)
		 ON CONFLICT(email) DO NOTHING`,
		email, time.Now().UTC(),
	)
	if err != nil {
		return false, eris.Wrap(err, "sqlite: subscribe")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, eris.Wrap(err, "sqlite: subscribe rows affected")
	}
	return n > 0, nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
