package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/avask/greenroom/internal/domain"
)

// PostgresGateway persists into the interview schema: the interviews table
// holds the latest code snapshot and the admission status, chat_messages
// holds the transcript. Rooms are resolved by the meeting_link column.
type PostgresGateway struct {
	db *sql.DB
}

func NewPostgresGateway(dsn string) (*PostgresGateway, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Info().Str("module", "store.postgres").Msg("connected")
	return &PostgresGateway{db: db}, nil
}

func (g *PostgresGateway) SaveCodeSnapshot(ctx context.Context, room domain.RoomKey, code string) error {
	res, err := g.db.ExecContext(ctx,
		`UPDATE interviews SET code_content = $1 WHERE meeting_link = $2`,
		code, string(room))
	if err != nil {
		return fmt.Errorf("save code snapshot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save code snapshot for %s: %w", room, ErrNotFound)
	}
	return nil
}

func (g *PostgresGateway) LoadCodeSnapshot(ctx context.Context, room domain.RoomKey) (string, error) {
	var code string
	err := g.db.QueryRowContext(ctx,
		`SELECT COALESCE(code_content, '') FROM interviews WHERE meeting_link = $1`,
		string(room)).Scan(&code)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("load code snapshot: %w", err)
	}
	return code, nil
}

func (g *PostgresGateway) AppendChatMessage(ctx context.Context, msg domain.ChatMessage) error {
	// The transcript references the interview's internal id, so resolve the
	// external room key first.
	var interviewID int64
	err := g.db.QueryRowContext(ctx,
		`SELECT id FROM interviews WHERE meeting_link = $1`,
		string(msg.Room)).Scan(&interviewID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("append chat for %s: %w", msg.Room, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("resolve interview: %w", err)
	}

	_, err = g.db.ExecContext(ctx,
		`INSERT INTO chat_messages (interview_id, sender_username, message) VALUES ($1, $2, $3)`,
		interviewID, msg.Sender, msg.Text)
	if err != nil {
		return fmt.Errorf("append chat: %w", err)
	}
	return nil
}

func (g *PostgresGateway) SetAdmissionStatus(ctx context.Context, room domain.RoomKey, status domain.AdmissionStatus) error {
	res, err := g.db.ExecContext(ctx,
		`UPDATE interviews SET candidate_join_status = $1 WHERE meeting_link = $2`,
		string(status), string(room))
	if err != nil {
		return fmt.Errorf("set admission status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set admission status for %s: %w", room, ErrNotFound)
	}
	return nil
}

func (g *PostgresGateway) Close() error {
	return g.db.Close()
}
