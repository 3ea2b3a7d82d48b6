package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [up|drop|seed|revote-on|revote-off]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	case "revote-on":
		// Lifts the one-vote-per-poll constraint; pair with POLL_ALLOW_REVOTE=true.
		if err := dropSingleVoteIndex(ctx, conn); err != nil {
			log.Fatalf("Failed to drop single-vote index: %v", err)
		}
		fmt.Println("Single-vote index dropped")

	case "revote-off":
		if err := createSingleVoteIndex(ctx, conn); err != nil {
			log.Fatalf("Failed to create single-vote index: %v", err)
		}
		fmt.Println("Single-vote index created")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	schema := `
	CREATE EXTENSION IF NOT EXISTS pgcrypto;

	CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS polls (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL,
		question TEXT NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		share_token UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS poll_options (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		poll_id UUID NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
		option_text TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (poll_id, id)
	);

	-- The composite foreign key ties every vote's option to the vote's own
	-- poll, so a cross-poll option id is rejected by the backend rather
	-- than by application code.
	CREATE TABLE IF NOT EXISTS votes (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		poll_id UUID NOT NULL,
		option_id UUID NOT NULL,
		user_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		FOREIGN KEY (poll_id, option_id) REFERENCES poll_options(poll_id, id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_poll_options_poll_id ON poll_options(poll_id);
	CREATE INDEX IF NOT EXISTS idx_votes_poll_id ON votes(poll_id);
	CREATE INDEX IF NOT EXISTS idx_votes_option_id ON votes(poll_id, option_id);
	CREATE INDEX IF NOT EXISTS idx_polls_public_recent ON polls(created_at DESC) WHERE is_public AND is_active;
	`

	if _, err := conn.Exec(ctx, schema); err != nil {
		return err
	}

	return createSingleVoteIndex(ctx, conn)
}

func createSingleVoteIndex(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		CREATE UNIQUE INDEX IF NOT EXISTS votes_one_per_user_per_poll
		ON votes(poll_id, user_id)
		WHERE user_id IS NOT NULL
	`)
	return err
}

func dropSingleVoteIndex(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `DROP INDEX IF EXISTS votes_one_per_user_per_poll`)
	return err
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		DROP TABLE IF EXISTS votes;
		DROP TABLE IF EXISTS poll_options;
		DROP TABLE IF EXISTS polls;
		DROP TABLE IF EXISTS profiles;
	`)
	return err
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	var pollID string
	err := conn.QueryRow(ctx, `
		INSERT INTO polls (user_id, question, description, share_token)
		VALUES (gen_random_uuid(), 'Favorite programming language?', 'Pick one', gen_random_uuid())
		RETURNING id
	`).Scan(&pollID)
	if err != nil {
		return err
	}

	for _, text := range []string{"Go", "TypeScript", "Python", "Rust"} {
		if _, err := conn.Exec(ctx,
			`INSERT INTO poll_options (poll_id, option_text) VALUES ($1, $2)`,
			pollID, text,
		); err != nil {
			return err
		}
	}

	return nil
}
