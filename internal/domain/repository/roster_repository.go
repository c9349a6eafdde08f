package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"leetboard/internal/common"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
)

// RosterRepository yields the ordered list of tracked usernames.
// It is read once at process start.
type RosterRepository interface {
	ListUsernames(ctx context.Context) ([]string, error)
}

type staticRosterRepository struct {
	usernames []string
}

func NewStaticRosterRepository(usernames []string) RosterRepository {
	return &staticRosterRepository{usernames: append([]string(nil), usernames...)}
}

func (r *staticRosterRepository) ListUsernames(ctx context.Context) ([]string, error) {
	return normalize(r.usernames)
}

type pgRosterRepository struct {
	db *sql.DB
}

func NewPgRosterRepository(db *sql.DB) RosterRepository {
	return &pgRosterRepository{db: db}
}

func (r *pgRosterRepository) ListUsernames(ctx context.Context) ([]string, error) {
	query := `SELECT username FROM participants
	          WHERE active
	          ORDER BY position, username`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "42P01" { // undefined_table
			return nil, fmt.Errorf("participants table: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("pgRosterRepository.ListUsernames: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("pgRosterRepository.ListUsernames scan: %w", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgRosterRepository.ListUsernames rows: %w", err)
	}
	return normalize(usernames)
}

type redisRosterRepository struct {
	rdb *redis.Client
	key string
}

// NewRedisRosterRepository reads the roster from a redis list, in list order.
func NewRedisRosterRepository(rdb *redis.Client, key string) RosterRepository {
	return &redisRosterRepository{rdb: rdb, key: key}
}

func (r *redisRosterRepository) ListUsernames(ctx context.Context) ([]string, error) {
	usernames, err := r.rdb.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redisRosterRepository.ListUsernames %s: %w", r.key, err)
	}
	// LRANGE answers an empty list for a missing key.
	if len(usernames) == 0 {
		n, err := r.rdb.Exists(ctx, r.key).Result()
		if err != nil {
			return nil, fmt.Errorf("redisRosterRepository.ListUsernames %s: %w", r.key, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("roster key %s: %w", r.key, common.ErrNotFound)
		}
	}
	return normalize(usernames)
}

func normalize(usernames []string) ([]string, error) {
	seen := make(map[string]struct{}, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	if len(out) == 0 {
		return nil, common.ErrEmptyRoster
	}
	return out, nil
}
