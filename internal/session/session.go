// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session builds the scs session manager and picks its backing store.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/postgresstore"
	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/redis/go-redis/v9"
)

// Lifetime is how long the session cookie and its stored data live.
// Staff authentication carries its own shorter expiry inside the session.
const Lifetime = 24 * time.Hour

// Options selects the session store.
type Options struct {
	// DB backs the store when Redis is nil.
	DB *sql.DB
	// Postgres selects postgresstore instead of sqlite3store for DB.
	Postgres bool
	// Redis, when set, takes precedence over DB.
	Redis *redis.Client
	// IsDev disables Secure cookies and the __Host- prefix.
	IsDev bool
}

// New creates a new session manager.
func New(opts Options) *scs.SessionManager {
	sm := scs.New()

	switch {
	case opts.Redis != nil:
		sm.Store = goredisstore.New(opts.Redis)
	case opts.Postgres:
		sm.Store = postgresstore.New(opts.DB)
	default:
		sm.Store = sqlite3store.New(opts.DB)
	}

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !opts.IsDev
	if !opts.IsDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	redisOpts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(redisOpts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}
