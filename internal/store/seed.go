package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/brahmand/brahmand/internal/auth"
	"github.com/brahmand/brahmand/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@brahmand.co"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Administrator"
)

// defaultVerses is the launch set of content sections.
var defaultVerses = []CreateVerseParams{
	{Code: model.VerseTechverse, Title: "Techverse", SortOrder: 1},
	{Code: model.VerseFinverse, Title: "Finverse", SortOrder: 2},
	{Code: model.VerseHealthverse, Title: "Healthverse", SortOrder: 3},
	{Code: model.VerseSkillverse, Title: "Skillverse", SortOrder: 4},
}

// Seed creates the verses reference data and, when doSeed is set, a
// default admin user. Verses are always ensured because articles and
// menus cannot exist without them.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	queries := New(db)

	for _, v := range defaultVerses {
		_, err := queries.GetVerseByCode(ctx, v.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking verse %q: %w", v.Code, err)
		}
		if _, err := queries.CreateVerse(ctx, v); err != nil {
			return fmt.Errorf("creating verse %q: %w", v.Code, err)
		}
		slog.Info("created verse", "code", v.Code)
	}

	if !doSeed {
		return nil
	}

	_, err := queries.GetUserByEmail(ctx, DefaultAdminEmail)
	if err == nil {
		slog.Info("admin user already exists, skipping seed")
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	id, err := queries.CreateUser(ctx, CreateUserParams{
		Email:        DefaultAdminEmail,
		PasswordHash: passwordHash,
		Role:         model.RoleSuperAdmin,
		Name:         DefaultAdminName,
		Now:          time.Now(),
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created default admin user",
		"id", id,
		"email", DefaultAdminEmail,
	)

	return nil
}
