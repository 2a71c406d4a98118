// Package service implements the admin business logic on top of the
// store layer: article lifecycle, menus, media uploads, trend ingestion
// and the audit event log.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/brahmand/brahmand/internal/model"
	"github.com/brahmand/brahmand/internal/store"
	"github.com/brahmand/brahmand/internal/util"
)

// Service errors surfaced to handlers.
var (
	ErrVerseNotFound   = errors.New("verse not found")
	ErrInvalidStatus   = errors.New("invalid article status")
	ErrInvalidMenuArea = errors.New("invalid menu area")
)

// ArticleService manages the article lifecycle. Every write keeps the
// markdown mirror under <content>/<verse>/<slug>.md in sync with the
// body_md column; the static generator prefers the mirror file.
type ArticleService struct {
	queries    *store.Queries
	contentDir string
	logger     *slog.Logger
}

// NewArticleService creates an ArticleService writing markdown mirrors
// under contentDir.
func NewArticleService(db *sql.DB, contentDir string, logger *slog.Logger) *ArticleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleService{
		queries:    store.New(db),
		contentDir: contentDir,
		logger:     logger,
	}
}

// ArticleDetail is an article joined with its verse code and the
// resolved markdown body.
type ArticleDetail struct {
	model.Article
	VerseCode string `json:"verse_code"`
	Markdown  string `json:"markdown"`
}

// CreateArticleInput are the fields accepted when creating an article.
type CreateArticleInput struct {
	Title      string
	Slug       string
	Verse      string
	Type       string
	Status     string
	MetaTitle  string
	MetaDesc   string
	SchemaType string
	PublishAt  *time.Time
	Markdown   string
}

// UpdateArticleInput are the mutable article fields. Nil pointers leave
// the stored value untouched.
type UpdateArticleInput struct {
	Title      *string
	Type       *string
	Status     *string
	MetaTitle  *string
	MetaDesc   *string
	SchemaType *string
	PublishAt  *time.Time
	Markdown   *string
}

// List returns a filtered, paginated article listing.
func (s *ArticleService) List(ctx context.Context, arg store.ListArticlesParams) ([]store.ArticleListItem, error) {
	return s.queries.ListArticles(ctx, arg)
}

// Get fetches an article with its markdown body. The mirror file wins
// over the database column when both exist.
func (s *ArticleService) Get(ctx context.Context, id int64) (ArticleDetail, error) {
	article, err := s.queries.GetArticleByID(ctx, id)
	if err != nil {
		return ArticleDetail{}, err
	}
	verseCode, err := s.queries.GetVerseCodeForArticle(ctx, id)
	if err != nil {
		return ArticleDetail{}, err
	}

	markdown := article.BodyMD
	if data, err := os.ReadFile(s.mirrorPath(verseCode, article.Slug)); err == nil {
		markdown = string(data)
	}

	return ArticleDetail{Article: article, VerseCode: verseCode, Markdown: markdown}, nil
}

// Create inserts a new article with a slug unique within its verse and
// writes the markdown mirror. Returns the new article id.
func (s *ArticleService) Create(ctx context.Context, in CreateArticleInput, userID int64) (int64, error) {
	if in.Status != "" && !model.IsValidStatus(in.Status) {
		return 0, ErrInvalidStatus
	}

	verse, err := s.queries.GetVerseByCode(ctx, in.Verse)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", ErrVerseNotFound, in.Verse)
		}
		return 0, err
	}

	slug, err := s.ensureUniqueSlug(ctx, in.Verse, firstNonEmpty(in.Slug, in.Title))
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	status := in.Status
	if status == "" {
		status = model.ArticleStatusDraft
	}
	articleType := in.Type
	if articleType == "" {
		articleType = "article"
	}
	schemaType := in.SchemaType
	if schemaType == "" {
		schemaType = model.SchemaTypeNone
	}

	id, err := s.queries.CreateArticle(ctx, store.CreateArticleParams{
		VerseID:    verse.ID,
		Slug:       slug,
		Title:      in.Title,
		Type:       articleType,
		Status:     status,
		MetaTitle:  util.NullStringFromValue(in.MetaTitle),
		MetaDesc:   util.NullStringFromValue(in.MetaDesc),
		SchemaType: schemaType,
		BodyMD:     in.Markdown,
		PublishAt:  util.NullTimeFromPtr(in.PublishAt),
		CreatedBy:  util.NullInt64FromValue(userID),
		Now:        now,
	})
	if err != nil {
		return 0, err
	}

	s.writeMirror(in.Verse, slug, in.Markdown)
	return id, nil
}

// Update overwrites an article's mutable fields, keeping any field whose
// input pointer is nil, and refreshes the markdown mirror.
func (s *ArticleService) Update(ctx context.Context, id int64, in UpdateArticleInput, userID int64) error {
	if in.Status != nil && !model.IsValidStatus(*in.Status) {
		return ErrInvalidStatus
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	merged := store.UpdateArticleParams{
		ID:         id,
		Title:      stringOr(in.Title, current.Title),
		Type:       stringOr(in.Type, current.Type),
		MetaTitle:  current.MetaTitle,
		MetaDesc:   current.MetaDesc,
		SchemaType: stringOr(in.SchemaType, current.SchemaType),
		Status:     stringOr(in.Status, current.Status),
		PublishAt:  current.PublishAt,
		BodyMD:     stringOr(in.Markdown, current.Markdown),
		UpdatedBy:  util.NullInt64FromValue(userID),
		Now:        time.Now().UTC(),
	}
	if in.MetaTitle != nil {
		merged.MetaTitle = util.NullStringFromValue(*in.MetaTitle)
	}
	if in.MetaDesc != nil {
		merged.MetaDesc = util.NullStringFromValue(*in.MetaDesc)
	}
	if in.PublishAt != nil {
		merged.PublishAt = util.NullTimeFromPtr(in.PublishAt)
	}

	if err := s.queries.UpdateArticle(ctx, merged); err != nil {
		return err
	}

	s.writeMirror(current.VerseCode, current.Slug, merged.BodyMD)
	return nil
}

// UpdateSchedule changes only the publish time and status.
func (s *ArticleService) UpdateSchedule(ctx context.Context, id int64, publishAt *time.Time, status string, userID int64) (ArticleDetail, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return ArticleDetail{}, err
	}
	if status == "" {
		status = current.Status
	}
	if !model.IsValidStatus(status) {
		return ArticleDetail{}, ErrInvalidStatus
	}

	err = s.queries.UpdateArticleSchedule(ctx, store.UpdateArticleScheduleParams{
		ID:        id,
		PublishAt: util.NullTimeFromPtr(publishAt),
		Status:    status,
		UpdatedBy: util.NullInt64FromValue(userID),
		Now:       time.Now().UTC(),
	})
	if err != nil {
		return ArticleDetail{}, err
	}
	return s.Get(ctx, id)
}

// Publish flips an article to published immediately. An already
// scheduled publish time is kept, otherwise publish_at is set to now.
func (s *ArticleService) Publish(ctx context.Context, id int64, userID int64) (ArticleDetail, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return ArticleDetail{}, err
	}

	now := time.Now().UTC()
	publishAt := now
	if current.PublishAt.Valid {
		publishAt = current.PublishAt.Time
	}

	err = s.queries.PublishArticle(ctx, store.PublishArticleParams{
		ID:        id,
		PublishAt: publishAt,
		UpdatedBy: util.NullInt64FromValue(userID),
		Now:       now,
	})
	if err != nil {
		return ArticleDetail{}, err
	}
	return s.Get(ctx, id)
}

// SlugExists reports whether a slug is taken within a verse.
func (s *ArticleService) SlugExists(ctx context.Context, verseCode, slug string) (bool, error) {
	return s.queries.SlugExists(ctx, store.SlugExistsParams{VerseCode: verseCode, Slug: slug})
}

// ensureUniqueSlug slugifies the candidate and appends -1, -2… until
// the slug is free within the verse.
func (s *ArticleService) ensureUniqueSlug(ctx context.Context, verseCode, candidate string) (string, error) {
	base := util.Slugify(candidate)
	if base == "" {
		base = fmt.Sprintf("article-%d", time.Now().UnixMilli())
	}

	slug := base
	for attempt := 1; ; attempt++ {
		exists, err := s.queries.SlugExists(ctx, store.SlugExistsParams{VerseCode: verseCode, Slug: slug})
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}

func (s *ArticleService) mirrorPath(verseCode, slug string) string {
	return filepath.Join(s.contentDir, verseCode, slug+".md")
}

// writeMirror keeps the markdown file in sync with the database. A
// failed write is logged rather than failing the request; the database
// row remains the source of truth until the next successful write.
func (s *ArticleService) writeMirror(verseCode, slug, markdown string) {
	dir := filepath.Join(s.contentDir, verseCode)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Warn("creating content dir failed", "dir", dir, "error", err)
		return
	}
	path := s.mirrorPath(verseCode, slug)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		s.logger.Warn("writing markdown mirror failed", "path", path, "error", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}
