package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/brahmand/brahmand/internal/model"
)

// ErrNotFound is returned when a row targeted by an update no longer exists.
var ErrNotFound = sql.ErrNoRows

const articleColumns = `a.id, a.verse_id, a.slug, a.title, a.type, a.status,
	a.meta_title, a.meta_desc, a.schema_type, a.canonical_url, a.body_md,
	a.publish_at, a.created_by, a.updated_by, a.created_at, a.updated_at`

func scanArticle(row interface{ Scan(...any) error }) (model.Article, error) {
	var a model.Article
	err := row.Scan(
		&a.ID, &a.VerseID, &a.Slug, &a.Title, &a.Type, &a.Status,
		&a.MetaTitle, &a.MetaDesc, &a.SchemaType, &a.CanonicalURL, &a.BodyMD,
		&a.PublishAt, &a.CreatedBy, &a.UpdatedBy, &a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// CreateArticleParams holds the fields for a new article.
type CreateArticleParams struct {
	VerseID    int64
	Slug       string
	Title      string
	Type       string
	Status     string
	MetaTitle  sql.NullString
	MetaDesc   sql.NullString
	SchemaType string
	BodyMD     string
	PublishAt  sql.NullTime
	CreatedBy  sql.NullInt64
	Now        time.Time
}

// CreateArticle inserts a new article and returns its id.
func (q *Queries) CreateArticle(ctx context.Context, arg CreateArticleParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO articles (
			verse_id, slug, title, type, status, meta_title, meta_desc,
			schema_type, body_md, publish_at, created_by, updated_by,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.VerseID, arg.Slug, arg.Title, arg.Type, arg.Status,
		arg.MetaTitle, arg.MetaDesc, arg.SchemaType, arg.BodyMD,
		arg.PublishAt, arg.CreatedBy, arg.CreatedBy, arg.Now, arg.Now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting article: %w", err)
	}
	return res.LastInsertId()
}

// GetArticleByID fetches a single article by id.
func (q *Queries) GetArticleByID(ctx context.Context, id int64) (model.Article, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		WHERE a.id = ?`, id)
	return scanArticle(row)
}

// GetVerseCodeForArticle returns the verse code an article belongs to.
func (q *Queries) GetVerseCodeForArticle(ctx context.Context, articleID int64) (string, error) {
	var code string
	err := q.db.QueryRowContext(ctx, `
		SELECT v.code
		FROM articles a
		INNER JOIN verses v ON v.id = a.verse_id
		WHERE a.id = ?`, articleID).Scan(&code)
	return code, err
}

// ArticleListItem is the projection used by the admin article list.
type ArticleListItem struct {
	ID        int64
	Slug      string
	Title     string
	Status    string
	PublishAt sql.NullTime
	UpdatedAt time.Time
	Verse     string
	UpdatedBy sql.NullString
}

// ListArticlesParams are the admin list filters.
type ListArticlesParams struct {
	Verse    string // verse code filter, empty = all
	Status   string // status filter, empty = all
	Page     int
	PageSize int
}

// ListArticles returns a filtered, paginated article listing ordered by
// most recently updated.
func (q *Queries) ListArticles(ctx context.Context, arg ListArticlesParams) ([]ArticleListItem, error) {
	var where []string
	var args []any

	if arg.Verse != "" {
		where = append(where, "v.code = ?")
		args = append(args, arg.Verse)
	}
	if arg.Status != "" {
		where = append(where, "a.status = ?")
		args = append(args, arg.Status)
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	page := arg.Page
	if page < 1 {
		page = 1
	}
	pageSize := arg.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := q.db.QueryContext(ctx, `
		SELECT a.id, a.slug, a.title, a.status, a.publish_at, a.updated_at,
			v.code AS verse, u.email AS updated_by
		FROM articles a
		INNER JOIN verses v ON v.id = a.verse_id
		LEFT JOIN users u ON u.id = a.updated_by
		`+whereSQL+`
		ORDER BY a.updated_at DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var items []ArticleListItem
	for rows.Next() {
		var it ArticleListItem
		if err := rows.Scan(&it.ID, &it.Slug, &it.Title, &it.Status, &it.PublishAt, &it.UpdatedAt, &it.Verse, &it.UpdatedBy); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetDueScheduledArticles returns scheduled articles whose publish time
// has passed.
func (q *Queries) GetDueScheduledArticles(ctx context.Context, now time.Time) ([]model.DueArticle, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.id, a.slug, a.verse_id, a.publish_at
		FROM articles a
		WHERE a.status = ? AND a.publish_at <= ?`,
		model.ArticleStatusScheduled, now)
	if err != nil {
		return nil, fmt.Errorf("querying due articles: %w", err)
	}
	defer rows.Close()

	var due []model.DueArticle
	for rows.Next() {
		var d model.DueArticle
		if err := rows.Scan(&d.ID, &d.Slug, &d.VerseID, &d.PublishAt); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// MarkArticlePublishedParams identify the row to publish and the actor.
type MarkArticlePublishedParams struct {
	ID        int64
	UpdatedBy sql.NullInt64
	Now       time.Time
}

// MarkArticlePublished flips a single article to published. Returns
// ErrNotFound if the article no longer exists.
func (q *Queries) MarkArticlePublished(ctx context.Context, arg MarkArticlePublishedParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET status = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`,
		model.ArticleStatusPublished, arg.UpdatedBy, arg.Now, arg.ID)
	if err != nil {
		return fmt.Errorf("publishing article %d: %w", arg.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateArticleParams holds the full set of mutable article fields.
type UpdateArticleParams struct {
	ID         int64
	Title      string
	Type       string
	MetaTitle  sql.NullString
	MetaDesc   sql.NullString
	SchemaType string
	Status     string
	PublishAt  sql.NullTime
	BodyMD     string
	UpdatedBy  sql.NullInt64
	Now        time.Time
}

// UpdateArticle overwrites an article's mutable fields.
func (q *Queries) UpdateArticle(ctx context.Context, arg UpdateArticleParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, type = ?, meta_title = ?, meta_desc = ?,
			schema_type = ?, status = ?, publish_at = ?, body_md = ?,
			updated_by = ?, updated_at = ?
		WHERE id = ?`,
		arg.Title, arg.Type, arg.MetaTitle, arg.MetaDesc,
		arg.SchemaType, arg.Status, arg.PublishAt, arg.BodyMD,
		arg.UpdatedBy, arg.Now, arg.ID)
	if err != nil {
		return fmt.Errorf("updating article %d: %w", arg.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateArticleScheduleParams set a new publish time and status.
type UpdateArticleScheduleParams struct {
	ID        int64
	PublishAt sql.NullTime
	Status    string
	UpdatedBy sql.NullInt64
	Now       time.Time
}

// UpdateArticleSchedule updates only the scheduling fields of an article.
func (q *Queries) UpdateArticleSchedule(ctx context.Context, arg UpdateArticleScheduleParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET publish_at = ?, status = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`,
		arg.PublishAt, arg.Status, arg.UpdatedBy, arg.Now, arg.ID)
	if err != nil {
		return fmt.Errorf("scheduling article %d: %w", arg.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// PublishArticleParams publish an article immediately.
type PublishArticleParams struct {
	ID        int64
	PublishAt time.Time
	UpdatedBy sql.NullInt64
	Now       time.Time
}

// PublishArticle sets status to published with an explicit publish time.
func (q *Queries) PublishArticle(ctx context.Context, arg PublishArticleParams) error {
	res, err := q.db.ExecContext(ctx, `
		UPDATE articles
		SET status = ?, publish_at = ?, updated_by = ?, updated_at = ?
		WHERE id = ?`,
		model.ArticleStatusPublished, arg.PublishAt, arg.UpdatedBy, arg.Now, arg.ID)
	if err != nil {
		return fmt.Errorf("publishing article %d: %w", arg.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPublishedArticles returns every published article joined with its
// verse, ordered by publish time descending.
func (q *Queries) ListPublishedArticles(ctx context.Context) ([]model.PublishedArticle, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.id, a.slug, a.title, a.status, a.publish_at, a.updated_at,
			a.meta_title, a.meta_desc, a.schema_type, a.body_md,
			v.code AS verse_code, v.title AS verse_title
		FROM articles a
		INNER JOIN verses v ON v.id = a.verse_id
		WHERE a.status = ?
		ORDER BY a.publish_at DESC`,
		model.ArticleStatusPublished)
	if err != nil {
		return nil, fmt.Errorf("listing published articles: %w", err)
	}
	defer rows.Close()

	var articles []model.PublishedArticle
	for rows.Next() {
		var a model.PublishedArticle
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Status, &a.PublishAt, &a.UpdatedAt,
			&a.MetaTitle, &a.MetaDesc, &a.SchemaType, &a.BodyMD, &a.VerseCode, &a.VerseTitle); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// SlugExistsParams identify a candidate slug within a verse.
type SlugExistsParams struct {
	VerseCode string
	Slug      string
}

// SlugExists reports whether a slug is already taken within a verse.
func (q *Queries) SlugExists(ctx context.Context, arg SlugExistsParams) (bool, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, `
		SELECT a.id
		FROM articles a
		INNER JOIN verses v ON v.id = a.verse_id
		WHERE v.code = ? AND a.slug = ?
		LIMIT 1`, arg.VerseCode, arg.Slug).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PublishQueueItem is one entry of the dashboard publish queue.
type PublishQueueItem struct {
	ID        int64
	Title     string
	Verse     string
	Status    string
	PublishAt sql.NullTime
}

// ListPublishQueue returns upcoming review/scheduled articles ordered by
// publish time.
func (q *Queries) ListPublishQueue(ctx context.Context, limit int) ([]PublishQueueItem, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := q.db.QueryContext(ctx, `
		SELECT a.id, a.title, v.code, a.status, a.publish_at
		FROM articles a
		INNER JOIN verses v ON v.id = a.verse_id
		WHERE a.status IN (?, ?)
		ORDER BY a.publish_at IS NULL, a.publish_at ASC
		LIMIT ?`,
		model.ArticleStatusReview, model.ArticleStatusScheduled, limit)
	if err != nil {
		return nil, fmt.Errorf("listing publish queue: %w", err)
	}
	defer rows.Close()

	var items []PublishQueueItem
	for rows.Next() {
		var it PublishQueueItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Verse, &it.Status, &it.PublishAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
