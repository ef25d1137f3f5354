package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"blogapi/app/models"

	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour spoken by SQLStore.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

var schemas = map[Dialect][]string{
	DialectSQLite: {
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			contents TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			text TEXT NOT NULL,
			post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
	},
	DialectPostgres: {
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			contents TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id BIGSERIAL PRIMARY KEY,
			text TEXT NOT NULL,
			post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id)`,
	},
}

// SQLStore is a database/sql backed Store for sqlite and postgres.
type SQLStore struct {
	db       *sql.DB
	dialect  Dialect
	posts    *SQLPostRepository
	comments *SQLCommentRepository
}

// OpenSQL connects, pings and creates the schema. For sqlite dsn is a file path.
func OpenSQL(ctx context.Context, dialect Dialect, dsn string, log *zerolog.Logger) (*SQLStore, error) {
	var db *sql.DB
	switch dialect {
	case DialectSQLite:
		var err error
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
		}
		// sqlite serializes writers; one connection avoids SQLITE_BUSY
		db.SetMaxOpenConns(1)
	case DialectPostgres:
		connConfig, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
		}
		if log != nil && log.GetLevel() <= zerolog.DebugLevel {
			connConfig.Tracer = &tracelog.TraceLog{
				Logger:   pgxzero.NewLogger(log.With().Str("component", "pgx").Logger()),
				LogLevel: tracelog.LogLevelDebug,
			}
		}
		db = stdlib.OpenDB(*connConfig)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	for _, stmt := range schemas[dialect] {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	if log != nil {
		log.Info().Str("dialect", string(dialect)).Msg("connected to the database")
	}

	s := &SQLStore{db: db, dialect: dialect}
	s.posts = &SQLPostRepository{store: s}
	s.comments = &SQLCommentRepository{store: s}
	return s, nil
}

func (s *SQLStore) Posts() PostRepository {
	return s.posts
}

func (s *SQLStore) Comments() CommentRepository {
	return s.comments
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLPostRepository implements PostRepository on SQLStore
type SQLPostRepository struct {
	store *SQLStore
}

func (r *SQLPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := r.store.rebind(`
		INSERT INTO posts (title, contents, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	err := r.store.db.QueryRowContext(ctx, query, post.Title, post.Contents, post.CreatedAt, post.UpdatedAt).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *SQLPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := r.store.rebind(`
		SELECT id, title, contents, created_at, updated_at
		FROM posts
		WHERE id = ?`)

	var p models.Post
	err := r.store.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Contents, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &p, nil
}

func (r *SQLPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, title, contents, created_at, updated_at
		FROM posts
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Contents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

func (r *SQLPostRepository) Update(ctx context.Context, post *models.Post) (int, error) {
	query := r.store.rebind(`
		UPDATE posts
		SET title = ?, contents = ?, updated_at = ?
		WHERE id = ?`)

	res, err := r.store.db.ExecContext(ctx, query, post.Title, post.Contents, post.UpdatedAt, post.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to update post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	return int(n), nil
}

func (r *SQLPostRepository) Delete(ctx context.Context, id int) (int, error) {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, r.store.rebind(`DELETE FROM comments WHERE post_id = ?`), id); err != nil {
		return 0, fmt.Errorf("failed to delete comments: %w", err)
	}
	res, err := tx.ExecContext(ctx, r.store.rebind(`DELETE FROM posts WHERE id = ?`), id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(n), nil
}

// SQLCommentRepository implements CommentRepository on SQLStore
type SQLCommentRepository struct {
	store *SQLStore
}

const commentColumns = `c.id, c.text, c.post_id, p.title, c.created_at, c.updated_at`

func (r *SQLCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, r.store.rebind(`SELECT title FROM posts WHERE id = ?`), comment.PostID).Scan(&comment.Post)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load post: %w", err)
	}

	query := r.store.rebind(`
		INSERT INTO comments (text, post_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	err = tx.QueryRowContext(ctx, query, comment.Text, comment.PostID, comment.CreatedAt, comment.UpdatedAt).Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	return tx.Commit()
}

func (r *SQLCommentRepository) GetByID(ctx context.Context, id int) (*models.Comment, error) {
	query := r.store.rebind(`
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.id = ?`)

	var c models.Comment
	err := r.store.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Text, &c.PostID, &c.Post, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

func (r *SQLCommentRepository) ListByPost(ctx context.Context, postID int) ([]*models.Comment, error) {
	query := r.store.rebind(`
		SELECT ` + commentColumns + `
		FROM comments c
		JOIN posts p ON p.id = c.post_id
		WHERE c.post_id = ?
		ORDER BY c.id`)

	rows, err := r.store.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.Text, &c.PostID, &c.Post, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
