package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

// timeLayout sorts lexically, so range filters work on the TEXT columns.
const timeLayout = "2006-01-02 15:04:05"

var fieldNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driverName, err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		collection TEXT NOT NULL,
		slug TEXT,
		sort_order INTEGER DEFAULT 0,
		data JSON NOT NULL,
		created TEXT NOT NULL,
		updated TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_records_collection ON records(collection, sort_order);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_records_slug ON records(collection, slug) WHERE slug IS NOT NULL AND slug <> '';

	CREATE TABLE IF NOT EXISTS analytics_events (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		path TEXT NOT NULL,
		country TEXT,
		referrer TEXT,
		user_agent TEXT,
		is_bot INTEGER DEFAULT 0,
		created TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analytics_events_created ON analytics_events(created);

	CREATE TABLE IF NOT EXISTS files (
		path TEXT PRIMARY KEY,
		size INTEGER DEFAULT 0,
		content_type TEXT,
		created TEXT NOT NULL
	);
	`
	_, err := db.Exec(query)
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

const recordColumns = `id, collection, COALESCE(slug, ''), sort_order, data, created, updated`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.StoredRecord, error) {
	var rec domain.StoredRecord
	var data []byte
	var created, updated string
	if err := row.Scan(&rec.ID, &rec.Collection, &rec.Slug, &rec.SortOrder, &data, &created, &updated); err != nil {
		return nil, err
	}
	rec.Data = domain.Record{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", rec.ID, err)
		}
	}
	rec.Created = parseTime(created)
	rec.Updated = parseTime(updated)
	return &rec, nil
}

// filterClause turns field filters into json_extract comparisons. Keys that are
// not plain identifiers are ignored.
func filterClause(filter map[string]string) (string, []any) {
	var sb strings.Builder
	var args []any
	for key, value := range filter {
		if !fieldNameRe.MatchString(key) {
			continue
		}
		if key == "slug" {
			sb.WriteString(" AND slug = ?")
			args = append(args, value)
			continue
		}
		sb.WriteString(" AND json_extract(data, '$." + key + "') = ?")
		args = append(args, filterValue(value))
	}
	return sb.String(), args
}

// json_extract yields typed values, so compare booleans and integers as such.
func filterValue(v string) any {
	switch v {
	case "true":
		return 1
	case "false":
		return 0
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	return v
}

func orderClause(sort string) string {
	desc := strings.HasPrefix(sort, "-")
	field := strings.TrimPrefix(sort, "-")
	if field == "sortOrder" {
		field = "sort_order"
	}
	dir := " ASC"
	if desc {
		dir = " DESC"
	}
	switch {
	case field == "":
		return " ORDER BY sort_order ASC, created DESC"
	case field == "created" || field == "updated" || field == "sort_order" || field == "slug":
		return " ORDER BY " + field + dir
	case fieldNameRe.MatchString(field):
		return " ORDER BY json_extract(data, '$." + field + "')" + dir
	}
	return " ORDER BY sort_order ASC, created DESC"
}

func (r *SQLiteRepository) List(ctx context.Context, collection string, opts domain.ListOptions) ([]domain.StoredRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE collection = ?`
	args := []any{collection}

	clause, filterArgs := filterClause(opts.Filter)
	query += clause
	args = append(args, filterArgs...)

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	query += orderClause(opts.Sort) + " LIMIT ? OFFSET ?"
	args = append(args, limit, max(opts.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.StoredRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (r *SQLiteRepository) Count(ctx context.Context, collection string, filter map[string]string) (int64, error) {
	query := `SELECT COUNT(*) FROM records WHERE collection = ?`
	clause, args := filterClause(filter)

	var count int64
	err := r.db.QueryRowContext(ctx, query+clause, append([]any{collection}, args...)...).Scan(&count)
	return count, err
}

func (r *SQLiteRepository) Get(ctx context.Context, collection, id string) (*domain.StoredRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE collection = ? AND id = ?`, collection, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *SQLiteRepository) GetBySlug(ctx context.Context, collection, slug string) (*domain.StoredRecord, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM records WHERE collection = ? AND slug = ?`, collection, slug)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *domain.StoredRecord) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	query := `INSERT INTO records (id, collection, slug, sort_order, data, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, rec.ID, rec.Collection, nullString(rec.Slug), rec.SortOrder, string(data),
		formatTime(rec.Created), formatTime(rec.Updated))
	return err
}

func (r *SQLiteRepository) Update(ctx context.Context, rec *domain.StoredRecord) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return err
	}
	query := `UPDATE records SET slug = ?, sort_order = ?, data = ?, updated = ? WHERE collection = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, nullString(rec.Slug), rec.SortOrder, string(data), formatTime(rec.Updated),
		rec.Collection, rec.ID)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *SQLiteRepository) Delete(ctx context.Context, collection, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *SQLiteRepository) UpdateSortOrder(ctx context.Context, collection, id string, order int) error {
	query := `UPDATE records SET sort_order = ?, updated = ? WHERE collection = ? AND id = ?`
	res, err := r.db.ExecContext(ctx, query, order, formatTime(time.Now()), collection, id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.StoredRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM records ORDER BY collection, sort_order, created`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.StoredRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Ensure interface compliance
var (
	_ ports.RecordRepository    = (*SQLiteRepository)(nil)
	_ ports.AnalyticsRepository = (*SQLiteRepository)(nil)
	_ ports.FileRepository      = (*SQLiteRepository)(nil)
)
