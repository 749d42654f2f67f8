package sqlite

import (
	"context"
	"strings"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
)

func (r *SQLiteRepository) RegisterFile(ctx context.Context, f *domain.StoredFile) error {
	query := `INSERT INTO files (path, size, content_type, created) VALUES (?, ?, ?, ?)
			  ON CONFLICT(path) DO UPDATE SET size = excluded.size, content_type = excluded.content_type`
	_, err := r.db.ExecContext(ctx, query, f.Path, f.Size, f.ContentType, formatTime(f.Created))
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *SQLiteRepository) ListFiles(ctx context.Context, prefix string) ([]domain.StoredFile, error) {
	query := `SELECT path, size, COALESCE(content_type, ''), created FROM files WHERE path LIKE ? ESCAPE '\' ORDER BY path`
	rows, err := r.db.QueryContext(ctx, query, likeEscaper.Replace(prefix)+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := []domain.StoredFile{}
	for rows.Next() {
		var f domain.StoredFile
		var created string
		if err := rows.Scan(&f.Path, &f.Size, &f.ContentType, &created); err != nil {
			return nil, err
		}
		f.Created = parseTime(created)
		files = append(files, f)
	}
	return files, rows.Err()
}
