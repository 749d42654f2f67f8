package services

import (
	"context"
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/mapper"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
)

type StorageService struct {
	repo   ports.FileRepository
	mapper *mapper.Mapper
	now    func() time.Time
}

func NewStorageService(repo ports.FileRepository, m *mapper.Mapper) *StorageService {
	return &StorageService{repo: repo, mapper: m, now: time.Now}
}

// Browse lists one level of the file index under prefix. Deeper paths collapse
// into folder entries; folders sort before files.
func (s *StorageService) Browse(ctx context.Context, prefix string) ([]domain.BrowseEntry, error) {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix != "" {
		prefix += "/"
	}

	files, err := s.repo.ListFiles(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list files under %q: %w", prefix, err)
	}

	entries := []domain.BrowseEntry{}
	seen := make(map[string]bool)
	for _, f := range files {
		rest := strings.TrimPrefix(f.Path, prefix)
		if dir, _, nested := strings.Cut(rest, "/"); nested {
			if seen[dir] {
				continue
			}
			seen[dir] = true
			entries = append(entries, domain.BrowseEntry{Name: dir, Path: prefix + dir + "/", IsDir: true})
			continue
		}
		entries = append(entries, domain.BrowseEntry{
			Name:        rest,
			Path:        f.Path,
			Size:        f.Size,
			ContentType: f.ContentType,
			URL:         s.mapper.StorageURL(f.Path),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Register adds or refreshes an uploaded file in the index.
func (s *StorageService) Register(ctx context.Context, file domain.StoredFile) (*domain.StoredFile, error) {
	p := strings.TrimSpace(file.Path)
	if p == "" {
		return nil, &domain.ValidationError{Field: "path"}
	}
	if strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") || path.Clean(p) != p || strings.HasPrefix(p, "../") || p == ".." {
		return nil, &domain.ValidationError{Field: "path", Reason: "must be a clean relative file path"}
	}
	file.Path = p
	if file.ContentType == "" {
		file.ContentType = mime.TypeByExtension(path.Ext(p))
	}
	if file.Created.IsZero() {
		file.Created = s.now().UTC()
	}

	if err := s.repo.RegisterFile(ctx, &file); err != nil {
		return nil, fmt.Errorf("register %q: %w", p, err)
	}
	return &file, nil
}
