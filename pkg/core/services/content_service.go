package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/mapper"
	"github.com/wadjakorntonsri/go-portfolio/pkg/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// requiredFields lists the data fields a write must carry per collection.
var requiredFields = map[string][]string{
	domain.CollectionPosts:        {"title", "slug"},
	domain.CollectionProjects:     {"title"},
	domain.CollectionBooks:        {"title"},
	domain.CollectionCertificates: {"title"},
	domain.CollectionMovies:       {"title"},
	domain.CollectionPublications: {"title"},
	domain.CollectionEmployment:   {"company"},
	domain.CollectionSections:     {"key"},
	domain.CollectionComments:     {"postId", "body"},
}

// envelope keys live in columns, not in the data document
var envelopeKeys = []string{"id", "collectionName", "slug", "sortOrder", "created", "updated"}

type ContentService struct {
	repo   ports.RecordRepository
	mapper *mapper.Mapper
	logger *zap.Logger
	now    func() time.Time
}

func NewContentService(repo ports.RecordRepository, m *mapper.Mapper, logger *zap.Logger) *ContentService {
	return &ContentService{repo: repo, mapper: m, logger: logger.Named("content"), now: time.Now}
}

// ListPublic backs the public pages: failures are logged and read as an empty list.
// Posts are always limited to published ones.
func (s *ContentService) ListPublic(ctx context.Context, collection string, opts domain.ListOptions) ([]any, int64) {
	if collection == domain.CollectionPosts {
		filter := make(map[string]string, len(opts.Filter)+1)
		for k, v := range opts.Filter {
			filter[k] = v
		}
		filter["published"] = "true"
		opts.Filter = filter
	}
	items, total, err := s.List(ctx, collection, opts)
	if err != nil {
		s.logger.Warn("public listing failed", zap.String("collection", collection), zap.Error(err))
		return []any{}, 0
	}
	return items, total
}

func (s *ContentService) List(ctx context.Context, collection string, opts domain.ListOptions) ([]any, int64, error) {
	if !domain.IsKnownCollection(collection) {
		return nil, 0, fmt.Errorf("%q: %w", collection, domain.ErrUnknownCollection)
	}

	records, err := s.repo.List(ctx, collection, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", collection, err)
	}
	total, err := s.repo.Count(ctx, collection, opts.Filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", collection, err)
	}

	items := make([]any, 0, len(records))
	for _, rec := range records {
		item, err := s.mapper.Map(collection, rec.Flatten())
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

// Get looks a record up by id, then by slug.
func (s *ContentService) Get(ctx context.Context, collection, idOrSlug string) (any, error) {
	rec, err := s.find(ctx, collection, idOrSlug)
	if err != nil {
		return nil, err
	}
	return s.mapper.Map(collection, rec.Flatten())
}

// GetPublic is Get for anonymous readers: unpublished posts read as not found.
func (s *ContentService) GetPublic(ctx context.Context, collection, idOrSlug string) (any, error) {
	item, err := s.Get(ctx, collection, idOrSlug)
	if err != nil {
		return nil, err
	}
	if post, ok := item.(domain.Post); ok && !post.Published {
		return nil, fmt.Errorf("%s %q: %w", collection, idOrSlug, domain.ErrNotFound)
	}
	return item, nil
}

func (s *ContentService) find(ctx context.Context, collection, idOrSlug string) (*domain.StoredRecord, error) {
	if !domain.IsKnownCollection(collection) {
		return nil, fmt.Errorf("%q: %w", collection, domain.ErrUnknownCollection)
	}
	rec, err := s.repo.Get(ctx, collection, idOrSlug)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec, err = s.repo.GetBySlug(ctx, collection, idOrSlug)
		if err != nil {
			return nil, err
		}
	}
	if rec == nil {
		return nil, fmt.Errorf("%s %q: %w", collection, idOrSlug, domain.ErrNotFound)
	}
	return rec, nil
}

func (s *ContentService) Create(ctx context.Context, collection string, data domain.Record) (any, error) {
	if !domain.IsKnownCollection(collection) {
		return nil, fmt.Errorf("%q: %w", collection, domain.ErrUnknownCollection)
	}
	if err := validate(collection, data); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := &domain.StoredRecord{
		ID:         envelopeString(data, "id"),
		Collection: collection,
		Slug:       envelopeString(data, "slug"),
		SortOrder:  sortOrder(data),
		Data:       stripEnvelope(data),
		Created:    now,
		Updated:    now,
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	if err := s.checkSlug(ctx, collection, rec.Slug, rec.ID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create %s: %w", collection, err)
	}
	return s.mapper.Map(collection, rec.Flatten())
}

// Update merges data over the stored record; fields not present are kept.
func (s *ContentService) Update(ctx context.Context, collection, id string, data domain.Record) (any, error) {
	if !domain.IsKnownCollection(collection) {
		return nil, fmt.Errorf("%q: %w", collection, domain.ErrUnknownCollection)
	}
	rec, err := s.repo.Get(ctx, collection, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s %q: %w", collection, id, domain.ErrNotFound)
	}

	if _, ok := data["slug"]; ok {
		slug := envelopeString(data, "slug")
		if slug != rec.Slug {
			if err := s.checkSlug(ctx, collection, slug, rec.ID); err != nil {
				return nil, err
			}
		}
		rec.Slug = slug
	}
	if _, ok := data["sortOrder"]; ok {
		rec.SortOrder = sortOrder(data)
	}
	for k, v := range stripEnvelope(data) {
		rec.Data[k] = v
	}

	if err := validate(collection, rec.Flatten()); err != nil {
		return nil, err
	}

	rec.Updated = s.now().UTC()
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, fmt.Errorf("update %s: %w", collection, err)
	}
	return s.mapper.Map(collection, rec.Flatten())
}

func (s *ContentService) Delete(ctx context.Context, collection, id string) error {
	if !domain.IsKnownCollection(collection) {
		return fmt.Errorf("%q: %w", collection, domain.ErrUnknownCollection)
	}
	if err := s.repo.Delete(ctx, collection, id); err != nil {
		return fmt.Errorf("delete %s %q: %w", collection, id, err)
	}
	return nil
}

// ReorderSections writes each section's new position independently and
// concurrently. There is no transaction: when one update fails the others stay
// committed and the first error is returned.
func (s *ContentService) ReorderSections(ctx context.Context, ids []string) error {
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			if err := s.repo.UpdateSortOrder(ctx, domain.CollectionSections, id, i+1); err != nil {
				return fmt.Errorf("section %q: %w", id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// CommentThread returns a post's comments nested by reply. Failures read as no comments.
func (s *ContentService) CommentThread(ctx context.Context, postID string) []*domain.Comment {
	records, err := s.repo.List(ctx, domain.CollectionComments, domain.ListOptions{
		Filter: map[string]string{"postId": postID},
		Sort:   "created",
	})
	if err != nil {
		s.logger.Warn("list comments failed", zap.String("post_id", postID), zap.Error(err))
		return []*domain.Comment{}
	}

	comments := make([]domain.Comment, 0, len(records))
	for _, rec := range records {
		comments = append(comments, s.mapper.Comment(rec.Flatten()))
	}
	return mapper.BuildCommentThread(comments)
}

func (s *ContentService) checkSlug(ctx context.Context, collection, slug, id string) error {
	if slug == "" {
		return nil
	}
	existing, err := s.repo.GetBySlug(ctx, collection, slug)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != id {
		return &domain.ValidationError{Field: "slug", Reason: "already exists"}
	}
	return nil
}

func validate(collection string, data domain.Record) error {
	for _, field := range requiredFields[collection] {
		v, ok := data[field]
		if !ok || v == nil {
			return &domain.ValidationError{Field: field}
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			return &domain.ValidationError{Field: field}
		}
	}
	return nil
}

func envelopeString(data domain.Record, key string) string {
	switch v := data[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func sortOrder(data domain.Record) int {
	switch v := data["sortOrder"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}

func stripEnvelope(data domain.Record) domain.Record {
	out := make(domain.Record, len(data))
	for k, v := range data {
		out[k] = v
	}
	for _, k := range envelopeKeys {
		delete(out, k)
	}
	return out
}
