// Package mapper converts loosely typed records from the record store into domain objects.
package mapper

import (
	"bytes"
	"net/url"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const wordsPerMinute = 200

// Mapper holds what the record conversions need beyond the record itself: where
// files are served from and how markdown is rendered.
type Mapper struct {
	storageBaseURL string
	md             goldmark.Markdown
	policy         *bluemonday.Policy
}

func New(storageBaseURL string) *Mapper {
	return &Mapper{
		storageBaseURL: strings.TrimRight(storageBaseURL, "/"),
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		policy: bluemonday.UGCPolicy(),
	}
}

// FileURL resolves a file reference stored on a record.
// Absolute URLs pass through, empty references stay empty.
func (m *Mapper) FileURL(collection, recordID, filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return ""
	}
	if u, err := url.Parse(filename); err == nil && u.Scheme != "" && u.Host != "" {
		return filename
	}
	return m.storageBaseURL + "/" + url.PathEscape(collection) + "/" + url.PathEscape(recordID) + "/" + url.PathEscape(filename)
}

// StorageURL resolves a path from the file index, escaping each segment.
func (m *Mapper) StorageURL(p string) string {
	segments := strings.Split(strings.Trim(p, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return m.storageBaseURL + "/" + strings.Join(segments, "/")
}

func (m *Mapper) file(r domain.Record, collection string, keys ...string) string {
	name := str(r, keys...)
	if name == "" {
		// multi-file fields arrive as arrays; the first entry is the cover
		for _, k := range keys {
			if list := stringList(r, k); len(list) > 0 {
				name = list[0]
				break
			}
		}
	}
	return m.FileURL(collection, str(r, "id"), name)
}

// RenderMarkdown renders markdown to sanitized HTML.
func (m *Mapper) RenderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		return m.policy.Sanitize(source)
	}
	return m.policy.Sanitize(buf.String())
}

// ReadingTime estimates minutes to read a markdown body, never less than one.
func ReadingTime(source string) int {
	words := len(strings.Fields(source))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func (m *Mapper) Post(r domain.Record) domain.Post {
	content := str(r, "content", "body")
	return domain.Post{
		ID:          str(r, "id"),
		Slug:        str(r, "slug"),
		Title:       str(r, "title"),
		Excerpt:     str(r, "excerpt", "summary"),
		Content:     content,
		ContentHTML: m.RenderMarkdown(content),
		CoverURL:    m.file(r, domain.CollectionPosts, "cover", "image"),
		Tags:        stringList(r, "tags"),
		Published:   boolean(r, "published"),
		ReadingTime: ReadingTime(content),
		Created:     timestamp(r, "created"),
		Updated:     timestamp(r, "updated"),
	}
}

func (m *Mapper) Project(r domain.Record) domain.Project {
	return domain.Project{
		ID:          str(r, "id"),
		Slug:        str(r, "slug"),
		Title:       str(r, "title", "name"),
		Description: str(r, "description"),
		ImageURL:    m.file(r, domain.CollectionProjects, "image", "thumbnail"),
		RepoURL:     str(r, "repo_url", "github"),
		DemoURL:     str(r, "demo_url", "live_url"),
		Tech:        stringList(r, "tech"),
		Featured:    boolean(r, "featured"),
		SortOrder:   integer(r, "sortOrder"),
		Created:     timestamp(r, "created"),
	}
}

func (m *Mapper) Book(r domain.Record) domain.Book {
	status := str(r, "status")
	if status == "" {
		status = "want"
	}
	return domain.Book{
		ID:       str(r, "id"),
		Title:    str(r, "title"),
		Author:   str(r, "author"),
		CoverURL: m.file(r, domain.CollectionBooks, "cover"),
		Status:   status,
		Rating:   num(r, "rating"),
		Finished: optionalTime(r, "finished"),
		Created:  timestamp(r, "created"),
	}
}

func (m *Mapper) Certificate(r domain.Record) domain.Certificate {
	return domain.Certificate{
		ID:        str(r, "id"),
		Title:     str(r, "title", "name"),
		Issuer:    str(r, "issuer"),
		IssuedAt:  optionalTime(r, "issued"),
		CredURL:   str(r, "credential_url", "url"),
		FileURL:   m.file(r, domain.CollectionCertificates, "file", "pdf"),
		ImageURL:  m.file(r, domain.CollectionCertificates, "image"),
		SortOrder: integer(r, "sortOrder"),
		Created:   timestamp(r, "created"),
	}
}

func (m *Mapper) Movie(r domain.Record) domain.Movie {
	poster := str(r, "poster")
	if poster != "" {
		poster = m.FileURL(domain.CollectionMovies, str(r, "id"), poster)
	}
	return domain.Movie{
		ID:        str(r, "id"),
		Title:     str(r, "title"),
		Year:      str(r, "year"),
		IMDBID:    str(r, "imdb_id", "imdbID"),
		PosterURL: poster,
		Rating:    num(r, "rating"),
		Watched:   boolean(r, "watched"),
		Created:   timestamp(r, "created"),
	}
}

func (m *Mapper) Publication(r domain.Record) domain.Publication {
	return domain.Publication{
		ID:        str(r, "id"),
		Title:     str(r, "title"),
		Authors:   stringList(r, "authors"),
		Venue:     str(r, "venue", "journal"),
		Published: optionalTime(r, "published"),
		URL:       str(r, "url", "doi"),
		FileURL:   m.file(r, domain.CollectionPublications, "file", "pdf"),
		Abstract:  str(r, "abstract"),
		Created:   timestamp(r, "created"),
	}
}

func (m *Mapper) Employment(r domain.Record) domain.Employment {
	return domain.Employment{
		ID:          str(r, "id"),
		Company:     str(r, "company"),
		Role:        str(r, "role", "title"),
		Location:    str(r, "location"),
		Start:       optionalTime(r, "start"),
		End:         optionalTime(r, "end"),
		Description: str(r, "description"),
		LogoURL:     m.file(r, domain.CollectionEmployment, "logo"),
		SortOrder:   integer(r, "sortOrder"),
	}
}

func (m *Mapper) Section(r domain.Record) domain.Section {
	visible := true
	if _, ok := r["visible"]; ok {
		visible = boolean(r, "visible")
	}
	return domain.Section{
		ID:        str(r, "id"),
		Key:       str(r, "key", "slug"),
		Title:     str(r, "title"),
		Visible:   visible,
		SortOrder: integer(r, "sortOrder"),
	}
}

func (m *Mapper) Comment(r domain.Record) domain.Comment {
	return domain.Comment{
		ID:       str(r, "id"),
		PostID:   str(r, "postId", "post"),
		ParentID: str(r, "parentId", "parent"),
		Author:   str(r, "author", "name"),
		Body:     m.policy.Sanitize(str(r, "body", "content")),
		Created:  timestamp(r, "created"),
	}
}

func (m *Mapper) Customization(r domain.Record) domain.CustomizationSettings {
	theme := str(r, "theme")
	if theme == "" {
		theme = "system"
	}
	return domain.CustomizationSettings{
		ID:          str(r, "id"),
		Theme:       theme,
		AccentColor: str(r, "accentColor", "accent_color"),
		Font:        str(r, "font"),
		SiteTitle:   str(r, "siteTitle", "site_title"),
		SocialLinks: stringMap(r, "socialLinks"),
		ShowSpotify: boolean(r, "showSpotify"),
		ShowGitHub:  boolean(r, "showGitHub"),
	}
}

// Map dispatches on collection name and returns the typed object as any,
// ready for JSON encoding.
func (m *Mapper) Map(collection string, r domain.Record) (any, error) {
	switch collection {
	case domain.CollectionPosts:
		return m.Post(r), nil
	case domain.CollectionProjects:
		return m.Project(r), nil
	case domain.CollectionBooks:
		return m.Book(r), nil
	case domain.CollectionCertificates:
		return m.Certificate(r), nil
	case domain.CollectionMovies:
		return m.Movie(r), nil
	case domain.CollectionPublications:
		return m.Publication(r), nil
	case domain.CollectionEmployment:
		return m.Employment(r), nil
	case domain.CollectionSections:
		return m.Section(r), nil
	case domain.CollectionComments:
		return m.Comment(r), nil
	case domain.CollectionCustomization:
		return m.Customization(r), nil
	}
	return nil, domain.ErrUnknownCollection
}

// BuildCommentThread nests replies under their parents. Comments whose parent
// is missing are promoted to the top level. Siblings are ordered oldest first.
func BuildCommentThread(comments []domain.Comment) []*domain.Comment {
	nodes := make(map[string]*domain.Comment, len(comments))
	ordered := make([]*domain.Comment, 0, len(comments))
	for i := range comments {
		c := comments[i]
		c.Replies = nil
		nodes[c.ID] = &c
		ordered = append(ordered, &c)
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Created.Before(ordered[j].Created) })

	roots := []*domain.Comment{}
	for _, c := range ordered {
		parent, ok := nodes[c.ParentID]
		if c.ParentID == "" || !ok || parent == c {
			roots = append(roots, c)
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}
	return roots
}
