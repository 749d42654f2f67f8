package domain

import "time"

// Record is a row from the record store before it is passed through a mapper.
type Record map[string]any

// Collection names accepted by the record store.
const (
	CollectionPosts         = "posts"
	CollectionProjects      = "projects"
	CollectionBooks         = "books"
	CollectionCertificates  = "certificates"
	CollectionMovies        = "movies"
	CollectionPublications  = "publications"
	CollectionEmployment    = "employment"
	CollectionSections      = "sections"
	CollectionComments      = "comments"
	CollectionCustomization = "customization_settings"
)

var collections = map[string]bool{
	CollectionPosts:         true,
	CollectionProjects:      true,
	CollectionBooks:         true,
	CollectionCertificates:  true,
	CollectionMovies:        true,
	CollectionPublications:  true,
	CollectionEmployment:    true,
	CollectionSections:      true,
	CollectionComments:      true,
	CollectionCustomization: true,
}

func IsKnownCollection(name string) bool {
	return collections[name]
}

// StoredRecord is the persisted envelope around a Record.
type StoredRecord struct {
	ID         string    `json:"id" yaml:"id"`
	Collection string    `json:"collection" yaml:"collection"`
	Slug       string    `json:"slug,omitempty" yaml:"slug,omitempty"`
	SortOrder  int       `json:"sort_order" yaml:"sort_order"`
	Data       Record    `json:"data" yaml:"data"`
	Created    time.Time `json:"created" yaml:"created"`
	Updated    time.Time `json:"updated" yaml:"updated"`
}

// Flatten merges the envelope fields into the data bag, the shape mappers expect.
func (s StoredRecord) Flatten() Record {
	out := make(Record, len(s.Data)+5)
	for k, v := range s.Data {
		out[k] = v
	}
	out["id"] = s.ID
	out["collectionName"] = s.Collection
	if s.Slug != "" {
		out["slug"] = s.Slug
	}
	out["sortOrder"] = s.SortOrder
	out["created"] = s.Created
	out["updated"] = s.Updated
	return out
}

// ListOptions narrows a collection listing. Filter keys match JSON fields of the record data.
type ListOptions struct {
	Filter map[string]string
	Sort   string // "created", "-created", "sort_order", "title"...; leading '-' is descending
	Limit  int
	Offset int
}
