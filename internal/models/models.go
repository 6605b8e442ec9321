package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entity is a named-entity span extracted from an article abstract.
type Entity struct {
	Text  string `bson:"text" json:"text"`
	Label string `bson:"label" json:"label"`
}

// HighlightText is one fragment of an Atlas Search highlight.
// Type is "hit" for matched terms and "text" for surrounding context.
type HighlightText struct {
	Value string `bson:"value" json:"value"`
	Type  string `bson:"type" json:"type"`
}

type Highlight struct {
	Path  string          `bson:"path" json:"path"`
	Texts []HighlightText `bson:"texts" json:"texts"`
	Score float64         `bson:"score" json:"score"`
}

// Document is a scientific article as stored in the documents collection.
// Field names follow the collection schema, which the frontend reads directly.
type Document struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"rel_title" json:"rel_title"`
	Abstract    string             `bson:"rel_abs" json:"rel_abs"`
	AuthorName  StringList         `bson:"author_name" json:"author_name"`
	AuthorInst  StringList         `bson:"author_inst" json:"author_inst"`
	Category    string             `bson:"category" json:"category"`
	Type        string             `bson:"type" json:"type"`
	ReleaseDate string             `bson:"rel_date" json:"rel_date"`
	DOI         string             `bson:"rel_doi" json:"rel_doi"`
	Entities    []Entity           `bson:"entities" json:"entities"`
	Highlights  []Highlight        `bson:"highlights,omitempty" json:"highlights,omitempty"`
}

// SearchRequest is a normalised search call: Page is 1-based and Limit > 0.
type SearchRequest struct {
	Query  string
	Facets map[string][]string
	Page   int
	Limit  int
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int64 `json:"pages"`
}

type SearchResult struct {
	Results    []Document `json:"results"`
	Pagination Pagination `json:"pagination"`
}

// FacetValue is one (value, count) row of a facet dimension.
type FacetValue struct {
	Value string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

type Facets struct {
	Entities   []FacetValue `bson:"entities" json:"entities"`
	Category   []FacetValue `bson:"category" json:"category"`
	Type       []FacetValue `bson:"type" json:"type"`
	AuthorName []FacetValue `bson:"author_name" json:"author_name"`
}

// Identity is the verified result of an identity-provider token.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// UserProfile is keyed by the identity provider's subject id.
type UserProfile struct {
	UID         string    `firestore:"-" json:"uid"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
}

// SessionUser is the identity carried by a session credential.
type SessionUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type AuthResult struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// SearchHistoryEntry is immutable once written.
type SearchHistoryEntry struct {
	ID        string    `firestore:"-" json:"id"`
	UID       string    `firestore:"uid" json:"uid"`
	Query     string    `firestore:"query" json:"query"`
	Timestamp time.Time `firestore:"timestamp" json:"timestamp"`
}
