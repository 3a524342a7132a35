// catalog-service/internal/domain/content.go
package domain

import (
	"time"
)

// ContentType is the closed set of catalog entry kinds.
type ContentType string

const (
	ContentTypeMovie       ContentType = "MOVIE"
	ContentTypeSeries      ContentType = "SERIES"
	ContentTypeDocumentary ContentType = "DOCUMENTARY"
)

// ContentTypes lists every member of ContentType in declaration order.
var ContentTypes = []ContentType{ContentTypeMovie, ContentTypeSeries, ContentTypeDocumentary}

// Valid reports whether t is a member of the enumeration.
func (t ContentType) Valid() bool {
	for _, known := range ContentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Content is a persisted catalog record. Values are never mutated in place:
// updates produce a new value through WithInput.
type Content struct {
	ID              int64       `db:"id"`
	Title           string      `db:"title"`
	Description     string      `db:"description"`
	ContentType     ContentType `db:"content_type"`
	Genre           string      `db:"genre"`
	ReleaseYear     int         `db:"release_year"`
	Rating          *float64    `db:"rating"`
	DurationMinutes *int        `db:"duration_minutes"`
	TotalEpisodes   *int        `db:"total_episodes"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

// CreateContentRequest is the request body for both create and update.
type CreateContentRequest struct {
	Title           string      `json:"title" validate:"notblank,max=255"`
	Description     string      `json:"description" validate:"notblank,max=1000"`
	ContentType     ContentType `json:"contentType" validate:"required,oneof=MOVIE SERIES DOCUMENTARY"`
	Genre           string      `json:"genre" validate:"notblank,max=100"`
	ReleaseYear     int         `json:"releaseYear" validate:"required,gte=1900,lte=2100"`
	Rating          *float64    `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	DurationMinutes *int        `json:"durationMinutes,omitempty" validate:"omitempty,gte=0"`
	TotalEpisodes   *int        `json:"totalEpisodes,omitempty" validate:"omitempty,gte=0"`
}

// NewContent builds an unsaved record from a validated request. ID and
// timestamps are left zero for the store to assign.
func NewContent(in CreateContentRequest) Content {
	return Content{}.WithInput(in)
}

// WithInput returns a copy of c with every caller-controlled field replaced
// by the values in in. ID, CreatedAt and UpdatedAt are carried over.
func (c Content) WithInput(in CreateContentRequest) Content {
	c.Title = in.Title
	c.Description = in.Description
	c.ContentType = in.ContentType
	c.Genre = in.Genre
	c.ReleaseYear = in.ReleaseYear
	c.Rating = copyFloat(in.Rating)
	c.DurationMinutes = copyInt(in.DurationMinutes)
	c.TotalEpisodes = copyInt(in.TotalEpisodes)
	return c
}

// Clone returns a copy of c that shares no pointers with it.
func (c Content) Clone() Content {
	c.Rating = copyFloat(c.Rating)
	c.DurationMinutes = copyInt(c.DurationMinutes)
	c.TotalEpisodes = copyInt(c.TotalEpisodes)
	return c
}

// SearchFilter narrows a listing. A nil field imposes no constraint; a
// non-nil field always participates, even when it holds a zero value.
type SearchFilter struct {
	Title       *string      `json:"title,omitempty"`
	ContentType *ContentType `json:"contentType,omitempty" validate:"omitempty,oneof=MOVIE SERIES DOCUMENTARY"`
	Genre       *string      `json:"genre,omitempty"`
	MinYear     *int         `json:"minYear,omitempty"`
	MaxYear     *int         `json:"maxYear,omitempty"`
	MinRating   *float64     `json:"minRating,omitempty"`
}

// ContentResponse is the wire representation of a record.
type ContentResponse struct {
	ID              int64       `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	ContentType     ContentType `json:"contentType"`
	Genre           string      `json:"genre"`
	ReleaseYear     int         `json:"releaseYear"`
	Rating          *float64    `json:"rating"`
	DurationMinutes *int        `json:"durationMinutes"`
	TotalEpisodes   *int        `json:"totalEpisodes"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// NewContentResponse shapes a persisted record for output.
func NewContentResponse(c Content) ContentResponse {
	return ContentResponse{
		ID:              c.ID,
		Title:           c.Title,
		Description:     c.Description,
		ContentType:     c.ContentType,
		Genre:           c.Genre,
		ReleaseYear:     c.ReleaseYear,
		Rating:          copyFloat(c.Rating),
		DurationMinutes: copyInt(c.DurationMinutes),
		TotalEpisodes:   copyInt(c.TotalEpisodes),
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
