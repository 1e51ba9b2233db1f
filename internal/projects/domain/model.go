package domain

import (
	"sort"
	"strings"
	"time"
)

// Project is a single portfolio entry. It is intentionally storage-agnostic
// and used across store adapters, repository and HTTP layers.
type Project struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Images       []string  `json:"images"`
	Technologies []string  `json:"technologies"`
	LiveURL      string    `json:"liveUrl"`
	GithubURL    string    `json:"githubUrl"`
	Featured     bool      `json:"featured"`
	Category     string    `json:"category"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Input carries the caller-supplied fields for a create. Everything except
// title and description is optional.
type Input struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Images       []string `json:"images"`
	Technologies []string `json:"technologies"`
	LiveURL      string   `json:"liveUrl"`
	GithubURL    string   `json:"githubUrl"`
	Featured     bool     `json:"featured"`
	Category     string   `json:"category"`
}

// Patch carries a partial update. A nil field was absent from the request
// body and leaves the stored value untouched; a non-nil field always
// overwrites, including explicit empty strings and empty slices.
type Patch struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Images       *[]string `json:"images"`
	Technologies *[]string `json:"technologies"`
	LiveURL      *string   `json:"liveUrl"`
	GithubURL    *string   `json:"githubUrl"`
	Featured     *bool     `json:"featured"`
	Category     *string   `json:"category"`
}

// DefaultCategory is applied when a create omits the category.
const DefaultCategory = "other"

// NewProject builds a fully-defaulted record from caller input. The caller
// validates title/description before calling; id and timestamps are stamped
// by the repository.
func NewProject(in Input) Project {
	p := Project{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		Images:       in.Images,
		Technologies: in.Technologies,
		LiveURL:      in.LiveURL,
		GithubURL:    in.GithubURL,
		Featured:     in.Featured,
		Category:     in.Category,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	if p.Category == "" {
		p.Category = DefaultCategory
	}
	return p
}

// Apply merges the patch over p and returns the result. Timestamps are not
// touched here; the repository stamps updatedAt after a successful merge.
func (patch Patch) Apply(p Project) Project {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Images != nil {
		p.Images = *patch.Images
		if p.Images == nil {
			p.Images = []string{}
		}
	}
	if patch.Technologies != nil {
		p.Technologies = *patch.Technologies
		if p.Technologies == nil {
			p.Technologies = []string{}
		}
	}
	if patch.LiveURL != nil {
		p.LiveURL = *patch.LiveURL
	}
	if patch.GithubURL != nil {
		p.GithubURL = *patch.GithubURL
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	return p
}

// SortByCreatedDesc orders a project list newest-first, the order every
// list-returning read must present. Stable so records created in the same
// instant keep their insertion order.
func SortByCreatedDesc(list []Project) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
