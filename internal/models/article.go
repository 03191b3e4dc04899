// Package models defines core data structures for articles, verification
// results, the citation graph, and claim timelines.
package models

import "time"

// Article is the input to a verification call. All fields except Title and
// Content are optional; verification proceeds best-effort with whatever is
// present.
type Article struct {
	ID          string     `json:"id,omitempty"`
	URL         string     `json:"url,omitempty"`
	Title       string     `json:"title"`
	Source      string     `json:"source,omitempty"`
	Content     string     `json:"content,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// Text returns the title and content joined, the corpus the collectors
// run their keyword matching against.
func (a *Article) Text() string {
	if a.Content == "" {
		return a.Title
	}
	return a.Title + " " + a.Content
}
