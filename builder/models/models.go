// Package models holds the data passed from the build pipeline to templates
// and output encoders.
package models

import "html/template"

// PageData is the context passed to the page layout template.
type PageData struct {
	Title     string
	SiteTitle string
	BaseURL   string
	Permalink string
	Content   template.HTML
	Meta      map[string]interface{}
	// Scripts are loaded in order at the end of the body.
	Scripts []string
}

// JSONPage is one page of the json output target.
type JSONPage struct {
	Title   string                 `json:"title"`
	Path    string                 `json:"path"`
	Body    string                 `json:"body"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
	Scripts []string               `json:"scripts,omitempty"`
}
