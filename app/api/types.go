package api

import (
	"github.com/lysyi3m/feedreader/app/database"
)

type Handler struct {
	feedRepo   database.FeedRepository
	entryRepo  database.EntryRepository
	entryLimit int
	version    string
}

type feedResponse struct {
	ID       int64  `json:"id"`
	URL      string `json:"url"`
	Name     string `json:"name"`
	Filter   string `json:"filter,omitempty"`
	Inactive bool   `json:"inactive"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

type entryResponse struct {
	ID           int64  `json:"id"`
	URL          string `json:"url,omitempty"`
	ExternalID   string `json:"external_id,omitempty"`
	Title        string `json:"title"`
	Date         string `json:"date,omitempty"`
	DateString   string `json:"date_string,omitempty"`
	Description  string `json:"description,omitempty"`
	Author       string `json:"author,omitempty"`
	EnclosureURL string `json:"enclosure_url,omitempty"`
}
