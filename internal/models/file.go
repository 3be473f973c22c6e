package models

import "time"

// StoredFile describes an uploaded file as seen by the listing endpoint
type StoredFile struct {
	Name     string    `json:"name"`
	URL      string    `json:"url"`
	Size     int64     `json:"size"`
	Uploaded time.Time `json:"uploaded"`
}
