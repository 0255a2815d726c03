package types

import "encoding/json"

// ServiceRef identifies a published service within a folder listing.
type ServiceRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SiteFolder is the platform's description of one folder in the
// service hierarchy: the server version, the names of child folders,
// and the services published directly in the folder.
type SiteFolder struct {
	Envelope
	CurrentVersion json.Number  `json:"currentVersion"`
	Folders        []string     `json:"folders,omitempty"`
	Services       []ServiceRef `json:"services,omitempty"`
}
