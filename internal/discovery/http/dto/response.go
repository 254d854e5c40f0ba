// Package dto contains data transfer objects for the discovery HTTP API.
package dto

// CapabilitiesResponse reports what the configured editor offers for a file
// extension.
type CapabilitiesResponse struct {
	Extension  string `json:"extension"`
	Supported  bool   `json:"supported"`
	AppName    string `json:"app_name,omitempty"`
	FaviconURL string `json:"favicon_url,omitempty"`
	CanView    bool   `json:"can_view"`
	CanEdit    bool   `json:"can_edit"`
}

// RefreshResponse confirms a forced manifest refresh.
type RefreshResponse struct {
	FetchedAt string `json:"fetched_at"`
	Zones     int    `json:"zones"`
}
