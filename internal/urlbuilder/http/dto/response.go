// Package dto contains data transfer objects for the action URL HTTP API.
package dto

// ActionURLResponse carries everything a client needs to open the editor: the
// navigable URL and a fresh access token scoped to the file.
type ActionURLResponse struct {
	ActionURL      string `json:"action_url"`
	AccessToken    string `json:"access_token"`
	AccessTokenTTL int64  `json:"access_token_ttl"`
}
