// Package domain defines the discovery manifest model: the parsed view of a
// remote editor's capability document describing which file extensions and
// actions it supports, and the URL templates used to reach it.
//
// A manifest is immutable once built. Refreshes construct a brand-new manifest
// and swap it wholesale; nothing mutates an existing one in place.
package domain

import (
	"strings"
	"time"
)

// NetZone classifies the network reachability of an editor deployment.
// Hosts are configured with exactly one zone and only consult entries
// published for that zone.
type NetZone string

// Known net zones as published in discovery documents.
const (
	NetZoneInternalHTTP  NetZone = "internal-http"
	NetZoneInternalHTTPS NetZone = "internal-https"
	NetZoneExternalHTTP  NetZone = "external-http"
	NetZoneExternalHTTPS NetZone = "external-https"
)

// ParseNetZone parses a zone name from a discovery document. Returns false for
// unknown names; entries under unknown zones are skipped, never an error.
func ParseNetZone(name string) (NetZone, bool) {
	switch NetZone(strings.ToLower(strings.TrimSpace(name))) {
	case NetZoneInternalHTTP:
		return NetZoneInternalHTTP, true
	case NetZoneInternalHTTPS:
		return NetZoneInternalHTTPS, true
	case NetZoneExternalHTTP:
		return NetZoneExternalHTTP, true
	case NetZoneExternalHTTPS:
		return NetZoneExternalHTTPS, true
	default:
		return "", false
	}
}

// RequiresCobalt is the requirement token marking actions that need the legacy
// binary co-authoring protocol.
const RequiresCobalt = "cobalt"

// ActionEntry describes a single (extension, action) capability offered by an
// application, together with the URL template used to navigate to it.
type ActionEntry struct {
	Extension   string   // File extension without the leading dot (e.g. "docx")
	Name        string   // Action identifier (e.g. "edit", "view")
	URLTemplate string   // Template with <NAME=VALUE_KEY&> placeholders
	Requires    []string // Requirement tokens (e.g. "locks", "update", "cobalt")
}

// HasRequirement reports whether the entry carries the given requirement token.
// Matching is case-insensitive.
func (a *ActionEntry) HasRequirement(token string) bool {
	for _, r := range a.Requires {
		if strings.EqualFold(r, token) {
			return true
		}
	}
	return false
}

// AppEntry describes one application published by the editor, with the actions
// it offers. Document order of Actions is preserved for deterministic lookups.
type AppEntry struct {
	Name       string
	FaviconURL string
	Actions    []ActionEntry
}

// Manifest is the parsed capability document, filtered to a single net zone at
// query time. Apps preserve document order.
type Manifest struct {
	Zones     []ZoneEntry
	FetchedAt time.Time
}

// ZoneEntry groups the applications published for one net zone.
type ZoneEntry struct {
	Zone NetZone
	Apps []AppEntry
}

// appsForZone returns the applications published for the given zone, in
// document order. A zone with no entries yields nil, which degrades every
// query to absent/false.
func (m *Manifest) appsForZone(zone NetZone) []AppEntry {
	for i := range m.Zones {
		if m.Zones[i].Zone == zone {
			return m.Zones[i].Apps
		}
	}
	return nil
}

// FindAction returns the first action entry in document order matching the
// extension and action name within the zone. Matching is case-insensitive.
func (m *Manifest) FindAction(zone NetZone, extension, action string) (*ActionEntry, bool) {
	for _, app := range m.appsForZone(zone) {
		for i := range app.Actions {
			entry := &app.Actions[i]
			if strings.EqualFold(entry.Extension, extension) && strings.EqualFold(entry.Name, action) {
				return entry, true
			}
		}
	}
	return nil, false
}

// SupportsExtension reports whether any action entry within the zone covers
// the extension.
func (m *Manifest) SupportsExtension(zone NetZone, extension string) bool {
	for _, app := range m.appsForZone(zone) {
		for i := range app.Actions {
			if strings.EqualFold(app.Actions[i].Extension, extension) {
				return true
			}
		}
	}
	return false
}

// FindApp returns the first application in document order that offers at least
// one action for the extension within the zone.
func (m *Manifest) FindApp(zone NetZone, extension string) (*AppEntry, bool) {
	for _, app := range m.appsForZone(zone) {
		for i := range app.Actions {
			if strings.EqualFold(app.Actions[i].Extension, extension) {
				appCopy := app
				return &appCopy, true
			}
		}
	}
	return nil, false
}
