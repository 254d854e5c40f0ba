// Package service implements parsing of discovery capability documents into
// the immutable manifest model.
package service

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
)

// ManifestParser converts a raw discovery document into a manifest.
type ManifestParser interface {
	// Parse builds a new immutable manifest from the raw document bytes.
	// Entries under unknown net zones are skipped, never an error.
	Parse(raw []byte) (*discoveryDomain.Manifest, error)
}

// xmlDiscovery mirrors the wopi-discovery XML document structure.
type xmlDiscovery struct {
	XMLName  xml.Name      `xml:"wopi-discovery"`
	NetZones []xmlNetZone  `xml:"net-zone"`
}

type xmlNetZone struct {
	Name string   `xml:"name,attr"`
	Apps []xmlApp `xml:"app"`
}

type xmlApp struct {
	Name       string      `xml:"name,attr"`
	FaviconURL string      `xml:"favIconUrl,attr"`
	Actions    []xmlAction `xml:"action"`
}

type xmlAction struct {
	Name     string `xml:"name,attr"`
	Ext      string `xml:"ext,attr"`
	URLSrc   string `xml:"urlsrc,attr"`
	Requires string `xml:"requires,attr"`
}

// jsonDiscovery mirrors the JSON capability document form some clients serve.
type jsonDiscovery struct {
	NetZones []struct {
		Name string `json:"name"`
		Apps []struct {
			Name       string `json:"name"`
			FaviconURL string `json:"favIconUrl"`
			Actions    []struct {
				Name     string `json:"name"`
				Ext      string `json:"ext"`
				URLSrc   string `json:"urlsrc"`
				Requires string `json:"requires"`
			} `json:"actions"`
		} `json:"apps"`
	} `json:"netZones"`
}

type manifestParser struct{}

// NewManifestParser creates a parser handling both the XML and JSON document
// forms, sniffed from the document's first non-whitespace byte.
func NewManifestParser() ManifestParser {
	return &manifestParser{}
}

// Parse builds a manifest from raw document bytes.
func (p *manifestParser) Parse(raw []byte) (*discoveryDomain.Manifest, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", discoveryDomain.ErrManifestInvalid)
	}

	if trimmed[0] == '{' {
		return p.parseJSON(trimmed)
	}
	return p.parseXML(trimmed)
}

func (p *manifestParser) parseXML(raw []byte) (*discoveryDomain.Manifest, error) {
	var doc xmlDiscovery
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", discoveryDomain.ErrManifestInvalid, err)
	}

	manifest := &discoveryDomain.Manifest{FetchedAt: time.Now().UTC()}
	for _, zoneDoc := range doc.NetZones {
		zone, ok := discoveryDomain.ParseNetZone(zoneDoc.Name)
		if !ok {
			// Unknown zone names are dropped wholesale.
			continue
		}

		entry := discoveryDomain.ZoneEntry{Zone: zone}
		for _, appDoc := range zoneDoc.Apps {
			app := discoveryDomain.AppEntry{
				Name:       appDoc.Name,
				FaviconURL: appDoc.FaviconURL,
			}
			for _, actionDoc := range appDoc.Actions {
				app.Actions = append(app.Actions, discoveryDomain.ActionEntry{
					Extension:   actionDoc.Ext,
					Name:        actionDoc.Name,
					URLTemplate: actionDoc.URLSrc,
					Requires:    splitRequirements(actionDoc.Requires),
				})
			}
			entry.Apps = append(entry.Apps, app)
		}
		manifest.Zones = append(manifest.Zones, entry)
	}

	return manifest, nil
}

func (p *manifestParser) parseJSON(raw []byte) (*discoveryDomain.Manifest, error) {
	var doc jsonDiscovery
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", discoveryDomain.ErrManifestInvalid, err)
	}

	manifest := &discoveryDomain.Manifest{FetchedAt: time.Now().UTC()}
	for _, zoneDoc := range doc.NetZones {
		zone, ok := discoveryDomain.ParseNetZone(zoneDoc.Name)
		if !ok {
			continue
		}

		entry := discoveryDomain.ZoneEntry{Zone: zone}
		for _, appDoc := range zoneDoc.Apps {
			app := discoveryDomain.AppEntry{
				Name:       appDoc.Name,
				FaviconURL: appDoc.FaviconURL,
			}
			for _, actionDoc := range appDoc.Actions {
				app.Actions = append(app.Actions, discoveryDomain.ActionEntry{
					Extension:   actionDoc.Ext,
					Name:        actionDoc.Name,
					URLTemplate: actionDoc.URLSrc,
					Requires:    splitRequirements(actionDoc.Requires),
				})
			}
			entry.Apps = append(entry.Apps, app)
		}
		manifest.Zones = append(manifest.Zones, entry)
	}

	return manifest, nil
}

// splitRequirements parses the comma-separated requires attribute into tokens,
// dropping empty entries.
func splitRequirements(requires string) []string {
	if requires == "" {
		return nil
	}

	parts := strings.Split(requires, ",")
	tokens := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			tokens = append(tokens, trimmed)
		}
	}

	if len(tokens) == 0 {
		return nil
	}
	return tokens
}
