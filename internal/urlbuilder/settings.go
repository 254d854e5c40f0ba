// Package urlbuilder turns discovery URL templates into concrete, navigable
// action URLs.
package urlbuilder

import "strconv"

// Well-known placeholder value keys used by editor URL templates.
const (
	SettingUILanguage         = "UI_LLCC"
	SettingDataCenterLanguage = "DC_LLCC"
	SettingEmbedded           = "EMBEDDED"
	SettingBusinessUser       = "BUSINESS_USER"
	SettingDisableAsync       = "DISABLE_ASYNC"
	SettingDisableChat        = "DISABLE_CHAT"
)

// Settings maps placeholder value keys to their string values. It is a plain
// map with typed accessors; merged settings are treated as immutable.
type Settings map[string]string

// Merge returns a new Settings with override values layered on top of s.
// Override values win on key collision; neither input is modified.
func (s Settings) Merge(override Settings) Settings {
	merged := make(Settings, len(s)+len(override))
	for key, value := range s {
		merged[key] = value
	}
	for key, value := range override {
		merged[key] = value
	}
	return merged
}

// UILanguage returns the UI locale (e.g. "en-US"), or "" if unset.
func (s Settings) UILanguage() string {
	return s[SettingUILanguage]
}

// SetUILanguage sets the UI locale.
func (s Settings) SetUILanguage(locale string) {
	s[SettingUILanguage] = locale
}

// DataCenterLanguage returns the data-center locale, or "" if unset.
func (s Settings) DataCenterLanguage() string {
	return s[SettingDataCenterLanguage]
}

// SetDataCenterLanguage sets the data-center locale.
func (s Settings) SetDataCenterLanguage(locale string) {
	s[SettingDataCenterLanguage] = locale
}

// Embedded reports whether the editor should render in embedded mode.
// Unset or unparsable values read as false.
func (s Settings) Embedded() bool {
	value, err := strconv.ParseBool(s[SettingEmbedded])
	return err == nil && value
}

// SetEmbedded sets embedded rendering mode.
func (s Settings) SetEmbedded(embedded bool) {
	s[SettingEmbedded] = strconv.FormatBool(embedded)
}

// BusinessUser reports whether the session belongs to a business user.
// Unset or unparsable values read as false.
func (s Settings) BusinessUser() bool {
	value, err := strconv.ParseBool(s[SettingBusinessUser])
	return err == nil && value
}

// SetBusinessUser marks the session as belonging to a business user.
func (s Settings) SetBusinessUser(business bool) {
	s[SettingBusinessUser] = strconv.FormatBool(business)
}
