package urlbuilder

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	discoveryUseCase "github.com/allisson/wopihost/internal/discovery/usecase"
)

// placeholderPattern matches template placeholders of the form
// <NAME=VALUE_KEY&>: NAME is the query parameter name emitted into the URL,
// VALUE_KEY selects the value from the merged settings, and the trailing
// separator is carried by the placeholder itself.
var placeholderPattern = regexp.MustCompile(`<(\w+)=(\w+)&>`)

// wopiSrcParam is the mandatory resource-locating parameter appended to every
// built action URL.
const wopiSrcParam = "WOPISrc"

// Builder produces concrete action URLs from discovery URL templates.
type Builder struct {
	discoverer discoveryUseCase.Discoverer
	defaults   Settings
}

// NewBuilder creates a Builder with the given default settings. Defaults are
// applied to every build and can be overridden per call.
func NewBuilder(discoverer discoveryUseCase.Discoverer, defaults Settings) *Builder {
	if defaults == nil {
		defaults = Settings{}
	}
	return &Builder{
		discoverer: discoverer,
		defaults:   defaults,
	}
}

// BuildActionURL looks up the URL template for (extension, action), resolves
// its placeholders against the merged settings, and appends the WOPISrc
// parameter locating the resource.
//
// Returns ok=false when the action is not offered for the extension; the
// caller interprets that as "action unsupported for this file type", not an
// error. Building the same inputs twice yields an identical URL.
func (b *Builder) BuildActionURL(
	ctx context.Context,
	extension string,
	resourceURL string,
	action string,
	overrides Settings,
) (string, bool, error) {
	template, ok, err := b.discoverer.GetURLTemplate(ctx, extension, action)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}

	merged := b.defaults.Merge(overrides)
	built := expandTemplate(template, merged)

	separator := "&"
	if !strings.Contains(built, "?") {
		separator = "?"
	}
	built += separator + wopiSrcParam + "=" + url.QueryEscape(resourceURL)

	return built, true, nil
}

// expandTemplate resolves every <NAME=VALUE_KEY&> placeholder: when VALUE_KEY
// exists in the settings, the placeholder becomes "NAME=<escaped value>&";
// otherwise the whole placeholder, trailing separator included, is removed.
// No placeholder syntax ever survives into the result.
func expandTemplate(template string, settings Settings) string {
	expanded := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		name, valueKey := groups[1], groups[2]

		value, exists := settings[valueKey]
		if !exists {
			return ""
		}
		return name + "=" + url.QueryEscape(value) + "&"
	})

	// Trim the separator left dangling after the last substitution.
	return strings.TrimRight(expanded, "&?")
}
