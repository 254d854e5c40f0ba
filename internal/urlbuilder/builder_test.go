package urlbuilder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
)

// stubDiscoverer serves templates from a fixed (extension, action) table.
type stubDiscoverer struct {
	templates map[string]string
	err       error
}

func (s *stubDiscoverer) GetURLTemplate(ctx context.Context, extension, action string) (string, bool, error) {
	if s.err != nil {
		return "", false, s.err
	}
	template, ok := s.templates[extension+"/"+action]
	return template, ok, nil
}

func (s *stubDiscoverer) GetManifest(ctx context.Context) (*discoveryDomain.Manifest, error) {
	return nil, nil
}

func (s *stubDiscoverer) SupportsExtension(ctx context.Context, extension string) (bool, error) {
	return false, nil
}

func (s *stubDiscoverer) SupportsAction(ctx context.Context, extension, action string) (bool, error) {
	return false, nil
}

func (s *stubDiscoverer) GetActionRequirements(ctx context.Context, extension, action string) ([]string, bool, error) {
	return nil, false, nil
}

func (s *stubDiscoverer) RequiresCobalt(ctx context.Context, extension, action string) (bool, error) {
	return false, nil
}

func (s *stubDiscoverer) GetApplicationName(ctx context.Context, extension string) (string, bool, error) {
	return "", false, nil
}

func (s *stubDiscoverer) GetApplicationFavicon(ctx context.Context, extension string) (string, bool, error) {
	return "", false, nil
}

func (s *stubDiscoverer) Invalidate() {}

func TestExpandTemplate(t *testing.T) {
	t.Run("Success_UnsetPlaceholderRemovedAndTrailingSeparatorTrimmed", func(t *testing.T) {
		built := expandTemplate("http://x/?<ui=UI_LLCC&><rs=DC_LLCC&>", Settings{SettingUILanguage: "en-US"})
		assert.Equal(t, "http://x/?ui=en-US", built)
	})

	t.Run("Success_AllPlaceholdersResolved", func(t *testing.T) {
		built := expandTemplate(
			"http://x/?<ui=UI_LLCC&><rs=DC_LLCC&>",
			Settings{SettingUILanguage: "en-US", SettingDataCenterLanguage: "de-DE"},
		)
		assert.Equal(t, "http://x/?ui=en-US&rs=de-DE", built)
	})

	t.Run("Success_NoPlaceholdersSurvive", func(t *testing.T) {
		built := expandTemplate("http://x/?<ui=UI_LLCC&><em=EMBEDDED&>", Settings{})
		assert.Equal(t, "http://x/", built)
		assert.NotContains(t, built, "<")
		assert.NotContains(t, built, ">")
	})

	t.Run("Success_ValuesAreEscaped", func(t *testing.T) {
		built := expandTemplate("http://x/?<ui=UI_LLCC&>", Settings{SettingUILanguage: "en US/x"})
		assert.Equal(t, "http://x/?ui=en+US%2Fx", built)
	})
}

func TestBuilder_BuildActionURL(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_EndToEnd", func(t *testing.T) {
		discoverer := &stubDiscoverer{templates: map[string]string{
			"docx/edit": "http://editor/x?<ui=UI_LLCC&>",
		}}
		builder := NewBuilder(discoverer, Settings{SettingUILanguage: "en-US"})

		built, ok, err := builder.BuildActionURL(ctx, "docx", "http://host/files/42", "edit", nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "http://editor/x?ui=en-US&WOPISrc=http%3A%2F%2Fhost%2Ffiles%2F42", built)
	})

	t.Run("Success_BuildingIsIdempotent", func(t *testing.T) {
		discoverer := &stubDiscoverer{templates: map[string]string{
			"docx/edit": "http://editor/x?<ui=UI_LLCC&>",
		}}
		builder := NewBuilder(discoverer, Settings{SettingUILanguage: "en-US"})

		first, ok, err := builder.BuildActionURL(ctx, "docx", "http://host/files/42", "edit", nil)
		require.NoError(t, err)
		require.True(t, ok)

		second, ok, err := builder.BuildActionURL(ctx, "docx", "http://host/files/42", "edit", nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, second)
	})

	t.Run("Success_OverridesWinOverDefaults", func(t *testing.T) {
		discoverer := &stubDiscoverer{templates: map[string]string{
			"docx/edit": "http://editor/x?<ui=UI_LLCC&>",
		}}
		builder := NewBuilder(discoverer, Settings{SettingUILanguage: "en-US"})

		built, ok, err := builder.BuildActionURL(ctx, "docx", "http://host/files/42", "edit",
			Settings{SettingUILanguage: "pt-BR"})
		require.NoError(t, err)
		require.True(t, ok)
		assert.Contains(t, built, "ui=pt-BR")
		assert.NotContains(t, built, "en-US")
	})

	t.Run("Success_TemplateWithoutQueryGetsQuestionMark", func(t *testing.T) {
		discoverer := &stubDiscoverer{templates: map[string]string{
			"docx/view": "http://editor/view",
		}}
		builder := NewBuilder(discoverer, nil)

		built, ok, err := builder.BuildActionURL(ctx, "docx", "http://host/files/42", "view", nil)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "http://editor/view?WOPISrc=http%3A%2F%2Fhost%2Ffiles%2F42", built)
	})

	t.Run("Success_UnsupportedActionIsAbsent", func(t *testing.T) {
		discoverer := &stubDiscoverer{templates: map[string]string{}}
		builder := NewBuilder(discoverer, nil)

		_, ok, err := builder.BuildActionURL(ctx, "docx", "http://host/files/42", "edit", nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Error_DiscovererFailure", func(t *testing.T) {
		fetchErr := errors.New("manifest unavailable")
		builder := NewBuilder(&stubDiscoverer{err: fetchErr}, nil)

		_, _, err := builder.BuildActionURL(ctx, "docx", "http://host/files/42", "edit", nil)
		assert.ErrorIs(t, err, fetchErr)
	})
}

func TestSettings_Merge(t *testing.T) {
	t.Run("Success_OverrideWinsOnCollision", func(t *testing.T) {
		defaults := Settings{SettingUILanguage: "en-US", SettingDataCenterLanguage: "en-US"}
		merged := defaults.Merge(Settings{SettingUILanguage: "pt-BR"})

		assert.Equal(t, "pt-BR", merged.UILanguage())
		assert.Equal(t, "en-US", merged.DataCenterLanguage())

		// Neither input is modified.
		assert.Equal(t, "en-US", defaults.UILanguage())
	})

	t.Run("Success_TypedAccessors", func(t *testing.T) {
		settings := Settings{}
		settings.SetEmbedded(true)
		settings.SetBusinessUser(false)

		assert.True(t, settings.Embedded())
		assert.False(t, settings.BusinessUser())
		assert.False(t, Settings{SettingEmbedded: "garbage"}.Embedded())
	})
}
