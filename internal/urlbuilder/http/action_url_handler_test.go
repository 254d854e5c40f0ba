package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
	authHTTP "github.com/allisson/wopihost/internal/auth/http"
	discoveryDomain "github.com/allisson/wopihost/internal/discovery/domain"
	discoveryService "github.com/allisson/wopihost/internal/discovery/service"
	discoveryUseCase "github.com/allisson/wopihost/internal/discovery/usecase"
	filesRepository "github.com/allisson/wopihost/internal/files/repository"
	filesUseCase "github.com/allisson/wopihost/internal/files/usecase"
	locksRepository "github.com/allisson/wopihost/internal/locks/repository"
	locksUseCase "github.com/allisson/wopihost/internal/locks/usecase"
	"github.com/allisson/wopihost/internal/urlbuilder"
	"github.com/allisson/wopihost/internal/urlbuilder/http/dto"
)

const discoveryDocument = `<?xml version="1.0" encoding="utf-8"?>
<wopi-discovery>
  <net-zone name="external-https">
    <app name="Word">
      <action name="edit" ext="docx" urlsrc="http://editor/x?&lt;ui=UI_LLCC&amp;&gt;"/>
    </app>
  </net-zone>
</wopi-discovery>`

type staticProvider struct{ document string }

func (p *staticProvider) Fetch(ctx context.Context) ([]byte, error) {
	return []byte(p.document), nil
}

type mockTokenAuthority struct {
	mock.Mock
}

func (m *mockTokenAuthority) GenerateAccessToken(ctx context.Context, userID, resourceID string) (string, int64, error) {
	args := m.Called(ctx, userID, resourceID)
	return args.String(0), args.Get(1).(int64), args.Error(2)
}

func (m *mockTokenAuthority) ValidatePrincipal(ctx context.Context, token string) (*authDomain.Principal, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Principal), args.Error(1)
}

func newTestRouter(t *testing.T, authority *mockTokenAuthority, authenticated bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.DiscardHandler)
	fileRepo, err := filesRepository.NewLocalFileRepository(t.TempDir())
	require.NoError(t, err)
	_, err = fileRepo.Create(context.Background(), "42.docx", strings.NewReader("content"))
	require.NoError(t, err)

	locks := locksUseCase.NewLockUseCase(locksRepository.NewMemoryLockRepository(), time.Minute, logger)
	files := filesUseCase.NewFileUseCase(fileRepo, locks, logger)

	discoverer := discoveryUseCase.NewDiscoverer(
		&staticProvider{document: discoveryDocument},
		discoveryService.NewManifestParser(),
		discoveryDomain.NetZoneExternalHTTPS,
		time.Minute,
		logger,
	)
	builder := urlbuilder.NewBuilder(discoverer, urlbuilder.Settings{urlbuilder.SettingUILanguage: "en-US"})
	handler := NewActionURLHandler(files, builder, authority, "http://host/", logger)

	router := gin.New()
	router.GET("/api/v1/files/:id/action-url", func(c *gin.Context) {
		if authenticated {
			principal := &authDomain.Principal{
				UserID:      "user-1",
				ResourceID:  c.Param("id"),
				Permissions: authDomain.PermissionAll,
				ExpiresAt:   time.Now().Add(time.Hour),
			}
			c.Request = c.Request.WithContext(authHTTP.WithPrincipal(c.Request.Context(), principal))
		}
		c.Next()
	}, handler.ActionURLHandler)
	return router
}

func TestActionURLHandler(t *testing.T) {
	t.Run("Success_BuildsURLAndMintsToken", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		authority.On("GenerateAccessToken", mock.Anything, "user-1", "42.docx").
			Return("minted-token", int64(1767225600), nil)
		router := newTestRouter(t, authority, true)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/42.docx/action-url", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var response dto.ActionURLResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "http://editor/x?ui=en-US&WOPISrc=http%3A%2F%2Fhost%2Fwopi%2Ffiles%2F42.docx", response.ActionURL)
		assert.Equal(t, "minted-token", response.AccessToken)
		assert.Equal(t, int64(1767225600)*1000, response.AccessTokenTTL)
		authority.AssertExpectations(t)
	})

	t.Run("Success_LanguageOverride", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		authority.On("GenerateAccessToken", mock.Anything, "user-1", "42.docx").
			Return("minted-token", int64(1767225600), nil)
		router := newTestRouter(t, authority, true)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/42.docx/action-url?lang=pt-BR", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var response dto.ActionURLResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response.ActionURL, "ui=pt-BR")
	})

	t.Run("Error_UnknownFile", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		router := newTestRouter(t, authority, true)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/missing.docx/action-url", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		authority.AssertNotCalled(t, "GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_UnsupportedAction", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		authority.On("GenerateAccessToken", mock.Anything, "user-1", "42.docx").
			Return("minted-token", int64(1767225600), nil)
		router := newTestRouter(t, authority, true)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/42.docx/action-url?action=imagine", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Error_MalformedEmbeddedFlag", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		router := newTestRouter(t, authority, true)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/42.docx/action-url?embedded=maybe", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error_MissingPrincipal", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		router := newTestRouter(t, authority, false)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/42.docx/action-url", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
