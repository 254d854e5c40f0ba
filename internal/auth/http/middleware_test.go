package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/wopihost/internal/auth/domain"
)

// mockTokenAuthority is a mock implementation of TokenAuthority for testing.
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

// authorizationEngine is the minimal engine used by tests.
type testAuthorizationEngine struct{}

func (testAuthorizationEngine) IsAuthorized(principal *authDomain.Principal, required authDomain.Permission) bool {
	if principal == nil {
		return false
	}
	return principal.Permissions.Has(required)
}

func testPrincipal() *authDomain.Principal {
	return &authDomain.Principal{
		UserID:      "user-1",
		ResourceID:  "file-1",
		Permissions: authDomain.PermissionRead,
		ExpiresAt:   time.Now().Add(time.Hour),
	}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAccessTokenMiddleware(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	t.Run("Success_QueryParameterToken", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		authority.On("ValidatePrincipal", mock.Anything, "tok").Return(testPrincipal(), nil)

		router := setupRouter()
		router.GET("/wopi/files/:id", AccessTokenMiddleware(authority, logger), func(c *gin.Context) {
			principal, ok := GetPrincipal(c.Request.Context())
			require.True(t, ok)
			c.String(http.StatusOK, principal.UserID)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/wopi/files/file-1?access_token=tok", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("Success_BearerHeaderToken", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		authority.On("ValidatePrincipal", mock.Anything, "tok").Return(testPrincipal(), nil)

		router := setupRouter()
		router.GET("/api/v1/capabilities/:ext", AccessTokenMiddleware(authority, logger), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/capabilities/docx", nil)
		req.Header.Set("Authorization", "Bearer tok")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingToken", func(t *testing.T) {
		authority := &mockTokenAuthority{}

		router := setupRouter()
		router.GET("/wopi/files/:id", AccessTokenMiddleware(authority, logger), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/wopi/files/file-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		authority.AssertNotCalled(t, "ValidatePrincipal", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		authority.On("ValidatePrincipal", mock.Anything, "bad").Return(nil, authDomain.ErrTokenInvalid)

		router := setupRouter()
		router.GET("/wopi/files/:id", AccessTokenMiddleware(authority, logger), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/wopi/files/file-1?access_token=bad", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Error_ExpiredToken", func(t *testing.T) {
		authority := &mockTokenAuthority{}
		authority.On("ValidatePrincipal", mock.Anything, "old").Return(nil, authDomain.ErrTokenExpired)

		router := setupRouter()
		router.GET("/wopi/files/:id", AccessTokenMiddleware(authority, logger), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/wopi/files/file-1?access_token=old", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestPermissionMiddleware(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	engine := testAuthorizationEngine{}

	withPrincipal := func(principal *authDomain.Principal) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
			c.Next()
		}
	}

	t.Run("Success_HeldPermission", func(t *testing.T) {
		router := setupRouter()
		router.GET("/x",
			withPrincipal(testPrincipal()),
			PermissionMiddleware(engine, authDomain.PermissionRead, logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_MissingPermission", func(t *testing.T) {
		router := setupRouter()
		router.GET("/x",
			withPrincipal(testPrincipal()),
			PermissionMiddleware(engine, authDomain.PermissionUpdate, logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Error_NoPrincipal", func(t *testing.T) {
		router := setupRouter()
		router.GET("/x",
			PermissionMiddleware(engine, authDomain.PermissionRead, logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestResourceBindingMiddleware(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)

	newRouter := func(principal *authDomain.Principal) *gin.Engine {
		router := setupRouter()
		router.GET("/wopi/files/:id",
			func(c *gin.Context) {
				c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))
				c.Next()
			},
			ResourceBindingMiddleware("id", logger),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		return router
	}

	t.Run("Success_BoundResource", func(t *testing.T) {
		router := newRouter(testPrincipal())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wopi/files/file-1", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Error_OtherResource", func(t *testing.T) {
		router := newRouter(testPrincipal())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/wopi/files/file-2", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
