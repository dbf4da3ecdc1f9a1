package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	t.Run("IssueAndVerifyRoundTrip", func(t *testing.T) {
		token, err := m.Issue("user-123")
		require.NoError(t, err)

		userID, err := m.Verify(token)
		require.NoError(t, err)
		require.Equal(t, "user-123", userID)
	})

	t.Run("RejectsWrongSecret", func(t *testing.T) {
		other := NewManager("different-secret", time.Hour)
		token, err := other.Issue("user-123")
		require.NoError(t, err)

		_, err = m.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("RejectsExpiredToken", func(t *testing.T) {
		token, err := m.Issue("user-123")
		require.NoError(t, err)

		late := NewManager("test-secret", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = late.Verify(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, err := m.Verify("not-a-token")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewManager("test-secret", time.Hour)

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/protected", RequireAuth(m), func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
		})
		return r
	}

	t.Run("AllowsValidToken", func(t *testing.T) {
		token, err := m.Issue("user-123")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "user-123")
	})

	t.Run("RejectsMissingHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		newRouter().ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("RejectsMalformedHeader", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		newRouter().ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("RejectsTamperedToken", func(t *testing.T) {
		token, err := m.Issue("user-123")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		newRouter().ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
