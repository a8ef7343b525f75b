package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/mentor-availability-api/internal/models"
	appErrors "github.com/noah-isme/mentor-availability-api/pkg/errors"
)

type validatorStub map[string]*models.JWTClaims

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	tokens := validatorStub{
		"mentor": {UserID: "mentor-1", Role: models.RoleMentor},
		"admin":  {UserID: "admin-1", Role: models.RoleAdmin},
		"other":  {UserID: "mentor-2", Role: models.RoleMentor},
	}
	r := gin.New()
	r.GET("/mentors/:id/templates", JWT(tokens), RBAC(string(models.RoleAdmin), AllowSelf), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func call(r *gin.Engine, header string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/mentors/mentor-1/templates", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestJWTAndRBAC(t *testing.T) {
	r := newAuthRouter()

	assert.Equal(t, http.StatusUnauthorized, call(r, ""))
	assert.Equal(t, http.StatusUnauthorized, call(r, "Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, call(r, "Bearer unknown"))
	assert.Equal(t, http.StatusOK, call(r, "Bearer mentor"))
	assert.Equal(t, http.StatusOK, call(r, "bearer admin"))
	assert.Equal(t, http.StatusForbidden, call(r, "Bearer other"))
}

func TestOptionalJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/slots", OptionalJWT(validatorStub{"mentor": {UserID: "mentor-1"}}), func(c *gin.Context) {
		_, exists := c.Get(ContextUserKey)
		if exists {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusNoContent)
	})

	for header, want := range map[string]int{"": http.StatusNoContent, "Bearer nope": http.StatusNoContent, "Bearer mentor": http.StatusOK} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/slots", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, header)
	}
}
