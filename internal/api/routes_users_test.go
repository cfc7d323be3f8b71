package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/database/testutil"
)

func TestRouterUserLifecycle(t *testing.T) {
	r := newTestRouter(t)
	admin := loginAs(t, r, testutil.DefaultAdminEmail, testutil.DefaultAdminPassword)

	w := doJSON(t, r, http.MethodPost, "/user/create", admin, gin.H{
		"email":     "jo@example.com",
		"firstname": "Jo",
		"surname":   "Smith",
		"password":  "secret",
		"role":      "USER",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	// Password hashes never appear in responses.
	require.NotContains(t, w.Body.String(), "password")

	// Duplicate email fails 400.
	w = doJSON(t, r, http.MethodPost, "/user/create", admin, gin.H{
		"email":     "jo@example.com",
		"firstname": "Jo",
		"surname":   "Smith",
		"password":  "secret",
		"role":      "USER",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	user := loginAs(t, r, "jo@example.com", "secret")

	// A user may rotate their own password.
	w = doJSON(t, r, http.MethodPut, "/user/update", user, gin.H{
		"email":    "jo@example.com",
		"password": "rotated",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	loginAs(t, r, "jo@example.com", "rotated")

	// But nothing beyond it.
	w = doJSON(t, r, http.MethodPut, "/user/update", user, gin.H{
		"email":     "jo@example.com",
		"password":  "rotated",
		"firstname": "Joanna",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Reading another user's record is indistinguishable from absence.
	w = doJSON(t, r, http.MethodGet, "/user/"+testutil.DefaultAdminEmail, user, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	// Search requires a valid role parameter and the ADMIN role.
	w = doJSON(t, r, http.MethodGet, "/user/search?role=USER&firstname=jo", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var results []struct {
		Email string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	require.Equal(t, "jo@example.com", results[0].Email)

	w = doJSON(t, r, http.MethodGet, "/user/search?firstname=jo", admin, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/user/search?role=USER", user, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Deleting the account is admin only.
	w = doJSON(t, r, http.MethodDelete, "/user/jo@example.com", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/user/jo@example.com", admin, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
