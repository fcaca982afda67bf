package users

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"
	"github.com/shopcore-lab/shopcore/internal/core/storage/storagetest"
)

func newRouter(t *testing.T, db *storagetest.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(db).RegisterRoutes(r)
	return r
}

func seedAdmin(t *testing.T, db *storagetest.DB) {
	t.Helper()
	require.NoError(t, db.SaveUser(context.Background(), &v1.User{
		ID:     "admin-1",
		Name:   "Pam",
		Email:  "pam@example.com",
		Photo:  "p.png",
		Role:   v1.RoleAdmin,
		Gender: "Female",
		DOB:    time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC),
	}))
}

func TestSignupHandler_NewUser(t *testing.T) {
	db := storagetest.New()
	r := newRouter(t, db)

	body, _ := json.Marshal(v1.User{
		ID:     "u1",
		Name:   "Jim",
		Email:  "jim@example.com",
		Photo:  "j.png",
		Gender: "Male",
		DOB:    time.Date(1998, 7, 21, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/user/new", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)

	saved, err := db.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, v1.RoleCustomer, saved.Role)
	require.False(t, saved.CreatedAt.IsZero())
}

func TestSignupHandler_ExistingUserIsLogin(t *testing.T) {
	db := storagetest.New()
	seedAdmin(t, db)
	r := newRouter(t, db)

	body, _ := json.Marshal(v1.User{ID: "admin-1", Name: "Pam"})

	req := httptest.NewRequest(http.MethodPost, "/v1/user/new", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
}

func TestSignupHandler_DuplicateEmailRejected(t *testing.T) {
	db := storagetest.New()
	seedAdmin(t, db)
	r := newRouter(t, db)

	body, _ := json.Marshal(v1.User{
		ID:     "u-other",
		Name:   "NotPam",
		Email:  "pam@example.com",
		Photo:  "n.png",
		Gender: "Female",
		DOB:    time.Date(1995, 5, 5, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/user/new", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &errResp))
	require.Equal(t, httperr.HttpValidationError, errResp.ErrorType)
}

func TestSignupHandler_MissingFields(t *testing.T) {
	db := storagetest.New()
	r := newRouter(t, db)

	body, _ := json.Marshal(v1.User{ID: "u2", Name: "NoEmail"})

	req := httptest.NewRequest(http.MethodPost, "/v1/user/new", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)

	var errResp httperr.ErrorResponse
	json.Unmarshal(resp.Body.Bytes(), &errResp)
	require.Equal(t, httperr.HttpValidationError, errResp.ErrorType)
}

func TestGetUserHandler_NotFound(t *testing.T) {
	db := storagetest.New()
	r := newRouter(t, db)

	req := httptest.NewRequest(http.MethodGet, "/v1/user/ghost", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListUsersHandler_RequiresAdmin(t *testing.T) {
	db := storagetest.New()
	seedAdmin(t, db)
	require.NoError(t, db.SaveUser(context.Background(), &v1.User{ID: "u1", Role: v1.RoleCustomer}))
	r := newRouter(t, db)

	tests := []struct {
		name     string
		query    string
		wantCode int
	}{
		{name: "no id", query: "", wantCode: http.StatusUnauthorized},
		{name: "unknown id", query: "?id=ghost", wantCode: http.StatusUnauthorized},
		{name: "customer id", query: "?id=u1", wantCode: http.StatusUnauthorized},
		{name: "admin id", query: "?id=admin-1", wantCode: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/user/all"+tc.query, nil)
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			require.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestDeleteUserHandler(t *testing.T) {
	db := storagetest.New()
	seedAdmin(t, db)
	require.NoError(t, db.SaveUser(context.Background(), &v1.User{ID: "u1", Role: v1.RoleCustomer}))
	r := newRouter(t, db)

	req := httptest.NewRequest(http.MethodDelete, "/v1/user/u1?id=admin-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	_, err := db.GetUser(context.Background(), "u1")
	require.Error(t, err)
}
