package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.users, env.registry)
	r, authed := env.newRouter()
	authed.POST("/users/:id/suspend", h.SuspendUser)
	authed.POST("/users/:id/unsuspend", h.UnsuspendUser)
	authed.POST("/users/:id/hide", h.HideUser)
	authed.POST("/users/:id/unhide", h.UnhideUser)
	authed.POST("/users/:id/confirm", h.ConfirmUser)

	admin, err := env.users.GetUserByDisplayName(context.Background(), "admin")
	require.NoError(t, err)
	cookies := loginCookies(t, r, admin.ID)
	target := env.createUser(t, "newcomer", models.UserStatusPending)

	post := func(action string) (int, models.UserStatus) {
		w := serve(r, httptest.NewRequest(http.MethodPost, "/users/"+target.ID+"/"+action, nil), cookies)
		var body struct {
			Status models.UserStatus `json:"status"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w.Code, body.Status
	}

	tests := []struct {
		action     string
		wantCode   int
		wantStatus models.UserStatus
	}{
		{"unsuspend", http.StatusConflict, ""},
		{"confirm", http.StatusOK, models.UserStatusConfirmed},
		{"suspend", http.StatusOK, models.UserStatusSuspended},
		{"suspend", http.StatusConflict, ""},
		{"unsuspend", http.StatusOK, models.UserStatusActive},
		{"confirm", http.StatusOK, models.UserStatusConfirmed},
		{"hide", http.StatusOK, models.UserStatusDeleted},
		{"hide", http.StatusConflict, ""},
		{"unhide", http.StatusOK, models.UserStatusConfirmed},
	}
	for _, tt := range tests {
		code, status := post(tt.action)
		assert.Equal(t, tt.wantCode, code, tt.action)
		if tt.wantStatus != "" {
			assert.Equal(t, tt.wantStatus, status, tt.action)
		}
	}

	w := serve(r, httptest.NewRequest(http.MethodPost, "/users/no-such-user/suspend", nil), cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminListClients(t *testing.T) {
	env := newTestEnv(t)
	h := NewAdminHandler(env.users, env.registry)
	r, _ := env.newRouter()
	r.GET("/clients", h.ListClients)

	client, err := store.NewClientApplication("Mapper", "https://mapper.example.com/cb",
		models.NewPermissionSet(models.PermReadGPX), "")
	require.NoError(t, err)
	require.NoError(t, env.store.CreateClient(context.Background(), client))

	w := serve(r, httptest.NewRequest(http.MethodGet, "/clients", nil), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Clients []clientResponse `json:"clients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Clients, 1)
	assert.Equal(t, client.Key, body.Clients[0].Key)
	assert.Equal(t, []string{"read_gpx"}, body.Clients[0].Permissions)
	assert.NotContains(t, w.Body.String(), client.Secret)
}
