package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/ajira/core/community"
	"github.com/trezcool/ajira/core/user"
)

func Test_communityApi(t *testing.T) {
	ta := setup(t)
	student := ta.createUser(t, "Kofi Mensah", "kofi@test.ajira", user.RoleStudent)
	_, err := ta.usrSvc.UpdateProfile(student, user.UpdateProfile{Tags: "go,backend"})
	require.NoError(t, err)
	token := getToken(t, student)

	gophers, err := ta.communitySvc.Create(community.Community{
		Name: "Gophers", Topic: "go", Tags: []string{"go", "backend"},
	})
	require.NoError(t, err)
	rustaceans, err := ta.communitySvc.Create(community.Community{
		Name: "Rustaceans", Topic: "rust", Tags: []string{"rust"},
	})
	require.NoError(t, err)

	t.Run("list all", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/communities", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var comms []community.Community
		decodeData(t, rec, &comms)
		// newest first
		require.Len(t, comms, 2)
		assert.Equal(t, rustaceans.ID, comms[0].ID)
		assert.Equal(t, gophers.ID, comms[1].ID)
	})

	t.Run("recommended ranks by tag overlap and skips joined", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/communities/recommended", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var recs []community.Recommendation
		decodeData(t, rec, &recs)
		require.Len(t, recs, 1) // no overlap with rustaceans
		assert.Equal(t, gophers.ID, recs[0].ID)
		assert.Equal(t, 2, recs[0].MatchScore)
	})

	t.Run("join", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/communities/"+gophers.ID+"/join", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var comm community.Community
		decodeData(t, rec, &comm)
		assert.Contains(t, comm.Members, student.ID)
	})

	ta.runTable(t, []httpTest{
		{
			name: "join again", method: http.MethodPost, path: "/v1/communities/" + gophers.ID + "/join", token: token,
			wantCode: http.StatusBadRequest, wantData: errObj(t, "already a member of this community"),
		},
		{
			name: "join unknown", method: http.MethodPost,
			path: "/v1/communities/deadbeef-0000-0000-0000-000000000000/join", token: token,
			wantCode: http.StatusNotFound, wantData: errObj(t, "not found"),
		},
		{
			name: "create requires admin", method: http.MethodPost, path: "/v1/communities", token: token,
			body:     marshallObj(t, community.Community{Name: "Sneaky"}),
			wantCode: http.StatusForbidden, wantData: errObj(t, "permission denied"),
		},
	})

	t.Run("memberships after join", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/communities/mine", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var comms []community.Community
		decodeData(t, rec, &comms)
		require.Len(t, comms, 1)
		assert.Equal(t, gophers.ID, comms[0].ID)
	})

	t.Run("recommended excludes joined communities", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/communities/recommended", token)
		ta.app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var recs []community.Recommendation
		decodeData(t, rec, &recs)
		assert.Empty(t, recs)
	})

	_ = rustaceans
}
