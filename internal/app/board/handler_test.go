package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend/internal/app/session"
	"backend/internal/app/user"
	"backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions struct {
	users map[string]*user.User // session key → user
}

func (s stubSessions) CreateSessionAndUser(username, userAgent string) (*session.Session, *user.User, error) {
	return nil, nil, fmt.Errorf("not supported in tests")
}

func (s stubSessions) GetUserBySessionKey(ctx context.Context, sessionKey string) (*user.User, error) {
	u, ok := s.users[sessionKey]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return u, nil
}

func (s stubSessions) GetSessionByKey(sessionKey string) (*session.Session, error) {
	return nil, session.ErrSessionNotFound
}

func (s stubSessions) EndSession(ctx context.Context, sessionKey string) error {
	return session.ErrSessionNotFound
}

type httpFixture struct {
	*fixture
	engine *gin.Engine
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)

	sessions := stubSessions{users: map[string]*user.User{
		"key-owner":  f.owner,
		"key-member": {ID: "u-member", Username: "member"},
		"key-other":  f.other,
	}}

	engine := gin.New()
	RegisterRoutes(engine.Group("/api"), NewHandler(f.svc, nil),
		middleware.Authenticate(sessions, false),
		middleware.Authenticate(sessions, true),
	)

	return &httpFixture{fixture: f, engine: engine}
}

func (f *httpFixture) do(t *testing.T, method, path, sessionKey string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionKey != "" {
		req.Header.Set("Authorization", "Bearer "+sessionKey)
	}

	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest))
}

func TestMembershipVisibilityFlow(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{
		"name":     "Sprint",
		"isPublic": false,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created BoardSummary
	decodeJSON(t, rec, &created)
	assert.Equal(t, f.owner.ID, created.Owner)
	assert.Empty(t, created.Members)

	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/users", "key-owner", gin.H{"id": "u-member"})
	require.Equal(t, http.StatusOK, rec.Code)

	// the new member can read the board
	rec = f.do(t, http.MethodGet, "/api/boards/"+created.ID, "key-member", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail BoardDetail
	decodeJSON(t, rec, &detail)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, "u-member", detail.Members[0].ID)

	// anonymous and unrelated callers see the same 404
	rec = f.do(t, http.MethodGet, "/api/boards/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/boards/"+created.ID, "key-other", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnonymousListingSeesPublicOnly(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{"name": "Private"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{"name": "Open", "isPublic": true})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/boards", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []BoardSummary
	decodeJSON(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Open", listed[0].Name)

	rec = f.do(t, http.MethodGet, "/api/boards", "key-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &listed)
	assert.Len(t, listed, 2)
}

func TestWriteRequiresAuthentication(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "", gin.H{"name": "Sprint"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/boards", "key-bogus", gin.H{"name": "Sprint"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBoardEditRequiresOwner(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{"name": "Sprint"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created BoardSummary
	decodeJSON(t, rec, &created)

	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/users", "key-owner", gin.H{"id": "u-member"})
	require.Equal(t, http.StatusOK, rec.Code)

	// members can read but not edit the board itself; denial reads as 404
	rec = f.do(t, http.MethodPut, "/api/boards/"+created.ID, "key-member", gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/boards/"+created.ID, "key-member", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateMemberOverHTTP(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{"name": "Sprint"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created BoardSummary
	decodeJSON(t, rec, &created)

	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/users", "key-owner", gin.H{"id": "u-member"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/users", "key-owner", gin.H{"id": "u-member"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/users", "key-owner", gin.H{"id": "u-ghost"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{"name": "Sprint"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created BoardSummary
	decodeJSON(t, rec, &created)

	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/users", "key-owner", gin.H{"id": "u-member"})
	require.Equal(t, http.StatusOK, rec.Code)

	// the member creates a ticket
	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/tickets", "key-member", gin.H{
		"heading":  "A",
		"position": gin.H{"x": 0, "y": 0},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ticket Ticket
	decodeJSON(t, rec, &ticket)
	assert.Equal(t, "u-member", ticket.OwnerID)

	// partial update keeps empty fields
	rec = f.do(t, http.MethodPut, "/api/boards/"+created.ID+"/tickets/"+ticket.ID, "key-member", gin.H{
		"heading": "",
		"color":   "red",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated Ticket
	decodeJSON(t, rec, &updated)
	assert.Equal(t, "A", updated.Heading)
	assert.Equal(t, "red", updated.Color)

	rec = f.do(t, http.MethodGet, "/api/boards/"+created.ID+"/tickets/"+ticket.ID, "key-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/boards/"+created.ID+"/tickets/"+ticket.ID, "key-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/boards/"+created.ID+"/tickets", "key-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tickets []Ticket
	decodeJSON(t, rec, &tickets)
	assert.Empty(t, tickets)
}

func TestBatchRemoveInvalidIDOverHTTP(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{"name": "Sprint"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created BoardSummary
	decodeJSON(t, rec, &created)

	rec = f.do(t, http.MethodPost, "/api/boards/"+created.ID+"/tickets", "key-owner", gin.H{"heading": "A"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var ticket Ticket
	decodeJSON(t, rec, &ticket)

	eventsBefore := len(f.bus.recorded())

	rec = f.do(t, http.MethodDelete,
		"/api/boards/"+created.ID+"/tickets?tickets="+ticket.ID+",bogus", "key-owner", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// ticket count unchanged, no broadcast for the aborted batch
	rec = f.do(t, http.MethodGet, "/api/boards/"+created.ID+"/tickets", "key-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var tickets []Ticket
	decodeJSON(t, rec, &tickets)
	assert.Len(t, tickets, 1)
	assert.Len(t, f.bus.recorded(), eventsBefore)

	// the valid batch succeeds with one 200 and the removed set
	rec = f.do(t, http.MethodDelete,
		"/api/boards/"+created.ID+"/tickets?tickets="+ticket.ID, "key-owner", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var removed []Ticket
	decodeJSON(t, rec, &removed)
	require.Len(t, removed, 1)
	assert.Equal(t, ticket.ID, removed[0].ID)
}

func TestStaleVersionConflictOverHTTP(t *testing.T) {
	f := newHTTPFixture(t)

	rec := f.do(t, http.MethodPost, "/api/boards", "key-owner", gin.H{"name": "Sprint"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created BoardSummary
	decodeJSON(t, rec, &created)

	// another writer bumps the version between the handler's read and its
	// commit
	conflicting := &raceService{Service: f.svc, repo: f.repo, boardID: created.ID}
	engine := gin.New()
	RegisterRoutes(engine.Group("/api"), NewHandler(conflicting, nil),
		middleware.Authenticate(stubSessions{users: map[string]*user.User{"key-owner": f.owner}}, false),
		middleware.Authenticate(stubSessions{users: map[string]*user.User{"key-owner": f.owner}}, true),
	)

	req := httptest.NewRequest(http.MethodPut, "/api/boards/"+created.ID,
		bytes.NewReader([]byte(`{"name":"Lost update","info":"","isPublic":false}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer key-owner")
	rec2 := httptest.NewRecorder()
	engine.ServeHTTP(rec2, req)

	assert.Equal(t, http.StatusConflict, rec2.Code)

	stored, err := f.repo.GetBoardByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed concurrently", stored.Name)
}

// raceService interleaves a competing commit between the handler's read
// and its update, forcing the stale-version path.
type raceService struct {
	Service
	repo    *memoryRepo
	boardID string
}

func (s *raceService) UpdateBoard(ctx context.Context, board *Board, name, info string, isPublic bool) error {
	competitor, err := s.repo.GetBoardByID(s.boardID)
	if err != nil {
		return err
	}
	competitor.Name = "Renamed concurrently"
	if err := s.repo.SaveBoard(competitor); err != nil {
		return err
	}
	return s.Service.UpdateBoard(ctx, board, name, info, isPublic)
}
