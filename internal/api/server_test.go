package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/techjobs/backend/internal/config"
	"github.com/techjobs/backend/internal/entities"
	"github.com/techjobs/backend/internal/services"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	records map[string][]byte
}

func (m *memStore) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[name] = append([]byte(nil), data...)
	return nil
}

func (m *memStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[name], nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := &memStore{records: map[string][]byte{}}
	storeCfg := config.StoreConfig{PersistEmpty: true}
	bus := EventBus.New()
	ctx := context.Background()

	auth, err := services.NewAuthService(ctx, store, storeCfg, time.Hour)
	require.NoError(t, err)
	jobs, err := services.NewJobService(ctx, store, bus, storeCfg)
	require.NoError(t, err)
	chat, err := services.NewChatService(ctx, store, bus, storeCfg)
	require.NoError(t, err)
	conversations := services.NewConversationService(chat, jobs, auth)

	apiCfg := config.APIConfig{
		Port:       0,
		JWTSecret:  "test-secret",
		SessionTTL: time.Hour,
	}

	ts := httptest.NewServer(NewServer(apiCfg, auth, jobs, chat, conversations).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// newClient returns a client with its own cookie jar, one logged-in identity
// per client.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any) (*http.Response, payload) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var p payload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	return resp, p
}

func register(t *testing.T, client *http.Client, baseURL, email, name string, userType entities.UserType) entities.User {
	t.Helper()

	resp, p := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "pw",
		"name":     name,
		"type":     userType,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user entities.User
	decodeData(t, p, &user)
	return user
}

// decodeData re-marshals the envelope's data field into a typed value.
func decodeData(t *testing.T, p payload, target any) {
	t.Helper()
	raw, err := json.Marshal(p.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, target))
}

func jobFormBody() map[string]any {
	return map[string]any{
		"title":        "Backend Engineer",
		"description":  "Build the backend",
		"requirements": "Go\nSQL",
		"company":      "Acme",
		"location":     "Remote",
		"type":         "full-time",
		"level":        "senior",
	}
}

func Test_Health(t *testing.T) {

	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func Test_ProtectedRoutes_RequireSession(t *testing.T) {

	ts := newTestServer(t)
	client := newClient(t)

	resp, p := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/jobs", jobFormBody())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, p.Success)

	resp, err := http.Get(ts.URL + "/api/v1/conversations")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_Register_SetsSessionCookie(t *testing.T) {

	ts := newTestServer(t)
	client := newClient(t)

	user := register(t, client, ts.URL, "acme@corp.com", "Acme", entities.UserTypeEmployer)
	assert.Equal(t, "Acme", user.Name)
	assert.Equal(t, entities.UserTypeEmployer, user.Type)

	resp, p := doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me entities.User
	decodeData(t, p, &me)
	assert.Equal(t, user.ID, me.ID)
}

func Test_Logout_EndsSession(t *testing.T) {

	ts := newTestServer(t)
	client := newClient(t)

	register(t, client, ts.URL, "acme@corp.com", "Acme", entities.UserTypeEmployer)

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func Test_CreateJob_AsCandidate_IsForbidden(t *testing.T) {

	ts := newTestServer(t)
	client := newClient(t)

	register(t, client, ts.URL, "dev@mail.com", "Dev", entities.UserTypeCandidate)

	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/jobs", jobFormBody())
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func Test_CreateJob_WithInvalidForm_IsBadRequest(t *testing.T) {

	ts := newTestServer(t)
	client := newClient(t)

	register(t, client, ts.URL, "acme@corp.com", "Acme", entities.UserTypeEmployer)

	form := jobFormBody()
	form["level"] = "principal"
	resp, _ := doJSON(t, client, http.MethodPost, ts.URL+"/api/v1/jobs", form)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func Test_GetJob_WhenMissing_IsNotFound(t *testing.T) {

	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/jobs/no-such-id")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_JobLifecycle(t *testing.T) {

	ts := newTestServer(t)
	employer := newClient(t)

	register(t, employer, ts.URL, "acme@corp.com", "Acme", entities.UserTypeEmployer)

	resp, p := doJSON(t, employer, http.MethodPost, ts.URL+"/api/v1/jobs", jobFormBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]string
	decodeData(t, p, &created)
	jobID := created["id"]
	require.NotEmpty(t, jobID)

	resp, p = doJSON(t, employer, http.MethodGet, ts.URL+"/api/v1/jobs/"+jobID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var job jobView
	decodeData(t, p, &job)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, []string{"Go", "SQL"}, job.Requirements)
	assert.NotEmpty(t, job.PostedLabel)

	form := jobFormBody()
	form["title"] = "Staff Engineer"
	resp, _ = doJSON(t, employer, http.MethodPut, ts.URL+"/api/v1/jobs/"+jobID, form)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, p = doJSON(t, employer, http.MethodGet, ts.URL+"/api/v1/jobs?q=staff", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []jobView
	decodeData(t, p, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Staff Engineer", listed[0].Title)

	resp, p = doJSON(t, employer, http.MethodGet, ts.URL+"/api/v1/jobs/mine", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, p, &listed)
	assert.Len(t, listed, 1)

	resp, _ = doJSON(t, employer, http.MethodDelete, ts.URL+"/api/v1/jobs/"+jobID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, employer, http.MethodGet, ts.URL+"/api/v1/jobs/"+jobID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func Test_PublicThread(t *testing.T) {

	ts := newTestServer(t)
	employer := newClient(t)
	candidate := newClient(t)

	register(t, employer, ts.URL, "acme@corp.com", "Acme", entities.UserTypeEmployer)
	register(t, candidate, ts.URL, "dev@mail.com", "Dev", entities.UserTypeCandidate)

	resp, p := doJSON(t, employer, http.MethodPost, ts.URL+"/api/v1/jobs", jobFormBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]string
	decodeData(t, p, &created)
	jobID := created["id"]

	resp, _ = doJSON(t, candidate, http.MethodPost,
		fmt.Sprintf("%s/api/v1/jobs/%s/messages", ts.URL, jobID),
		map[string]string{"content": "Is this remote?"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// the public thread is readable without a session
	resp, p = doJSON(t, newClient(t), http.MethodGet,
		fmt.Sprintf("%s/api/v1/jobs/%s/messages", ts.URL, jobID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var messages []publicMessageView
	decodeData(t, p, &messages)
	require.Len(t, messages, 1)
	assert.Equal(t, "Is this remote?", messages[0].Content)
	assert.Equal(t, "Dev", messages[0].UserName)
	assert.Equal(t, "today", messages[0].DayLabel)
}

func Test_PrivateChat_ConversationFlow(t *testing.T) {

	ts := newTestServer(t)
	employerClient := newClient(t)
	candidateClient := newClient(t)

	employer := register(t, employerClient, ts.URL, "acme@corp.com", "Acme", entities.UserTypeEmployer)
	candidate := register(t, candidateClient, ts.URL, "dev@mail.com", "Dev", entities.UserTypeCandidate)

	resp, p := doJSON(t, employerClient, http.MethodPost, ts.URL+"/api/v1/jobs", jobFormBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created map[string]string
	decodeData(t, p, &created)
	jobID := created["id"]

	resp, _ = doJSON(t, candidateClient, http.MethodPost,
		fmt.Sprintf("%s/api/v1/jobs/%s/thread/%s", ts.URL, jobID, employer.ID),
		map[string]string{"content": "Hi, I am interested", "receiverName": employer.Name})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, p = doJSON(t, employerClient, http.MethodGet, ts.URL+"/api/v1/conversations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var conversations []conversationView
	decodeData(t, p, &conversations)
	require.Len(t, conversations, 1)
	assert.Equal(t, jobID, conversations[0].JobID)
	assert.Equal(t, "Backend Engineer", conversations[0].JobTitle)
	assert.Equal(t, candidate.ID, conversations[0].OtherUserID)
	assert.Equal(t, entities.UserTypeCandidate, conversations[0].OtherUserType)
	assert.Equal(t, 1, conversations[0].UnreadCount)

	// opening the thread marks it read
	resp, p = doJSON(t, employerClient, http.MethodGet,
		fmt.Sprintf("%s/api/v1/jobs/%s/thread/%s", ts.URL, jobID, candidate.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var thread []privateMessageView
	decodeData(t, p, &thread)
	require.Len(t, thread, 1)
	assert.Equal(t, "Hi, I am interested", thread[0].Content)
	assert.True(t, thread[0].IsRead)

	resp, p = doJSON(t, employerClient, http.MethodGet, ts.URL+"/api/v1/conversations", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, p, &conversations)
	require.Len(t, conversations, 1)
	assert.Equal(t, 0, conversations[0].UnreadCount)

	// the candidate side sees the same conversation from its own angle
	resp, p = doJSON(t, candidateClient, http.MethodGet, ts.URL+"/api/v1/conversations?q=backend", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, p, &conversations)
	require.Len(t, conversations, 1)
	assert.Equal(t, employer.ID, conversations[0].OtherUserID)
	assert.Equal(t, entities.UserTypeEmployer, conversations[0].OtherUserType)

	resp, p = doJSON(t, candidateClient, http.MethodGet, ts.URL+"/api/v1/conversations?q=nothing-matches", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, p, &conversations)
	assert.Empty(t, conversations)
}

func Test_SendPrivate_BlankContent_IsBadRequest(t *testing.T) {

	ts := newTestServer(t)
	client := newClient(t)

	register(t, client, ts.URL, "dev@mail.com", "Dev", entities.UserTypeCandidate)

	resp, _ := doJSON(t, client, http.MethodPost,
		ts.URL+"/api/v1/jobs/some-job/thread/someone",
		map[string]string{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
