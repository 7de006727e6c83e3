package userapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"notigate/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func TestGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/u1/profile", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		_, _ = w.Write([]byte(`{"user_id":"u1","preferred_platform":"whatsapp","whatsapp_phone":"+491701234567","approved":true}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, APIKey: "test-key"}, testLogger())
	profile, err := client.GetProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", profile.UserID)
	assert.Equal(t, models.PlatformWhatsApp, profile.PreferredPlatform)
	assert.Equal(t, "+491701234567", profile.WhatsAppPhone)
	assert.True(t, profile.Approved)
}

func TestGetProfileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	_, err := client.GetProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGetGroupMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/owner1/group-members", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"email":"alice@example.com","full_name":"Alice Johnson","status":"approved"},
			{"email":"carol@example.com","full_name":"Carol White","status":"pending"}
		]`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	members, err := client.GetGroupMembers(context.Background(), "owner1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, models.MemberApproved, members[0].Status)
	assert.Equal(t, models.MemberPending, members[1].Status)
}

func TestDueReminders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reminders/due", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"r1","user_id":"u1","body":"standup in 5"}]`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	reminders, err := client.DueReminders(context.Background())
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "r1", reminders[0].ID)
	assert.Equal(t, "standup in 5", reminders[0].Body)
}

func TestMarkReminderDispatched(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	require.NoError(t, client.MarkReminderDispatched(context.Background(), "r1"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/reminders/r1/dispatched", gotPath)
}

func TestMarkReminderDispatchedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, testLogger())
	require.Error(t, client.MarkReminderDispatched(context.Background(), "r1"))
}
