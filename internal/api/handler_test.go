package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ovn531/faisal/internal/conversation"
	"github.com/ovn531/faisal/internal/db"
	"github.com/ovn531/faisal/internal/llm"
	"github.com/ovn531/faisal/internal/models"
	"github.com/ovn531/faisal/internal/router"
)

type fakeCompleter struct {
	reply string
	err   error
}

func (f *fakeCompleter) Complete(ctx context.Context, binding router.Binding, userText string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestServer(t *testing.T, completer conversation.Completer) *httptest.Server {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	svc := conversation.New(database, completer, zap.NewNop())
	handler := NewHandler(svc, zap.NewNop())

	mux := http.NewServeMux()
	handler.Register(mux)

	srv := httptest.NewServer(WithCORS(mux))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func createChat(t *testing.T, srv *httptest.Server, title string) *models.Chat {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/chats", CreateChatRequest{Title: title})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cr ChatResponse
	require.NoError(t, json.Unmarshal(body, &cr))
	require.True(t, cr.Success)
	require.NotNil(t, cr.Chat)
	return cr.Chat
}

func TestRoot(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "فيصل")
}

func TestCreateChat(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	chat := createChat(t, srv, "")
	assert.NotEmpty(t, chat.ID)
	assert.Equal(t, models.DefaultChatTitle, chat.Title)
}

func TestListChats(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	createChat(t, srv, "a")
	createChat(t, srv, "b")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/chats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var chats []models.Chat
	require.NoError(t, json.Unmarshal(body, &chats))
	assert.Len(t, chats, 2)
}

func TestGetChat_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/chats/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSendMessage(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{reply: "أهلاً"})

	chat := createChat(t, srv, "")
	resp, body := doJSON(t, http.MethodPost,
		fmt.Sprintf("%s/api/chats/%s/messages", srv.URL, chat.ID),
		MessageRequest{Content: "مرحبا"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Chat
	require.NoError(t, json.Unmarshal(body, &updated))
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, "أهلاً", updated.Messages[1].Content)
	assert.Equal(t, "مرحبا", updated.Title)
}

func TestSendMessage_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		completer  *fakeCompleter
		chatID     string // empty means create one
		content    string
		wantStatus int
	}{
		{"missing chat", &fakeCompleter{reply: "ok"}, "missing", "مرحبا", http.StatusNotFound},
		{"empty content", &fakeCompleter{reply: "ok"}, "", "", http.StatusBadRequest},
		{"upstream failure", &fakeCompleter{err: fmt.Errorf("%w: boom", llm.ErrUpstream)}, "", "مرحبا", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.completer)

			chatID := tt.chatID
			if chatID == "" {
				chatID = createChat(t, srv, "").ID
			}

			resp, _ := doJSON(t, http.MethodPost,
				fmt.Sprintf("%s/api/chats/%s/messages", srv.URL, chatID),
				MessageRequest{Content: tt.content})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestDeleteChat(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	chat := createChat(t, srv, "")
	resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/chats/"+chat.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/chats/"+chat.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/chats/"+chat.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRenameChat(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	chat := createChat(t, srv, "")
	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/chats/"+chat.ID+"/title",
		RenameRequest{Title: "عنوان جديد"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/chats/"+chat.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.Chat
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "عنوان جديد", got.Title)
}

func TestRenameChat_NotFound(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/chats/missing/title",
		RenameRequest{Title: "t"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestInvalidBody(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/chats", strings.NewReader("{broken"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, &fakeCompleter{})

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/chats", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
