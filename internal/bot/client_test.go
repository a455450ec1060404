package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/getUpdates", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("offset"))
		assert.Equal(t, "20", r.URL.Query().Get("timeout"))
		fmt.Fprint(w, `{"ok":true,"result":[
			{"update_id":42,"message":{"message_id":1,"from":{"id":10},"chat":{"id":10},"text":"/start"}},
			{"update_id":43,"message":{"message_id":2,"from":{"id":11},"chat":{"id":11},"text":"hello"}}
		]}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "test-token")
	updates, err := client.GetUpdates(context.Background(), 42, 20)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, int64(42), updates[0].UpdateID)
	require.NotNil(t, updates[0].Message)
	assert.Equal(t, int64(10), updates[0].Message.From.ID)
	assert.Equal(t, "/start", updates[0].Message.Text)
	assert.Equal(t, "hello", updates[1].Message.Text)
}

func TestGetUpdatesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"description":"Unauthorized"}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "bad-token")
	_, err := client.GetUpdates(context.Background(), 0, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestSendMessage(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "test-token")
	require.NoError(t, client.SendMessage(context.Background(), 77, "hi there"))
	assert.Equal(t, float64(77), got["chat_id"])
	assert.Equal(t, "hi there", got["text"])
}

func TestSendPhotoFallsBackToMessage(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "tok")
	require.NoError(t, client.SendPhoto(context.Background(), 77, "", "caption only"))
	require.NoError(t, client.SendPhoto(context.Background(), 77, "http://example.com/x.png", "with photo"))
	assert.Equal(t, []string{"/bottok/sendMessage", "/bottok/sendPhoto"}, paths)
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"description":"chat not found"}`)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "tok")
	err := client.SendMessage(context.Background(), 1, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}
