package capture

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"xplore/internal/classifier"
	"xplore/internal/models/request_models"
	"xplore/internal/models/response_models"
)

var jpegHeader = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

func newClient(t *testing.T, h http.Handler) (*Client, *SessionStore) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	return NewClient(srv.URL+"/", store, srv.Client()), store
}

func TestClientLoginStoresSession(t *testing.T) {
	c, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		_ = json.NewEncoder(w).Encode(response_models.LoginResponse{
			Success: true,
			Token:   "tok-1",
			Usuario: response_models.UserResponse{ID: "u1", Email: "Ana@Example.com"},
		})
	}))

	sess, err := c.Login(context.Background(), "ana@example.com", "secreto1")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "ana@example.com", sess.User.Email)

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", loaded.Token)
}

func TestClientRecognizeReportsProgress(t *testing.T) {
	c, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, jpegHeader, data)
		_, _ = w.Write([]byte(`{"success":true,"bestPrediction":{"class":"Arenal","confidence":0.93},"place":{"id":"p1"},"policy":{"floor":0.3,"accept":0.9}}`))
	}))
	require.NoError(t, store.Save(&StoredSession{Token: "tok"}))

	var mu sync.Mutex
	var stages []Stage
	var lastUpload Progress
	resp, err := c.Recognize(context.Background(), "/tmp/shot.jpg", jpegHeader, func(p Progress) {
		mu.Lock()
		defer mu.Unlock()
		if len(stages) == 0 || stages[len(stages)-1] != p.Stage {
			stages = append(stages, p.Stage)
		}
		if p.Stage == StageUpload {
			lastUpload = p
		}
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.93, resp.BestPrediction.Confidence, 1e-9)
	assert.Equal(t, []Stage{StageUpload, StageWaiting, StageReceived}, stages)
	assert.Equal(t, lastUpload.Total, lastUpload.Sent)
}

func TestClientRecognizeFailureCarriesPrediction(t *testing.T) {
	c, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"No place matches","data":{"predictions":[{"class":"x","confidence":0.5}],"bestPrediction":{"class":"x","confidence":0.5}}}`))
	}))

	_, err := c.Recognize(context.Background(), "a.jpg", jpegHeader, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	require.NotNil(t, apiErr.Data)
	assert.Equal(t, "x", apiErr.Data.BestPrediction.Class)
}

func TestClientUnauthorizedClearsSession(t *testing.T) {
	c, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":401,"success":false,"message":"Invalid or expired token"}`))
	}))
	require.NoError(t, store.Save(&StoredSession{Token: "expired"}))

	_, err := c.SaveCollection(context.Background(), "p1", jpegHeader, nil)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	_, err = c.SaveCollection(context.Background(), "p1", jpegHeader, nil)
	assert.True(t, errors.Is(err, ErrNotSignedIn))
}

func TestClientSaveCollectionSendsBase64(t *testing.T) {
	c, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body request_models.SaveCollectionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body.LugarID)
		raw, err := base64.StdEncoding.DecodeString(body.ImageBase64)
		require.NoError(t, err)
		assert.Equal(t, jpegHeader, raw)
		require.NotNil(t, body.BestPrediction)
		assert.Equal(t, "volcan_arenal", body.BestPrediction.Class)
		assert.InDelta(t, 0.93, body.BestPrediction.Confidence, 1e-9)
		_, _ = w.Write([]byte(`{"success":true,"nuevosColeccionables":[{"id":"c1","name":"Lava"}],"nuevosLogros":[]}`))
	}))
	require.NoError(t, store.Save(&StoredSession{Token: "tok"}))

	best := &classifier.Prediction{Class: "volcan_arenal", Confidence: 0.93}
	resp, err := c.SaveCollection(context.Background(), "p1", jpegHeader, best)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.NuevosColeccionables, 1)
	assert.Equal(t, "Lava", resp.NuevosColeccionables[0].Name)
}

func TestClientPolicyAndLogout(t *testing.T) {
	c, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ia/policy":
			_, _ = w.Write([]byte(`{"floor":0.3,"accept":0.9}`))
		case "/auth/logout":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"success":true}`))
		default:
			http.NotFound(w, r)
		}
	}))

	p, err := c.Policy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.9, p.Accept)

	require.NoError(t, store.Save(&StoredSession{Token: "tok"}))
	require.NoError(t, c.Logout(context.Background()))
	sess, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, sess)

	assert.NoError(t, c.Logout(context.Background()))
}
