package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsphweid/drumscribe/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHitForwarderPostsHit(t *testing.T) {
	var got model.HitRequestBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/hits", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	fwd := hitForwarder{url: srv.URL + "/api/hits", client: srv.Client()}
	require.NoError(t, fwd.send(model.Hit{Key: 38, TimeMs: 1250.5}))

	require.NotNil(t, got.Key)
	require.NotNil(t, got.TimeMs)
	assert.Equal(t, 38, *got.Key)
	assert.Equal(t, 1250.5, *got.TimeMs)
}

func TestHitForwarderRejectsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	fwd := hitForwarder{url: srv.URL, client: srv.Client()}
	err := fwd.send(model.Hit{Key: 36})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestHitForwarderServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	fwd := hitForwarder{url: url, client: http.DefaultClient}
	assert.Error(t, fwd.send(model.Hit{Key: 36}))
}
