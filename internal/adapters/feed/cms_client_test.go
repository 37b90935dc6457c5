package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCMSClient_FetchCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte("Facility ID,Facility Name\n1,General\n"))
	}))
	defer server.Close()

	client := NewCMSClient(server.URL, time.Second, nil)
	text, err := client.FetchCSV(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "Facility ID,Facility Name\n1,General\n", text)
}

func TestCMSClient_FetchCSV_Non2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewCMSClient(server.URL, time.Second, nil)
	_, err := client.FetchCSV(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CMS CSV download error: 503")
}

func TestCMSClient_FetchCSV_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewCMSClient(url, time.Second, nil).FetchCSV(context.Background())
	assert.Error(t, err)
}
