package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimClient_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bhuj, Kutch", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "krushak-test", r.Header.Get("User-Agent"))

		w.Write([]byte(`[{"lat":"23.2420","lon":"69.6669"}]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, "krushak-test")

	point, err := client.Geocode(context.Background(), "Bhuj, Kutch")
	require.NoError(t, err)
	require.NotNil(t, point)
	assert.InDelta(t, 69.6669, point.Lng, 0.0001)
	assert.InDelta(t, 23.2420, point.Lat, 0.0001)
}

func TestNominatimClient_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, "krushak-test")

	// Soft failure: no candidates is not an error.
	point, err := client.Geocode(context.Background(), "nowhere at all")
	require.NoError(t, err)
	assert.Nil(t, point)
}

func TestNominatimClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, "krushak-test")

	_, err := client.Geocode(context.Background(), "Bhuj")
	assert.Error(t, err)
}

func TestNominatimClient_BadCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"not-a-number","lon":"69.6669"}]`))
	}))
	defer srv.Close()

	client := NewNominatimClient(srv.URL, "krushak-test")

	_, err := client.Geocode(context.Background(), "Bhuj")
	assert.Error(t, err)
}
