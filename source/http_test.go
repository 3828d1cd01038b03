package source

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tables/icd10cmtoicd9gem.csv" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "text/csv", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("icd10,icd9\n0010,001\n"))
	}))
	defer server.Close()

	src := NewHTTP(server.URL+"/tables", zerolog.Nop())
	records, err := src.Open(context.Background(), "icd10cmtoicd9gem")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"icd10", "icd9"}, {"0010", "001"}}, readAll(t, records))
}

func TestHTTPOpenNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := NewHTTP(server.URL, zerolog.Nop()).Open(context.Background(), "dxref2015")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestHTTPOpenUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := NewHTTP(server.URL, zerolog.Nop()).Open(context.Background(), "dxref2015")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}
