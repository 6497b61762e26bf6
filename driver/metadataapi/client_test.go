package metadataapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCitationClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(5 * time.Second)
	client.citationURLFormat = server.URL + "/paper/%s"
	return client
}

func newJournalClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient(5 * time.Second)
	client.journalURLFormat = server.URL + "/resource/ISSN/%s"
	return client
}

func TestCitationCount(t *testing.T) {
	t.Run("parses citation count", func(t *testing.T) {
		client := newCitationClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/paper/10.1000/xyz123", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			w.Write([]byte(`{"paperId":"abc","citationCount":174}`))
		})

		count, err := client.CitationCount(context.Background(), "10.1000/xyz123")
		require.NoError(t, err)
		assert.Equal(t, 174, count)
	})

	t.Run("unknown doi is ErrNotFound", func(t *testing.T) {
		client := newCitationClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		_, err := client.CitationCount(context.Background(), "10.1000/none")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestJournalName(t *testing.T) {
	t.Run("single name", func(t *testing.T) {
		client := newJournalClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/resource/ISSN/0028-0836", r.URL.Path)
			w.Write([]byte(`{"@graph":[
				{"@id":"resource/ISSN/0028-0836#Record"},
				{"@id":"resource/ISSN/0028-0836","name":"Nature"}
			]}`))
		})

		name, err := client.JournalName(context.Background(), "0028-0836")
		require.NoError(t, err)
		assert.Equal(t, "Nature", name)
	})

	t.Run("historical name list keeps the latest", func(t *testing.T) {
		client := newJournalClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"@graph":[
				{"@id":"resource/ISSN/2049-260X","name":["Old title","New title"]}
			]}`))
		})

		name, err := client.JournalName(context.Background(), "2049-260X")
		require.NoError(t, err)
		assert.Equal(t, "New title", name)
	})

	t.Run("record without matching node is ErrNotFound", func(t *testing.T) {
		client := newJournalClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"@graph":[{"@id":"resource/ISSN/9999-9999","name":"Other"}]}`))
		})

		_, err := client.JournalName(context.Background(), "0028-0836")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
