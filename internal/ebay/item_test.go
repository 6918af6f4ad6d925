package ebay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetItem(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1|42|0", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Write([]byte(`{
			"itemId": "v1|42|0",
			"title": "Makeup Bundle Job Lot",
			"price": {"value": "24.99", "currency": "GBP"},
			"condition": "NEW",
			"description": "<p>Includes:</p><ul><li>Gel Polish</li><li>Lip   Tint</li></ul>"
		}`))
	}))
	defer srv.Close()

	c := NewBrowseClient(staticTokens("tok"), WithItemURL(srv.URL))

	detail, err := c.GetItem(context.Background(), "v1|42|0")
	require.NoError(t, err)
	assert.Equal(t, "Makeup Bundle Job Lot", detail.Title)
	assert.Equal(t, "24.99", detail.Price.Value)
	assert.Equal(t, "Includes: Gel Polish Lip Tint", detail.PlainDescription())
}

func TestGetItemError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewBrowseClient(staticTokens("tok"), WithItemURL(srv.URL))

	_, err := c.GetItem(context.Background(), "v1|99|0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestStripHTML(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", stripHTML(""))
	assert.Equal(t, "plain text", stripHTML("plain text"))
	assert.Equal(t, "a b", stripHTML("<div>a</div>\n<div>\t b </div>"))
}
