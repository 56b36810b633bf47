package news

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsdeck/pkg/config"
)

const googleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>"Acme Corp" - Google News</title>
	<link>https://news.google.com</link>
	<item>
		<title>Acme Corp reports record earnings - Business Daily</title>
		<link>https://news.google.com/rss/articles/abc1</link>
		<pubDate>Tue, 04 Mar 2025 10:00:00 GMT</pubDate>
		<description>&lt;a href="https://bd.example.com/acme"&gt;Acme Corp reports record earnings&lt;/a&gt;&amp;nbsp;&amp;nbsp;&lt;font color="#6f6f6f"&gt;Business Daily&lt;/font&gt;</description>
		<source url="https://bd.example.com">Business Daily</source>
	</item>
	<item>
		<title>Acme Corp opens plant</title>
		<link>https://news.google.com/rss/articles/abc2</link>
		<description>plain &amp;amp; simple</description>
	</item>
</channel>
</rss>`

func TestGoogleNews_Search(t *testing.T) {
	var gotQuery map[string][]string
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(googleRSS))
	}))
	defer ts.Close()

	g := NewGoogleNews(GoogleNewsParams{BaseURL: ts.URL + "/rss/search", UserAgent: "test-agent", Language: "en-GB", Country: "GB"})
	res, err := g.Search(context.Background(), "Acme Corp", 10)
	require.NoError(t, err)
	require.Len(t, res, 2)

	assert.Equal(t, []string{`"Acme Corp"`}, gotQuery["q"])
	assert.Equal(t, []string{"en-GB"}, gotQuery["hl"])
	assert.Equal(t, []string{"GB"}, gotQuery["gl"])
	assert.Equal(t, []string{"GB:en"}, gotQuery["ceid"])
	assert.Equal(t, "test-agent", gotUA)

	assert.Equal(t, "Acme Corp reports record earnings - Business Daily", res[0].Title)
	assert.Equal(t, "https://news.google.com/rss/articles/abc1", res[0].URL)
	assert.Equal(t, "Business Daily", res[0].Source)
	assert.Equal(t, "Acme Corp reports record earnings Business Daily", res[0].RawText)
	require.NotNil(t, res[0].Published)
	assert.Equal(t, time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), *res[0].Published)

	assert.Empty(t, res[1].Source)
	assert.Nil(t, res[1].Published)
	assert.Equal(t, "plain & simple", res[1].RawText)
}

func TestGoogleNews_SearchLimit(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(googleRSS))
	}))
	defer ts.Close()

	res, err := NewGoogleNews(GoogleNewsParams{BaseURL: ts.URL}).Search(context.Background(), "Acme Corp", 1)
	require.NoError(t, err)
	assert.Len(t, res, 1)
}

func TestGoogleNews_SearchErrors(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()
		_, err := NewGoogleNews(GoogleNewsParams{BaseURL: ts.URL}).Search(context.Background(), "Acme", 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("not a feed", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>captcha</body></html>"))
		}))
		defer ts.Close()
		_, err := NewGoogleNews(GoogleNewsParams{BaseURL: ts.URL}).Search(context.Background(), "Acme", 5)
		require.Error(t, err)
	})

	t.Run("unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		ts.Close()
		_, err := NewGoogleNews(GoogleNewsParams{BaseURL: ts.URL, Timeout: time.Second}).Search(context.Background(), "Acme", 5)
		require.Error(t, err)
	})
}

func TestPublisherFromTitle(t *testing.T) {
	assert.Equal(t, "Reuters", publisherFromTitle("Acme - the road ahead - Reuters"))
	assert.Empty(t, publisherFromTitle("No publisher here"))
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.NewsConfig{Provider: "google"})
	require.NoError(t, err)
	assert.Equal(t, "google-news", src.Name())

	src, err = NewSource(config.NewsConfig{Provider: "searxng", BaseURL: "http://localhost:8888"})
	require.NoError(t, err)
	assert.Equal(t, "searxng", src.Name())

	_, err = NewSource(config.NewsConfig{Provider: "searxng"})
	require.Error(t, err)

	_, err = NewSource(config.NewsConfig{Provider: "bing"})
	require.Error(t, err)
}
