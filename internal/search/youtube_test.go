package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"jamroom/internal/core"
)

func innertubePayload(videoIDs ...string) string {
	items := ""
	for i, id := range videoIDs {
		if i > 0 {
			items += ","
		}
		items += fmt.Sprintf(`{
			"videoRenderer": {
				"videoId": %q,
				"title": {"runs": [{"text": "Title %s"}]},
				"ownerText": {"runs": [{"text": "Channel %s"}]},
				"lengthText": {"simpleText": "3:21"},
				"viewCountText": {"simpleText": "1,234 views"},
				"thumbnail": {"thumbnails": [
					{"url": "https://img/small-%s"},
					{"url": "https://img/big-%s"}
				]}
			}
		}`, id, id, id, id, id)
	}
	return fmt.Sprintf(`{
		"contents": {"twoColumnSearchResultsRenderer": {"primaryContents": {
			"sectionListRenderer": {"contents": [
				{"itemSectionRenderer": {"contents": [%s]}}
			]}
		}}}
	}`, items)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, maxResults int) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, 2*time.Second, maxResults, 16)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestSearchParsesInnertubeResponse(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtubei/v1/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body: %v", err)
		}
		if req["query"] != "daft punk" {
			t.Errorf("query = %v", req["query"])
		}
		fmt.Fprint(w, innertubePayload("vid1", "vid2"))
	}, 10)

	results, err := c.Search(context.Background(), "daft punk")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	first := results[0]
	if first.VideoID != "vid1" || first.Title != "Title vid1" || first.Channel != "Channel vid1" {
		t.Fatalf("unexpected result: %+v", first)
	}
	if first.Duration != "3:21" || first.Views != "1,234 views" {
		t.Fatalf("duration/views wrong: %+v", first)
	}
	if first.Thumbnail != "https://img/big-vid1" {
		t.Fatalf("expected largest thumbnail, got %s", first.Thumbnail)
	}
}

func TestSearchCapsResultCount(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, innertubePayload("a", "b", "c", "d"))
	}, 2)

	results, err := c.Search(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want capped 2", len(results))
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for an empty query")
	}, 10)

	for _, q := range []string{"", "   "} {
		if _, err := c.Search(context.Background(), q); !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("query %q: err = %v, want ErrInvalidInput", q, err)
		}
	}
}

func TestSearchUpstreamFailures(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests} {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}, 10)
		if _, err := c.Search(context.Background(), "q"); !errors.Is(err, core.ErrUpstreamUnavailable) {
			t.Fatalf("status %d: err = %v, want ErrUpstreamUnavailable", status, err)
		}
	}
}

func TestSearchNoResults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, innertubePayload())
	}, 10)
	if _, err := c.Search(context.Background(), "obscure"); !errors.Is(err, core.ErrNoResults) {
		t.Fatalf("err = %v, want ErrNoResults", err)
	}
}

func TestSearchCachesByQuery(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, innertubePayload("vid1"))
	}, 10)

	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), "same query"); err != nil {
			t.Fatalf("Search %d: %v", i, err)
		}
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("upstream hit %d times, want 1", got)
	}
}
