// Package search talks to YouTube's unauthenticated innertube endpoint.
// The core treats it as a pure, idempotent lookup; results are cached per
// query and failures surface as typed errors without touching room state.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"jamroom/internal/core"
)

const (
	searchPath = "/youtubei/v1/search"
	// Restricts innertube results to plain videos.
	videoFilter   = "EgIQAQ=="
	clientName    = "WEB"
	clientVersion = "2.20240101.00.00"
)

type Client struct {
	http       *http.Client
	endpoint   string
	maxResults int
	cache      *lru.Cache[string, []core.SearchResult]
}

func NewClient(endpoint string, timeout time.Duration, maxResults, cacheSize int) (*Client, error) {
	cache, err := lru.New[string, []core.SearchResult](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}
	return &Client{
		http:       &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(endpoint, "/"),
		maxResults: maxResults,
		cache:      cache,
	}, nil
}

func (c *Client) Search(ctx context.Context, query string) ([]core.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, core.ErrInvalidInput
	}
	if hit, ok := c.cache.Get(query); ok {
		return hit, nil
	}

	body, err := json.Marshal(searchRequest{
		Context: requestContext{Client: clientInfo{
			ClientName:    clientName,
			ClientVersion: clientVersion,
			HL:            "en",
			GL:            "US",
		}},
		Query:  query,
		Params: videoFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+searchPath+"?prettyPrint=false", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Warn().Str("module", "search").Int("status", resp.StatusCode).Str("query", query).Msg("upstream refused search")
		return nil, fmt.Errorf("%w: status %d", core.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", core.ErrUpstreamUnavailable, err)
	}

	results := payload.results(c.maxResults)
	if len(results) == 0 {
		return nil, core.ErrNoResults
	}
	c.cache.Add(query, results)
	log.Debug().Str("module", "search").Str("query", query).Int("results", len(results)).Msg("search ok")
	return results, nil
}

type searchRequest struct {
	Context requestContext `json:"context"`
	Query   string         `json:"query"`
	Params  string         `json:"params"`
}

type requestContext struct {
	Client clientInfo `json:"client"`
}

type clientInfo struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	HL            string `json:"hl"`
	GL            string `json:"gl"`
}

// The innertube response nests results several renderers deep. Only the
// fields we read are modelled.
type searchResponse struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type videoRenderer struct {
	VideoID       string   `json:"videoId"`
	Title         textRuns `json:"title"`
	OwnerText     textRuns `json:"ownerText"`
	LengthText    textRuns `json:"lengthText"`
	ViewCountText textRuns `json:"viewCountText"`
	Thumbnail     struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
}

type textRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
	SimpleText string `json:"simpleText"`
}

func (t textRuns) text() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	if len(t.Runs) > 0 {
		return t.Runs[0].Text
	}
	return ""
}

func (p searchResponse) results(limit int) []core.SearchResult {
	var out []core.SearchResult
	sections := p.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents
	for _, section := range sections {
		for _, item := range section.ItemSectionRenderer.Contents {
			vr := item.VideoRenderer
			if vr == nil || vr.VideoID == "" {
				continue
			}
			thumb := ""
			if n := len(vr.Thumbnail.Thumbnails); n > 0 {
				thumb = vr.Thumbnail.Thumbnails[n-1].URL
			}
			out = append(out, core.SearchResult{
				VideoID:   vr.VideoID,
				Title:     vr.Title.text(),
				Thumbnail: thumb,
				Channel:   vr.OwnerText.text(),
				Duration:  vr.LengthText.text(),
				Views:     vr.ViewCountText.text(),
			})
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
