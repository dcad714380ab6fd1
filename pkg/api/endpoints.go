package api

import (
	"context"
	"errors"
	"strings"

	"github.com/hazyhaar/dpr-registry/pkg/kit"
	"github.com/hazyhaar/dpr-registry/pkg/member"
	"github.com/hazyhaar/dpr-registry/pkg/search"
)

// Shared request/response types used by both HTTP and MCP transports.

var errEmptyQuery = errors.New("empty query")

// emptyQueryMessage is shown to users who submit a blank search.
const emptyQueryMessage = "Silakan masukkan kata kunci pencarian"

type searchReq struct {
	Query string
	Limit int
}

// searchResponse echoes the effective limit: a missing limit becomes the default
// and a larger one is capped at search.MaxLimit.
type searchResponse struct {
	Results []member.Record `json:"results"`
	Count   int             `json:"count"`
	Query   string          `json:"query"`
	Limit   int             `json:"limit"`
	Success bool            `json:"success"`
}

func searchEndpoint(engine *search.Engine) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*searchReq)
		q := strings.TrimSpace(req.Query)
		if q == "" {
			return nil, errEmptyQuery
		}
		limit := engine.Limit(req.Limit)
		results := engine.Search(ctx, q, limit)
		return searchResponse{Results: results, Count: len(results), Query: q, Limit: limit, Success: true}, nil
	}
}

func statsEndpoint(engine *search.Engine) kit.Endpoint {
	return func(ctx context.Context, _ any) (any, error) {
		return engine.Stats(ctx)
	}
}
