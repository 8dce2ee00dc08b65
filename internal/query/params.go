package query

import (
	"net/http"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	defaultLimit = 10
	minLimit     = 1
	maxLimit     = 100
)

// commonParams bundles the four query parameters shared by every access
// pattern in the table at spec §4.5.
type commonParams struct {
	forward    bool // order=asc
	limit      int32
	exclusiveStart map[string]types.AttributeValue
	from, to   string // both empty unless both were supplied
}

func parseCommonParams(r *http.Request) commonParams {
	q := r.URL.Query()

	p := commonParams{
		forward: q.Get("order") == "asc",
		limit:   defaultLimit,
	}

	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			if n < minLimit {
				n = minLimit
			}
			if n > maxLimit {
				n = maxLimit
			}
			p.limit = int32(n)
		}
	}

	p.exclusiveStart = decodeCursor(q.Get("cursor"))

	from, to := q.Get("from"), q.Get("to")
	if from != "" && to != "" {
		p.from, p.to = from, to+"￿"
	}

	return p
}
