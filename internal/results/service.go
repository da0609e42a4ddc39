package results

import (
	"context"
	"net/url"

	"github.com/rs/zerolog"
)

// ListResponse is the envelope the client-side data table consumes.
type ListResponse struct {
	Num  int     `json:"num"`
	Rows [][]any `json:"rows"`
}

// DataViewService orchestrates one results read: sanitize the raw
// parameters, build the mode-resolved query spec, fetch count and page,
// then format each row. Stateless per request.
type DataViewService struct {
	store     Store
	formatter Formatter
	log       zerolog.Logger
}

func NewDataViewService(store Store, formatter Formatter, log zerolog.Logger) *DataViewService {
	return &DataViewService{store: store, formatter: formatter, log: log}
}

// List serves one data-view request. Count and page are independent
// reads; a write landing between them can make num and len(rows)
// disagree slightly, which is accepted rather than wrapped in a
// transaction. Storage errors fail the call as a whole.
func (s *DataViewService) List(ctx context.Context, scope Scope, params url.Values) (ListResponse, error) {
	page, sort, filter := ParseDataViewInput(params)
	spec := BuildQuerySpec(scope, page, sort, filter)

	num, err := s.store.Count(ctx, spec)
	if err != nil {
		return ListResponse{}, err
	}
	recs, err := s.store.Page(ctx, spec)
	if err != nil {
		return ListResponse{}, err
	}

	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, s.formatter.FormatRow(rec))
	}

	s.log.Debug().
		Int("num", num).
		Int("rows", len(rows)).
		Int64("scope_id", scope.ID).
		Msg("data view served")
	return ListResponse{Num: num, Rows: rows}, nil
}
