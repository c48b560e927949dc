package googlefit

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type datasetService struct {
	client *Client
}

func (s *datasetService) Aggregate(ctx context.Context, req *AggregateRequest) (*AggregateResponse, error) {
	const route = "/users/me/dataset:aggregate"

	var resp AggregateResponse
	if err := s.client.do(ctx, http.MethodPost, route, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *datasetService) Get(ctx context.Context, dataSourceID string, minNs, maxNs int64, limit int) (*Dataset, error) {
	path := datasetPath(dataSourceID, minNs, maxNs)

	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": {strconv.Itoa(limit)}}
	}

	var dataset Dataset
	if err := s.client.do(ctx, http.MethodGet, path, query, nil, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (s *datasetService) Patch(ctx context.Context, dataset *Dataset) error {
	path := datasetPath(dataset.DataSourceID, dataset.MinStartTimeNs, dataset.MaxEndTimeNs)
	return s.client.do(ctx, http.MethodPatch, path, nil, dataset, nil)
}

// Delete removes the points of one of the caller's own data sources whose
// times fall in [minNs, maxNs].
func (s *datasetService) Delete(ctx context.Context, dataSourceID string, minNs, maxNs int64) error {
	return s.client.do(ctx, http.MethodDelete, datasetPath(dataSourceID, minNs, maxNs), nil, nil, nil)
}

func datasetPath(dataSourceID string, minNs, maxNs int64) string {
	return "/users/me/dataSources/" + url.PathEscape(dataSourceID) +
		"/datasets/" + strconv.FormatInt(minNs, 10) + "-" + strconv.FormatInt(maxNs, 10)
}
