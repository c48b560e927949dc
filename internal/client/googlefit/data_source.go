package googlefit

import (
	"context"
	"net/http"
	"net/url"
)

type dataSourceService struct {
	client *Client
}

func (s *dataSourceService) Create(ctx context.Context, source *DataSource) (*DataSource, error) {
	const route = "/users/me/dataSources"

	var created DataSource
	if err := s.client.do(ctx, http.MethodPost, route, nil, source, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *dataSourceService) List(ctx context.Context, dataTypeNames ...string) ([]DataSource, error) {
	const route = "/users/me/dataSources"

	var query url.Values
	if len(dataTypeNames) > 0 {
		query = url.Values{"dataTypeName": dataTypeNames}
	}

	var resp listDataSourcesResponse
	if err := s.client.do(ctx, http.MethodGet, route, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.DataSource, nil
}
