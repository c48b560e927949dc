package googlefit

import "context"

type DatasetService interface {
	Aggregate(ctx context.Context, req *AggregateRequest) (*AggregateResponse, error)
	// Get reads points of a source within [minNs, maxNs]. limit <= 0 means
	// no limit.
	Get(ctx context.Context, dataSourceID string, minNs, maxNs int64, limit int) (*Dataset, error)
	Patch(ctx context.Context, dataset *Dataset) error
	Delete(ctx context.Context, dataSourceID string, minNs, maxNs int64) error
}

type DataSourceService interface {
	Create(ctx context.Context, source *DataSource) (*DataSource, error)
	List(ctx context.Context, dataTypeNames ...string) ([]DataSource, error)
}

type SessionService interface {
	Upsert(ctx context.Context, session *Session) (*Session, error)
	List(ctx context.Context, params *ListSessionsParams) (*ListSessionsResponse, error)
	Delete(ctx context.Context, id string) error
}
