package googlefit

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type sessionService struct {
	client *Client
}

// Upsert creates the session or replaces the one with the same id.
func (s *sessionService) Upsert(ctx context.Context, session *Session) (*Session, error) {
	path := "/users/me/sessions/" + url.PathEscape(session.ID)

	var saved Session
	if err := s.client.do(ctx, http.MethodPut, path, nil, session, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *sessionService) List(ctx context.Context, params *ListSessionsParams) (*ListSessionsResponse, error) {
	const route = "/users/me/sessions"

	var resp ListSessionsResponse
	if err := s.client.do(ctx, http.MethodGet, route, params.values(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	path := "/users/me/sessions/" + url.PathEscape(id)
	return s.client.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (p *ListSessionsParams) values() url.Values {
	if p == nil {
		return nil
	}

	v := make(url.Values)

	if !p.StartTime.IsZero() {
		v.Set("startTime", p.StartTime.UTC().Format(time.RFC3339Nano))
	}
	if !p.EndTime.IsZero() {
		v.Set("endTime", p.EndTime.UTC().Format(time.RFC3339Nano))
	}
	for _, activity := range p.ActivityType {
		v.Add("activityType", strconv.Itoa(activity))
	}
	if p.IncludeDeleted {
		v.Set("includeDeleted", "true")
	}
	if p.PageToken != "" {
		v.Set("pageToken", p.PageToken)
	}

	return v
}
