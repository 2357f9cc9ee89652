package cobrowse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/custom-agent-demo/agentui/internal/session"
)

// Session fetches /api/sessions/{id}.
func (a *API) Session(ctx context.Context, id string) (*session.Session, error) {
	var s session.Session
	if err := a.get(ctx, "/api/sessions/"+url.PathEscape(id), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Sessions fetches /api/sessions.
func (a *API) Sessions(ctx context.Context) ([]*session.Session, error) {
	var out []*session.Session
	if err := a.get(ctx, "/api/sessions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(a.endpoint, "/")+path, nil)
	if err != nil {
		return err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("GET %s: %d %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
