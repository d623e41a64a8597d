package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/leadflow/leadflow/leads"
	"github.com/leadflow/leadflow/scraper"
	"github.com/leadflow/leadflow/store"
)

type pipelineFunc func(ctx context.Context, st *leads.State)

func (f pipelineFunc) Run(ctx context.Context, st *leads.State) { f(ctx, st) }

func testServer(t *testing.T, scr scraper.Scraper, pipeline Pipeline) *Server {
	t.Helper()

	runs, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)

	t.Cleanup(func() { _ = runs.Close() })

	return New(scr, pipeline, runs, ":0")
}

func happyScraper() scraper.Scraper {
	return scraper.Func(func(_ context.Context, query string, _ int) ([]leads.Business, error) {
		return []leads.Business{
			leads.New("Bizname Roastery", "South Loop", "https://roastery.com", "https://maps.example/1"),
		}, nil
	})
}

func enrichingPipeline() Pipeline {
	return pipelineFunc(func(_ context.Context, st *leads.State) {
		for i := range st.Businesses {
			st.Businesses[i].Email = "info@roastery.com"
			st.Businesses[i].EmailSource = "smart_extractor"
		}
	})
}

func TestRunPipelineEndpoint(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	body := strings.NewReader(`{"search_query":"coffee shops in South Loop","max_links":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", body)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp pipelineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp.RunID)
	require.Len(t, resp.Businesses, 1)
	require.Equal(t, "info@roastery.com", resp.Businesses[0].Email)

	// The run is persisted and retrievable.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+resp.RunID, nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRunPipelineMissingQuery(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRunPipelineOversizedBody(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	body := `{"search_query":"` + strings.Repeat("a", 2<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", strings.NewReader(body))
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRunPipelineScraperFailure(t *testing.T) {
	scr := scraper.Func(func(_ context.Context, _ string, _ int) ([]leads.Business, error) {
		return nil, errors.New("maps unreachable")
	})

	s := testServer(t, scr, enrichingPipeline())

	body := strings.NewReader(`{"search_query":"coffee shops"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", body)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var apiErr apiError
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&apiErr))
	require.Contains(t, apiErr.Message, "maps unreachable")
}

func TestListRunsEmpty(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestGetRunInvalidID(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetRunUnknownID(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRun(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	body := strings.NewReader(`{"search_query":"coffee shops"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp pipelineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/runs/"+resp.RunID, nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/runs/"+resp.RunID, nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunCSVExport(t *testing.T) {
	s := testServer(t, happyScraper(), enrichingPipeline())

	body := strings.NewReader(`{"search_query":"coffee shops"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline", body)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp pipelineResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/runs/"+resp.RunID+"/csv", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Body.String(), "info@roastery.com")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Equal(t, "name,location,website,source_url,email,email_source,summary,pain_points,outreach_email", lines[0])
}
