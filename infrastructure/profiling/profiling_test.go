package profiling_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/job-tracker/infrastructure/profiling"
)

func TestStart_Disabled(t *testing.T) {
	t.Parallel()

	p, err := profiling.Start(profiling.Config{}, "job-tracker", "test", logger.NewNop())
	require.NoError(t, err)
	assert.Empty(t, p.PprofAddr())
	require.NoError(t, p.Stop(t.Context()))
}

func TestStart_Pprof(t *testing.T) {
	t.Parallel()

	p, err := profiling.Start(profiling.Config{PprofEnabled: true, PprofAddress: "127.0.0.1:0"},
		"job-tracker", "test", logger.NewNop())
	require.NoError(t, err)
	defer func() { _ = p.Stop(t.Context()) }()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet,
		"http://"+p.PprofAddr()+"/debug/pprof/", http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestProfiler_NilIsSafe(t *testing.T) {
	t.Parallel()

	var p *profiling.Profiler
	assert.Empty(t, p.PprofAddr())
	assert.NoError(t, p.Stop(t.Context()))
}
