package metrics

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/localsearch/internal/optimization"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"success", nil, StatusCompleted},
		{"cancelled", context.Canceled, StatusCancelled},
		{"deadline", fmt.Errorf("search: %w", context.DeadlineExceeded), StatusCancelled},
		{"failure", optimization.ErrInvalidCandidate, StatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestObserveSearch(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	stats := optimization.Stats{Evaluations: 120, BestScore: 42.5, Elapsed: 30 * time.Millisecond}
	c.ObserveSearch("TSP", "HillClimbing", stats, nil)
	c.ObserveSearch("TSP", "HillClimbing", optimization.Stats{Evaluations: 1, BestScore: 50}, context.Canceled)
	c.ObserveSearch("TSP", "HillClimbing", optimization.Stats{}, errors.New("boom"))

	assert.Equal(t, 121.0, testutil.ToFloat64(c.evaluations.WithLabelValues("HillClimbing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.searches.WithLabelValues("HillClimbing", StatusCompleted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.searches.WithLabelValues("HillClimbing", StatusCancelled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.searches.WithLabelValues("HillClimbing", StatusFailed)))

	// the failed search never evaluated anything and leaves the gauge alone
	assert.Equal(t, 50.0, testutil.ToFloat64(c.bestScore.WithLabelValues("TSP", "HillClimbing")))

	n, err := testutil.GatherAndCount(reg, "localsearch_search_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewCollectorRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}
