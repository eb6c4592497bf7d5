package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdityaXD007/LearnXchange/internal/models"
	appErrors "github.com/AdityaXD007/LearnXchange/pkg/errors"
	"github.com/AdityaXD007/LearnXchange/pkg/jobs"
)

type statsStoreStub struct {
	ids        []string
	failFor    map[string]bool
	recomputed []string
}

func (s *statsStoreStub) ListUserIDs(ctx context.Context) ([]string, error) {
	return s.ids, nil
}

func (s *statsStoreStub) RecomputeStats(ctx context.Context, userIDs ...string) error {
	for _, id := range userIDs {
		if s.failFor[id] {
			return errors.New("deadlock detected")
		}
		s.recomputed = append(s.recomputed, id)
	}
	return nil
}

type enqueuerStub struct {
	jobs []jobs.Job
	err  error
}

func (s *enqueuerStub) Enqueue(job jobs.Job) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.jobs = append(s.jobs, job)
	return "job-1", nil
}

func TestStatsServiceRebuildAll(t *testing.T) {
	store := &statsStoreStub{ids: []string{"a", "b", "c"}, failFor: map[string]bool{"b": true}}
	svc := NewStatsService(store, nil, nil)

	done, err := svc.RebuildAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, 2, done)
	assert.Equal(t, []string{"a", "c"}, store.recomputed)

	store.failFor = nil
	store.recomputed = nil
	require.NoError(t, svc.HandleJob(context.Background(), jobs.Job{Type: StatsRebuildJob}))
	assert.Len(t, store.recomputed, 3)
}

func TestStatsServiceHandleJobRejectsUnknownType(t *testing.T) {
	svc := NewStatsService(&statsStoreStub{}, nil, nil)
	assert.Error(t, svc.HandleJob(context.Background(), jobs.Job{Type: "other"}))
}

func TestStatsServiceEnqueue(t *testing.T) {
	audit := &auditStub{}
	svc := NewStatsService(&statsStoreStub{}, audit, nil)

	_, err := svc.Enqueue(context.Background(), "admin-id")
	assert.ErrorIs(t, err, appErrors.ErrInternal)

	queue := &enqueuerStub{}
	svc.UseQueue(queue)
	id, err := svc.Enqueue(context.Background(), "admin-id")
	require.NoError(t, err)
	assert.Equal(t, "job-1", id)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, StatsRebuildJob, queue.jobs[0].Type)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionStatsRebuild, audit.logs[0].Action)

	queue.err = fmt.Errorf("queue stats: %w", jobs.ErrQueueFull)
	_, err = svc.Enqueue(context.Background(), "admin-id")
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}
