package pipeline

import (
	"sync"
	"time"
)

// ExecutorStats provides statistics about executor runs.
type ExecutorStats struct {
	SystemCount     int
	StageCount      int
	Frames          uint64
	FailedFrames    uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          int
	ExecutionCount int64
	FailureCount   int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	mu             sync.Mutex
	executionCount int64
	failureCount   int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func newSystemStats() *systemStatsInternal {
	return &systemStatsInternal{minDuration: time.Duration(1<<63 - 1)}
}

func (s *systemStatsInternal) record(duration time.Duration, failed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.executionCount++
	if failed {
		s.failureCount++
	}
	s.lastDuration = duration
	s.totalDuration += duration

	if duration < s.minDuration {
		s.minDuration = duration
	}
	if duration > s.maxDuration {
		s.maxDuration = duration
	}
}

func (s *systemStatsInternal) snapshot(name string, stage int) SystemStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := SystemStats{
		Name:           name,
		Stage:          stage,
		ExecutionCount: s.executionCount,
		FailureCount:   s.failureCount,
		MaxDuration:    s.maxDuration,
		LastDuration:   s.lastDuration,
		TotalDuration:  s.totalDuration,
	}
	if s.executionCount > 0 {
		out.MinDuration = s.minDuration
		out.AvgDuration = s.totalDuration / time.Duration(s.executionCount)
	}
	return out
}
