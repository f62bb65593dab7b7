package memory

import (
	"context"
	"slices"
	"sync"

	"TownBuilder/internal/town/entity"
)

// ReportRepository 进程内实现，默认存储与测试用。
type ReportRepository struct {
	mu        sync.RWMutex
	summaries map[entity.TownID]entity.Summary
	reports   map[entity.TownID]map[int]entity.DayReport
	saves     int
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{
		summaries: make(map[entity.TownID]entity.Summary),
		reports:   make(map[entity.TownID]map[int]entity.DayReport),
	}
}

func (r *ReportRepository) Save(ctx context.Context, s *entity.TownPersistSnapshot) error {
	if s == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := s.Summary.TownID
	r.summaries[id] = s.Summary
	days, ok := r.reports[id]
	if !ok {
		days = make(map[int]entity.DayReport)
		r.reports[id] = days
	}
	for _, rep := range s.Reports {
		days[rep.Day] = rep
	}
	r.saves++
	return nil
}

func (r *ReportRepository) LatestSummary(ctx context.Context, townID entity.TownID) (entity.Summary, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.summaries[townID]
	return s, ok, nil
}

// Reports 按 day 升序，从 fromDay 起最多 limit 条；limit<=0 不限制。
func (r *ReportRepository) Reports(ctx context.Context, townID entity.TownID, fromDay, limit int) ([]entity.DayReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.DayReport, 0)
	for day, rep := range r.reports[townID] {
		if day >= fromDay {
			out = append(out, rep)
		}
	}
	slices.SortFunc(out, func(a, b entity.DayReport) int { return a.Day - b.Day })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Saves 返回成功写入的次数。
func (r *ReportRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}
