package port

import (
	"context"

	"TownBuilder/internal/town/entity"
)

// ReportRepository 是日报流水与最新概览的落地端口。
// Save 需要幂等：同一 (town, day) 的日报重复写入只保留一份。
type ReportRepository interface {
	Save(ctx context.Context, s *entity.TownPersistSnapshot) error
	LatestSummary(ctx context.Context, townID entity.TownID) (entity.Summary, bool, error)
	Reports(ctx context.Context, townID entity.TownID, fromDay, limit int) ([]entity.DayReport, error)
}
