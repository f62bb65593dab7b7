package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/infra/persistence/model"
	"TownBuilder/modules/kit/errx"
)

type ReportRepository struct {
	db *gorm.DB
}

// NewReportRepository 启动时自动建表。
func NewReportRepository(db *gorm.DB) (*ReportRepository, error) {
	if db == nil {
		return nil, errx.NewSys(errx.CodeUnavailable, "mysql db is nil")
	}
	if err := db.AutoMigrate(&model.TownSummary{}, &model.DayReport{}); err != nil {
		return nil, errx.NewSys(errx.CodeInternal, "migrate town tables failed").WithCause(err)
	}
	return &ReportRepository{db: db}, nil
}

// Save 概览与日报在同一事务内 upsert。
func (r *ReportRepository) Save(ctx context.Context, s *entity.TownPersistSnapshot) error {
	if s == nil {
		return nil
	}
	summary := model.SummaryToModel(s.Summary)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&summary).Error; err != nil {
			return err
		}
		if len(s.Reports) == 0 {
			return nil
		}
		rows := make([]model.DayReport, 0, len(s.Reports))
		for _, rep := range s.Reports {
			rows = append(rows, model.ReportToModel(rep))
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
	if err != nil {
		return errx.NewSys(errx.CodeInternal, "save town report failed").
			WithData("town_id", s.Summary.TownID).
			WithData("version", s.Version).
			WithCause(err)
	}
	return nil
}

func (r *ReportRepository) LatestSummary(ctx context.Context, townID entity.TownID) (entity.Summary, bool, error) {
	var m model.TownSummary
	res := r.db.WithContext(ctx).Where("town_id = ?", int(townID)).Limit(1).Find(&m)
	if res.Error != nil {
		return entity.Summary{}, false, errx.NewSys(errx.CodeInternal, "load town summary failed").WithCause(res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.Summary{}, false, nil
	}
	return model.SummaryFromModel(m), true, nil
}

func (r *ReportRepository) Reports(ctx context.Context, townID entity.TownID, fromDay, limit int) ([]entity.DayReport, error) {
	q := r.db.WithContext(ctx).
		Where("town_id = ? AND day >= ?", int(townID), fromDay).
		Order("day ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []model.DayReport
	if err := q.Find(&rows).Error; err != nil {
		return nil, errx.NewSys(errx.CodeInternal, "load town reports failed").WithCause(err)
	}
	out := make([]entity.DayReport, 0, len(rows))
	for _, m := range rows {
		out = append(out, model.ReportFromModel(m))
	}
	return out, nil
}
