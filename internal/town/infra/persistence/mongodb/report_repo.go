package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"TownBuilder/internal/town/entity"
	"TownBuilder/internal/town/infra/persistence/model"
	"TownBuilder/modules/kit/errx"
)

const (
	summaryCollection = "town_summary"
	reportCollection  = "town_day_report"
)

type ReportRepository struct {
	summaries *mongo.Collection
	reports   *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{
		summaries: db.Collection(summaryCollection),
		reports:   db.Collection(reportCollection),
	}
}

// EnsureIndexes (town_id, day) 唯一索引，保证日报重放幂等。
func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.reports.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "town_id", Value: 1}, {Key: "day", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errx.NewSys(errx.CodeInternal, "create town report index failed").WithCause(err)
	}
	return nil
}

func (r *ReportRepository) Save(ctx context.Context, s *entity.TownPersistSnapshot) error {
	if s == nil {
		return nil
	}
	doc := model.SummaryToModel(s.Summary)
	if _, err := r.summaries.ReplaceOne(ctx, bson.M{"_id": doc.TownID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return errx.NewSys(errx.CodeInternal, "save town summary failed").
			WithData("town_id", s.Summary.TownID).
			WithCause(err)
	}
	if len(s.Reports) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(s.Reports))
	for _, rep := range s.Reports {
		m := model.ReportToModel(rep)
		writes = append(writes, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"town_id": m.TownID, "day": m.Day}).
			SetReplacement(m).
			SetUpsert(true))
	}
	if _, err := r.reports.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false)); err != nil {
		return errx.NewSys(errx.CodeInternal, "save town reports failed").
			WithData("town_id", s.Summary.TownID).
			WithData("reports", len(s.Reports)).
			WithCause(err)
	}
	return nil
}

func (r *ReportRepository) LatestSummary(ctx context.Context, townID entity.TownID) (entity.Summary, bool, error) {
	var doc model.TownSummary
	err := r.summaries.FindOne(ctx, bson.M{"_id": int(townID)}).Decode(&doc)
	switch {
	case err == nil:
		return model.SummaryFromModel(doc), true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return entity.Summary{}, false, nil
	default:
		return entity.Summary{}, false, errx.NewSys(errx.CodeInternal, "load town summary failed").WithCause(err)
	}
}

func (r *ReportRepository) Reports(ctx context.Context, townID entity.TownID, fromDay, limit int) ([]entity.DayReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := r.reports.Find(ctx, bson.M{"town_id": int(townID), "day": bson.M{"$gte": fromDay}}, opts)
	if err != nil {
		return nil, errx.NewSys(errx.CodeInternal, "find town reports failed").WithCause(err)
	}
	var docs []model.DayReport
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errx.NewSys(errx.CodeInternal, "decode town reports failed").WithCause(err)
	}
	out := make([]entity.DayReport, 0, len(docs))
	for _, d := range docs {
		out = append(out, model.ReportFromModel(d))
	}
	return out, nil
}
