package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Settlers/internal/world/entity"
	"Settlers/internal/world/infra/persistence/model"
	"Settlers/modules/kit/errx"
)

type JournalRepo struct {
	db *gorm.DB
}

func NewJournalRepo(db *gorm.DB) *JournalRepo {
	return &JournalRepo{db: db}
}

func (r *JournalRepo) WithTx(tx *gorm.DB) *JournalRepo {
	return &JournalRepo{
		db: tx,
	}
}

// Migrate 建表。
func (r *JournalRepo) Migrate() error {
	return r.db.AutoMigrate(&model.JournalRow{}, &model.SnapshotRow{})
}

const OpAppend = "repo.journal.Append"

func (r *JournalRepo) Append(ctx context.Context, rec *entity.TickRecord) error {
	if rec == nil {
		return nil
	}
	row, err := model.RecordToRow(rec)
	if err != nil {
		return errx.ErrJournal.WithData("op", OpAppend).WithData("tick", rec.Tick).WithCause(err)
	}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "tick"}},
		DoUpdates: clause.AssignmentColumns([]string{"commands", "admin", "digest"}),
	}).Create(&row).Error
	if err != nil {
		return errx.ErrJournal.WithData("op", OpAppend).WithData("tick", rec.Tick).WithCause(err)
	}
	return nil
}

const OpLoad = "repo.journal.Load"

func (r *JournalRepo) Load(ctx context.Context, sessionID string) ([]entity.TickRecord, error) {
	var rows []model.JournalRow
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("tick ASC").
		Find(&rows).Error
	if err != nil {
		return nil, errx.ErrJournal.WithData("op", OpLoad).WithData("session", sessionID).WithCause(err)
	}
	out := make([]entity.TickRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := model.RowToRecord(row)
		if err != nil {
			return nil, errx.ErrJournal.WithData("op", OpLoad).WithData("session", sessionID).WithCause(err)
		}
		out = append(out, rec)
	}
	return out, nil
}

const OpSaveSnapshot = "repo.journal.SaveSnapshot"

// SaveSnapshot 事务内比较版本，旧版本不覆盖新版本。
func (r *JournalRepo) SaveSnapshot(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	row, err := model.SnapshotToRow(s)
	if err != nil {
		return errx.ErrJournal.WithData("op", OpSaveSnapshot).WithCause(err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.SnapshotRow
		res := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_id = ?", row.SessionId).
			Limit(1).
			Find(&cur)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 && cur.Version >= row.Version {
			return nil
		}
		return tx.Save(&row).Error
	})
	if err != nil {
		return errx.ErrJournal.WithData("op", OpSaveSnapshot).WithData("version", s.Version).WithCause(err)
	}
	return nil
}
