package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"Settlers/internal/world/entity"
	"Settlers/internal/world/infra/persistence/model"
)

const (
	defaultCollectionName = "journal"
	snapshotCollection    = "snapshot"
)

type JournalRepository struct {
	coll      *mongo.Collection
	snapshots *mongo.Collection
}

// NewJournalRepository collection 为空时使用默认集合名。
func NewJournalRepository(db *mongo.Database, collection string) *JournalRepository {
	if collection == "" {
		collection = defaultCollectionName
	}
	return &JournalRepository{
		coll:      db.Collection(collection),
		snapshots: db.Collection(snapshotCollection),
	}
}

// EnsureIndexes 建立按会话、tick 读取的索引。
func (r *JournalRepository) EnsureIndexes(ctx context.Context) error {
	if r == nil || r.coll == nil {
		return errors.New("mongodb journal collection is nil")
	}
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "session_id", Value: 1}, {Key: "tick", Value: 1}},
	})
	return err
}

func (r *JournalRepository) Append(ctx context.Context, rec *entity.TickRecord) error {
	if rec == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errors.New("mongodb journal collection is nil")
	}

	doc := model.RecordToDoc(rec)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *JournalRepository) Load(ctx context.Context, sessionID string) ([]entity.TickRecord, error) {
	if r == nil || r.coll == nil {
		return nil, errors.New("mongodb journal collection is nil")
	}

	cur, err := r.coll.Find(ctx,
		bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "tick", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []model.JournalDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]entity.TickRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := model.DocToRecord(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// SaveSnapshot 只在版本更新时覆盖。
func (r *JournalRepository) SaveSnapshot(ctx context.Context, s *entity.WorldPersistSnapshot) error {
	if s == nil {
		return nil
	}
	if r == nil || r.snapshots == nil {
		return errors.New("mongodb snapshot collection is nil")
	}

	doc, err := model.SnapshotToDoc(s)
	if err != nil {
		return err
	}
	_, err = r.snapshots.ReplaceOne(
		ctx,
		bson.M{"_id": doc.SessionID, "version": bson.M{"$lt": doc.Version}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// 已存在更新的版本
		return nil
	}
	return err
}
