package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"sales_crm/internal/logger"
)

// MongoStore là implementation của Store trên MongoDB.
// Live subscription dùng change stream trên collection; mỗi event đọc lại
// toàn bộ tập records và giao cho handler (đồng nhất semantics với các backend khác).
//
// MongoDB không có nested collection nên path dạng "crm/data/leads" được map
// sang tên collection "crm_data_leads" — giữ nguyên layout logic của remote store.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore tạo MongoStore trên một database đã kết nối.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// coll map path sang collection MongoDB.
func (s *MongoStore) coll(path string) *mongo.Collection {
	name := strings.ReplaceAll(path, "/", "_")
	return s.db.Collection(name)
}

// Subscribe mở change stream trên collection và giao full set sau mỗi event.
func (s *MongoStore) Subscribe(ctx context.Context, path string, onChange ChangeHandler) (Unsubscribe, error) {
	coll := s.coll(path)

	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := coll.Watch(streamCtx, mongo.Pipeline{}, options.ChangeStream())
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	// Giao snapshot ban đầu trước khi lắng nghe thay đổi
	initial, err := s.GetAll(streamCtx, path)
	if err != nil {
		cancel()
		_ = stream.Close(context.Background())
		return nil, err
	}
	onChange(initial)

	go func() {
		defer func() { _ = stream.Close(context.Background()) }()
		log := logger.GetAppLogger()
		for stream.Next(streamCtx) {
			docs, err := s.GetAll(streamCtx, path)
			if err != nil {
				// Giữ nguyên trạng thái mirror trước đó, chỉ log
				log.WithError(err).WithField("path", path).Error("Lỗi đọc lại collection sau change stream event")
				continue
			}
			onChange(docs)
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			log.WithError(err).WithField("path", path).Error("Change stream kết thúc với lỗi")
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}

// GetAll đọc toàn bộ records của collection.
func (s *MongoStore) GetAll(ctx context.Context, path string) ([]Doc, error) {
	cursor, err := s.coll(path).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", path, err)
	}
	defer cursor.Close(ctx)

	var out []Doc
	for cursor.Next(ctx) {
		var doc Doc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		delete(doc, "_id")
		out = append(out, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor %s: %w", path, err)
	}
	return out, nil
}

// Put ghi đè record theo id (upsert, _id = id của entity).
func (s *MongoStore) Put(ctx context.Context, path string, id string, doc Doc) error {
	replacement := make(Doc, len(doc)+1)
	for k, v := range doc {
		replacement[k] = v
	}
	replacement["_id"] = id

	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll(path).ReplaceOne(ctx, bson.M{"_id": id}, replacement, opts); err != nil {
		return fmt.Errorf("put %s/%s: %w", path, id, err)
	}
	return nil
}

// Patch merge partial update vào record theo id qua $set.
func (s *MongoStore) Patch(ctx context.Context, path string, id string, patch Doc) error {
	opts := options.Update().SetUpsert(true)
	if _, err := s.coll(path).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": patch}, opts); err != nil {
		return fmt.Errorf("patch %s/%s: %w", path, id, err)
	}
	return nil
}

// Remove xóa record theo id.
func (s *MongoStore) Remove(ctx context.Context, path string, id string) error {
	if _, err := s.coll(path).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("remove %s/%s: %w", path, id, err)
	}
	return nil
}
