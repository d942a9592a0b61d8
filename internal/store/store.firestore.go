package store

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"sales_crm/internal/logger"
)

// FirestoreStore là implementation của Store trên Cloud Firestore.
// Layout nested của remote store map trực tiếp sang Firestore: path "crm/data/leads"
// là subcollection leads dưới document crm/data, các path một cấp là collection top-level.
// Live subscription dùng snapshot listener của Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore tạo FirestoreStore trên một client đã kết nối.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Subscribe lắng nghe snapshots của collection và giao full set sau mỗi thay đổi.
func (s *FirestoreStore) Subscribe(ctx context.Context, path string, onChange ChangeHandler) (Unsubscribe, error) {
	snapCtx, cancel := context.WithCancel(ctx)
	snapIter := s.client.Collection(path).Snapshots(snapCtx)

	go func() {
		defer snapIter.Stop()
		log := logger.GetAppLogger()
		for {
			snap, err := snapIter.Next()
			if err != nil {
				// Context cancelled là teardown bình thường; lỗi khác chỉ log,
				// trạng thái mirror trước đó được giữ nguyên
				if snapCtx.Err() == nil {
					log.WithError(err).WithField("path", path).Error("Snapshot listener kết thúc với lỗi")
				}
				return
			}
			out := make([]Doc, 0, snap.Size)
			iter := snap.Documents
			readErr := false
			for {
				d, err := iter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					// Giữ nguyên trạng thái mirror trước đó, chỉ log
					log.WithError(err).WithField("path", path).Error("Lỗi đọc document từ snapshot")
					readErr = true
					break
				}
				out = append(out, d.Data())
			}
			if !readErr {
				onChange(out)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}

// GetAll đọc toàn bộ records của collection.
func (s *FirestoreStore) GetAll(ctx context.Context, path string) ([]Doc, error) {
	iter := s.client.Collection(path).Documents(ctx)
	defer iter.Stop()

	var out []Doc
	for {
		d, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("getAll %s: %w", path, err)
		}
		out = append(out, d.Data())
	}
	return out, nil
}

// Put ghi đè toàn bộ record theo id.
func (s *FirestoreStore) Put(ctx context.Context, path string, id string, doc Doc) error {
	if _, err := s.client.Collection(path).Doc(id).Set(ctx, doc); err != nil {
		return fmt.Errorf("put %s/%s: %w", path, id, err)
	}
	return nil
}

// Patch merge partial update vào record theo id.
func (s *FirestoreStore) Patch(ctx context.Context, path string, id string, patch Doc) error {
	if _, err := s.client.Collection(path).Doc(id).Set(ctx, patch, firestore.MergeAll); err != nil {
		return fmt.Errorf("patch %s/%s: %w", path, id, err)
	}
	return nil
}

// Remove xóa record theo id.
func (s *FirestoreStore) Remove(ctx context.Context, path string, id string) error {
	if _, err := s.client.Collection(path).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("remove %s/%s: %w", path, id, err)
	}
	return nil
}
