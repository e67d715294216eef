package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Collection is one named durable record: a serialized list of jobs, public
// messages, private messages or users. The whole payload is rewritten on
// every mutation of the in-memory state it mirrors.
type Collection struct {
	Name      string `gorm:"primaryKey"`
	Payload   []byte
	UpdatedAt time.Time
}

type Collections struct {
	db *gorm.DB
}

func NewCollectionsRepository(db *gorm.DB) *Collections {
	return &Collections{db: db}
}

func (repo *Collections) Save(ctx context.Context, name string, data []byte) error {
	return repo.db.WithContext(ctx).Save(&Collection{
		Name:    name,
		Payload: data,
	}).Error
}

// Load returns nil data without an error when the record does not exist yet.
func (repo *Collections) Load(ctx context.Context, name string) ([]byte, error) {
	record := &Collection{}
	err := repo.db.WithContext(ctx).First(record, "name = ?", name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.Payload, nil
}

func (repo *Collections) Remove(ctx context.Context, name string) error {
	return repo.db.WithContext(ctx).Delete(&Collection{}, "name = ?", name).Error
}

func (repo *Collections) Sizes(ctx context.Context) (map[string]int, error) {
	var records []Collection
	if err := repo.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, err
	}

	sizes := make(map[string]int, len(records))
	for _, record := range records {
		sizes[record.Name] = len(record.Payload)
	}
	return sizes, nil
}

func (repo *Collections) Vacuum(ctx context.Context) error {
	return repo.db.WithContext(ctx).Exec("VACUUM").Error
}
