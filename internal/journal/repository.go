package journal

import (
	"trading-journal-go/internal/models"

	"gorm.io/gorm"
)

// Repository persists trade records. The table is append-only; nothing in
// the app edits or deletes a row once written.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Append(record *models.TradeRecord) error {
	return r.db.Create(record).Error
}

// All returns the full history in insertion order.
func (r *Repository) All() ([]models.TradeRecord, error) {
	var records []models.TradeRecord
	err := r.db.Order("id asc").Find(&records).Error
	return records, err
}

// RecentN returns the newest n records, newest first.
func (r *Repository) RecentN(n int) ([]models.TradeRecord, error) {
	var records []models.TradeRecord
	err := r.db.Order("id desc").Limit(n).Find(&records).Error
	return records, err
}

func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.TradeRecord{}).Count(&count).Error
	return count, err
}
