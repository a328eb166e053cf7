package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDocumentNotFound = errors.New("document not found")

// Document is one whole JSON collection stored under a fixed key.
type Document struct {
	Key       string    `gorm:"column:doc_key;primaryKey"`
	Body      string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type DocumentDAO struct {
	db *gorm.DB
}

func NewDocumentDAO(db *gorm.DB) *DocumentDAO {
	return &DocumentDAO{
		db: db,
	}
}

func (d *DocumentDAO) Get(ctx context.Context, key string) ([]byte, error) {
	var doc Document

	result := d.db.WithContext(ctx).First(&doc, "doc_key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) || isUndefinedTable(result.Error) {
			return nil, ErrDocumentNotFound
		}

		return nil, result.Error
	}

	return []byte(doc.Body), nil
}

// Put overwrites the document stored under key.
func (d *DocumentDAO) Put(ctx context.Context, key string, body []byte) error {
	doc := Document{
		Key:       key,
		Body:      string(body),
		UpdatedAt: time.Now().UTC(),
	}

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc)

	return result.Error
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable
}
