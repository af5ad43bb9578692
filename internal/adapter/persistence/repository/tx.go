package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"servihub/internal/usecase/interfaces"
)

type txKey struct{}

// GormTxManager runs callbacks inside a gorm transaction, carrying the tx
// handle through the context so repository calls join it transparently.
type GormTxManager struct {
	db *gorm.DB
}

var _ interfaces.ITxManager = (*GormTxManager)(nil)

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the ambient transaction when one is in the context, otherwise
// the base handle.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// withUpdateLock adds FOR UPDATE on backends that support row locks. SQLite
// (tests) serializes on the database lock instead, so the clause is skipped.
func withUpdateLock(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
