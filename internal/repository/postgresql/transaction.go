package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/commission-payroll-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type txKey struct{}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// GetQuerier returns the transaction carried by ctx, or the pool when there is none.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

type transactorImpl struct {
	db     *database.DB
	logger *zap.Logger
}

func NewTransactor(db *database.DB, logger ...*zap.Logger) database.Transactor {
	l := zap.L().Named("postgresql.tx")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &transactorImpl{db: db, logger: l}
}

// WithinTx joins the caller's transaction when there already is one, so
// nested calls commit or roll back together with the outermost.
func (t *transactorImpl) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			t.rollback(ctx, tx, nil)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return t.rollback(ctx, tx, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// rollback returns cause, joined with the rollback failure if any.
func (t *transactorImpl) rollback(ctx context.Context, tx pgx.Tx, cause error) error {
	rbErr := tx.Rollback(ctx)
	if rbErr == nil || errors.Is(rbErr, pgx.ErrTxClosed) {
		return cause
	}
	t.logger.Error("rollback failed", zap.Error(rbErr), zap.NamedError("cause", cause))
	return errors.Join(cause, fmt.Errorf("rollback: %w", rbErr))
}
