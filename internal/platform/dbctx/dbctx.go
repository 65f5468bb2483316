package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context is the unit of work handed to repositories and services. Tx is the
// transaction the current request runs in; when it is nil, repositories fall
// back to their base connection. Services never commit or roll back Tx
// themselves; the owner of the transaction does.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context, tx *gorm.DB) Context {
	return Context{Ctx: ctx, Tx: tx}
}
