// Package db
package db

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

type Adapter string

const (
	MGO  Adapter = "mgo"
	None Adapter = ""
)

type Config struct {
	DbAdapter Adapter
	DbName    string
	URL       string
	MinConn   int
	MaxConn   int
	FlushDB   bool

	Logger *zap.Logger
}

// Journal records submit attempts. It is never read back into dashboard state.
type Journal interface {
	Record(ctx context.Context, submission *types.Submission) error
	Submissions(ctx context.Context, pagination *types.Pagination) ([]*types.Submission, uint64, error)
	Close(ctx context.Context) error
}

func NewJournal(cfg Config) (Journal, error) {
	switch cfg.DbAdapter {
	case MGO:
		return newMongoDB(cfg)
	case None:
		return nopJournal{}, nil
	default:
		return nil, errors.New("invalid db config")
	}
}

type nopJournal struct{}

func (nopJournal) Record(context.Context, *types.Submission) error { return nil }

func (nopJournal) Submissions(context.Context, *types.Pagination) ([]*types.Submission, uint64, error) {
	return []*types.Submission{}, 0, nil
}

func (nopJournal) Close(context.Context) error { return nil }
