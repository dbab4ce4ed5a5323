// Package db
package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/M-QiiQ/TMU-AI-DAO/types"
)

const (
	cSubmissions = "Submissions"
)

type mongoDB struct {
	logger  *zap.Logger
	client  *mongo.Client
	wrapper *MgoWrapper
}

func newMongoDB(cfg Config) (*mongoDB, error) {
	ctx := context.Background()
	dbClient := &mongoDB{
		logger:  cfg.Logger.With(zap.String("db", "mgo")),
		wrapper: &MgoWrapper{},
	}
	mgoOptions := options.Client()
	mgoOptions.ApplyURI(cfg.URL)
	mgoOptions.SetMinPoolSize(uint64(cfg.MinConn))
	mgoOptions.SetMaxPoolSize(uint64(cfg.MaxConn))
	mgoClient, err := mongo.NewClient(mgoOptions)
	if err != nil {
		return nil, err
	}
	if err := mgoClient.Connect(ctx); err != nil {
		return nil, err
	}
	if err := mgoClient.Ping(ctx, nil); err != nil {
		_ = mgoClient.Disconnect(ctx)
		return nil, err
	}
	dbClient.client = mgoClient
	dbClient.wrapper.Database(mgoClient.Database(cfg.DbName))

	if cfg.FlushDB {
		cfg.Logger.Info("Start flush database")
		if err := dbClient.wrapper.DropDatabase(ctx); err != nil {
			_ = mgoClient.Disconnect(ctx)
			return nil, err
		}
	}
	if err := createIndexes(ctx, dbClient); err != nil {
		dbClient.logger.Warn("cannot create indexes", zap.Error(err))
	}

	return dbClient, nil
}

func createIndexes(ctx context.Context, dbClient *mongoDB) error {
	type CIndex struct {
		c     string
		model []mongo.IndexModel
	}

	indexes := []CIndex{
		{c: cSubmissions, model: []mongo.IndexModel{{Keys: bson.M{"createdAt": -1}}}},
		{c: cSubmissions, model: []mongo.IndexModel{{Keys: bson.M{"key": 1}, Options: options.Index().SetSparse(true)}}},
	}
	for _, cIdx := range indexes {
		if err := dbClient.wrapper.C(cIdx.c).EnsureIndex(ctx, cIdx.model); err != nil {
			return fmt.Errorf("index %s: %w", cIdx.c, err)
		}
	}
	return nil
}

func (m *mongoDB) Record(ctx context.Context, submission *types.Submission) error {
	if _, err := m.wrapper.C(cSubmissions).Insert(ctx, submission); err != nil {
		m.logger.Warn("cannot record submission", zap.String("key", submission.Key), zap.Error(err))
		return err
	}
	return nil
}

func (m *mongoDB) Submissions(ctx context.Context, pagination *types.Pagination) ([]*types.Submission, uint64, error) {
	opts := []*options.FindOptions{m.wrapper.FindSetSort("-createdAt")}
	if pagination != nil {
		opts = append(opts,
			options.Find().SetSkip(int64(pagination.Skip)),
			options.Find().SetLimit(int64(pagination.Limit)),
		)
	}
	cursor, err := m.wrapper.C(cSubmissions).Find(ctx, bson.M{}, opts...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get submissions: %v", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("Error when close cursor", zap.Error(err))
		}
	}()

	submissions := []*types.Submission{}
	for cursor.Next(ctx) {
		submission := &types.Submission{}
		if err := cursor.Decode(submission); err != nil {
			return nil, 0, err
		}
		submissions = append(submissions, submission)
	}
	total, err := m.wrapper.C(cSubmissions).Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return submissions, uint64(total), nil
}

func (m *mongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
