/*
 *  Copyright 2018 KardiaChain
 *  This file is part of the go-kardia library.
 *
 *  The go-kardia library is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU Lesser General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  The go-kardia library is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
 *  GNU Lesser General Public License for more details.
 *
 *  You should have received a copy of the GNU Lesser General Public License
 *  along with the go-kardia library. If not, see <http://www.gnu.org/licenses/>.
 */
// Package db
package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MgoWrapper struct {
	DB *mongo.Database
}

// Collection wraps one collection; C returns a fresh value so concurrent callers never share it.
type Collection struct {
	col *mongo.Collection
}

func (w *MgoWrapper) Database(db *mongo.Database) {
	w.DB = db
}

func (w *MgoWrapper) C(name string) Collection {
	return Collection{col: w.DB.Collection(name)}
}

func (c Collection) EnsureIndex(ctx context.Context, model []mongo.IndexModel) error {
	var err error
	opts := options.CreateIndexes().SetMaxTime(5 * time.Second)
	if len(model) == 1 {
		_, err = c.col.Indexes().CreateOne(ctx, model[0], opts)
	} else if len(model) > 1 {
		_, err = c.col.Indexes().CreateMany(ctx, model, opts)
	}
	return err
}

func (c Collection) Insert(ctx context.Context, document interface{},
	opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return c.col.InsertOne(ctx, document, opts...)
}

func (c Collection) Find(ctx context.Context, filter interface{},
	opts ...*options.FindOptions) (*mongo.Cursor, error) {
	return c.col.Find(ctx, filter, opts...)
}

func (c Collection) Count(ctx context.Context, filter interface{},
	opts ...*options.CountOptions) (int64, error) {
	return c.col.CountDocuments(ctx, filter, opts...)
}

func (w *MgoWrapper) FindSetSort(data string) *options.FindOptions {
	if data[0:1] == "-" {
		return options.Find().SetSort(bson.M{data[1:]: -1})
	}
	return options.Find().SetSort(bson.M{data: 1})
}

func (w *MgoWrapper) DropDatabase(ctx context.Context) error {
	if err := w.DB.Drop(ctx); err != nil {
		return err
	}
	return nil
}
