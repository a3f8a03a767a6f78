package db

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"blog-api/config"
	"blog-api/internal/logger"
)

const CollectionPosts = "posts"

var (
	clientOnce sync.Once
	client     *mongo.Client
	db         *mongo.Database
)

// Init initializes the global Mongo client and database using config values.
func Init(ctx context.Context) error {
	var initErr error
	clientOnce.Do(func() {
		cl, d, err := Connect(ctx, config.GetConfig().Mongo)
		if err != nil {
			initErr = err
			return
		}
		client = cl
		db = d
		logger.Log.Infof("MongoDB connected and indexes ensured db=%s", d.Name())
	})
	return initErr
}

// Connect 는 전역 상태를 건드리지 않고 새 클라이언트를 연결한다.
// 테스트 하네스가 전용 데이터베이스를 열 때 사용한다.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo uri is empty")
	}
	if cfg.DBName == "" {
		return nil, nil, fmt.Errorf("mongo db name is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout())
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	// Ping to verify connection
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := cl.Database(cfg.DBName)
	if err := EnsureIndexes(ctx, d); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return cl, d, nil
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

// Close disconnects the global client, if any.
func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// Ping 은 헬스체크용으로 데이터베이스에 ping 명령을 보낸다.
func Ping(ctx context.Context, d *mongo.Database) error {
	return d.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// Drop 은 데이터베이스 전체를 삭제한다. 테스트 teardown 과 seed -drop 에서 사용한다.
func Drop(ctx context.Context, d *mongo.Database) error {
	if err := d.Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", d.Name(), err)
	}
	return nil
}

// EnsureIndexes creates the indexes every collection relies on.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	posts := d.Collection(CollectionPosts)

	// created desc: GET /posts 정렬
	if _, err := posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("idx_created_desc"),
	}); err != nil {
		return err
	}

	// source_link: importer 중복 방지. 링크가 없는 포스트는 인덱스에서 제외한다.
	if _, err := posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "source_link", Value: 1}},
		Options: options.Index().
			SetName("uniq_source_link").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"source_link": bson.M{"$type": "string"}}),
	}); err != nil {
		return err
	}
	return nil
}
