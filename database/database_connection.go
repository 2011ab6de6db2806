package database

import (
	"context"
	"os"
	"sync"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/gearhub/gearhub-backend/logger"
)

var (
	dbClient *mongo.Client
	dialOnce sync.Once
)

// Client dials MongoDB on first use and reuses the connection afterwards.
func Client() *mongo.Client {
	dialOnce.Do(func() {
		serverAPI := options.ServerAPI(options.ServerAPIVersion1)
		uri := os.Getenv("MONGODB_URI")
		opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

		client, err := mongo.Connect(opts)
		if err != nil {
			logger.Get().Fatalw("mongo connect", "error", err)
		}
		if err := client.Ping(context.Background(), readpref.Primary()); err != nil {
			logger.Get().Fatalw("mongo ping", "error", err)
		}
		dbClient = client
	})
	return dbClient
}

func OpenCollection(collectionName string) *mongo.Collection {
	databaseName := os.Getenv("DATABASE_NAME")
	return Client().Database(databaseName).Collection(collectionName)
}

// EnsureIndexes creates the unique constraints the services rely on: the
// compound name+parentId key makes duplicate-category detection hold even
// when two writers race past the application-level existence check, and the
// email key does the same for users.
func EnsureIndexes(ctx context.Context) error {
	categories := OpenCollection("categories")
	_, err := categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "parentId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	users := OpenCollection("users")
	_, err = users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
