// Package storage persists catalogs to MongoDB. The document store is an
// optional collaborator: runs without MONGO_URI skip it entirely.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/models"
)

const (
	productsCollection = "products"
	storesCollection   = "stores"
)

// Store is an explicit handle to the catalog database; it is constructed
// per run and passed down, never held in a package-level client.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.SugaredLogger
}

// Connect dials MongoDB and pings it. A failure here is a fatal setup
// error for runs that requested persistence.
func Connect(ctx context.Context, uri, database string, log *zap.SugaredLogger) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Infow("connected to mongodb", "database", database)
	return &Store{
		client: client,
		db:     client.Database(database),
		log:    log,
	}, nil
}

// Close releases the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// SaveStore upserts the store document, keyed by source.
func (s *Store) SaveStore(ctx context.Context, info models.StoreInfo) error {
	_, err := s.db.Collection(storesCollection).UpdateOne(ctx,
		bson.M{"source": info.Source},
		bson.M{"$set": info},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save store %s: %w", info.Source, err)
	}
	return nil
}

// FindProduct looks up a previously persisted product.
func (s *Store) FindProduct(ctx context.Context, source, parentProductID string) (*models.Product, error) {
	var p models.Product
	err := s.db.Collection(productsCollection).FindOne(ctx, bson.M{
		"source":            source,
		"parent_product_id": parentProductID,
	}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", parentProductID, err)
	}
	return &p, nil
}

// SaveProduct upserts one product, keyed by source + parent id.
func (s *Store) SaveProduct(ctx context.Context, p models.Product) error {
	_, err := s.db.Collection(productsCollection).UpdateOne(ctx,
		bson.M{"source": p.Source, "parent_product_id": p.ParentProductID},
		bson.M{"$set": p},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to save product %s: %w", p.ParentProductID, err)
	}
	return nil
}

// SaveProducts persists a product list. A single failed document is
// logged and skipped so one bad record never aborts a multi-thousand
// product run; the number actually saved is returned.
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) int {
	saved := 0
	for _, p := range products {
		if err := s.SaveProduct(ctx, p); err != nil {
			s.log.Warnw("failed to persist product", "id", p.ParentProductID, "name", p.Name, "error", err)
			continue
		}
		saved++
	}
	return saved
}
