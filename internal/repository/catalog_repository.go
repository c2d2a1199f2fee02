package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-browser/internal/catalog"
	"catalog-browser/internal/client"
	"catalog-browser/internal/models"
)

const (
	productsCollection   = "products"
	categoriesCollection = "categories"
)

// CatalogRepository is a MongoDB mirror of the catalog API. It serves the
// same reads as the API client.
type CatalogRepository struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		products:   db.Collection(productsCollection),
		categories: db.Collection(categoriesCollection),
	}
}

// FetchProducts returns every mirrored product ordered by id.
func (r *CatalogRepository) FetchProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.products.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find products")
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return products, nil
}

// FetchProductByID returns a single mirrored product.
func (r *CatalogRepository) FetchProductByID(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, client.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var product models.Product
	err := r.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, client.ErrNotFound
		}
		return nil, errors.Wrapf(err, "find product %d", id)
	}
	return &product, nil
}

// FetchCategories returns every mirrored category ordered by id.
func (r *CatalogRepository) FetchCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.categories.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "find categories")
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, errors.Wrap(err, "decode categories")
	}
	return categories, nil
}

// FetchCategoryNames returns the mirrored category names sorted ascending.
func (r *CatalogRepository) FetchCategoryNames(ctx context.Context) ([]string, error) {
	categories, err := r.FetchCategories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.CategoryNames(categories), nil
}

// ReplaceAll swaps the mirror contents for the given snapshot.
func (r *CatalogRepository) ReplaceAll(ctx context.Context, products []models.Product, categories []models.Category) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := replaceCollection(ctx, r.categories, toDocuments(categories)); err != nil {
		return errors.Wrap(err, "replace categories")
	}
	if err := replaceCollection(ctx, r.products, toDocuments(products)); err != nil {
		return errors.Wrap(err, "replace products")
	}
	return nil
}

func replaceCollection(ctx context.Context, coll *mongo.Collection, docs []interface{}) error {
	if _, err := coll.DeleteMany(ctx, bson.M{}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := coll.InsertMany(ctx, docs)
	return err
}

func toDocuments[T any](items []T) []interface{} {
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	return docs
}
