package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
	"github.com/hmusa/medcatalog-backend/internal/models"
)

const manufacturerCollection = "manufacturers"

type ManufacturerMongoRepository struct {
	db *mongo.Database
}

func NewManufacturerMongoRepository(db *mongo.Database) *ManufacturerMongoRepository {
	return &ManufacturerMongoRepository{db: db}
}

func (r *ManufacturerMongoRepository) Insert(ctx context.Context, manufacturer *models.Manufacturer) error {
	if manufacturer.ID.IsZero() {
		manufacturer.ID = primitive.NewObjectID()
	}
	if manufacturer.Distributors == nil {
		manufacturer.Distributors = []primitive.ObjectID{}
	}
	now := time.Now()
	manufacturer.CreatedAt = now
	manufacturer.UpdatedAt = now

	_, err := r.db.Collection(manufacturerCollection).InsertOne(ctx, manufacturer)
	return err
}

func (r *ManufacturerMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	err := r.db.Collection(manufacturerCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&manufacturer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("manufacturer not found")
		}
		return nil, err
	}
	return &manufacturer, nil
}

func (r *ManufacturerMongoRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Manufacturer, error) {
	if len(ids) == 0 {
		return []models.Manufacturer{}, nil
	}
	cursor, err := r.db.Collection(manufacturerCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	manufacturers := []models.Manufacturer{}
	if err := cursor.All(ctx, &manufacturers); err != nil {
		return nil, err
	}
	return manufacturers, nil
}

func manufacturerFilterQuery(filter models.ManufacturerFilter) bson.M {
	query := bson.M{}
	if filter.Country != "" {
		query["country"] = filter.Country
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": regexEscape(filter.Search), "$options": "i"}
	}
	return query
}

func (r *ManufacturerMongoRepository) Find(ctx context.Context, filter models.ManufacturerFilter) ([]models.Manufacturer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(manufacturerCollection).Find(ctx, manufacturerFilterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	manufacturers := []models.Manufacturer{}
	if err := cursor.All(ctx, &manufacturers); err != nil {
		return nil, err
	}
	return manufacturers, nil
}

func (r *ManufacturerMongoRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Manufacturer, error) {
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	set["updated_at"] = time.Now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var manufacturer models.Manufacturer
	err := r.db.Collection(manufacturerCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&manufacturer)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("manufacturer not found")
		}
		return nil, err
	}
	return &manufacturer, nil
}

func (r *ManufacturerMongoRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.Collection(manufacturerCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("manufacturer not found")
	}
	return nil
}
