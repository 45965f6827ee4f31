package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
	"github.com/hmusa/medcatalog-backend/internal/models"
)

const deviceCollection = "devices"

type DeviceMongoRepository struct {
	db *mongo.Database
}

func NewDeviceMongoRepository(db *mongo.Database) *DeviceMongoRepository {
	return &DeviceMongoRepository{db: db}
}

func (r *DeviceMongoRepository) Insert(ctx context.Context, device *models.Device) error {
	if device.ID.IsZero() {
		device.ID = primitive.NewObjectID()
	}
	if device.Distributors == nil {
		device.Distributors = []primitive.ObjectID{}
	}
	_, err := r.db.Collection(deviceCollection).InsertOne(ctx, device)
	return err
}

func (r *DeviceMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error) {
	var device models.Device
	err := r.db.Collection(deviceCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("device not found")
		}
		return nil, err
	}
	return &device, nil
}

// deviceFilterQuery builds the list query: category and subcategory
// equality, case-insensitive substring match on name.
func deviceFilterQuery(filter models.DeviceFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Subcategory != "" {
		query["subcategory"] = filter.Subcategory
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": regexEscape(filter.Search), "$options": "i"}
	}
	return query
}

func (r *DeviceMongoRepository) Find(ctx context.Context, filter models.DeviceFilter) ([]models.Device, error) {
	// Sort by _id to keep insertion order stable.
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(deviceCollection).Find(ctx, deviceFilterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	devices := []models.Device{}
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *DeviceMongoRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Device, error) {
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var device models.Device
	err := r.db.Collection(deviceCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("device not found")
		}
		return nil, err
	}
	return &device, nil
}

func (r *DeviceMongoRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.Collection(deviceCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("device not found")
	}
	return nil
}
