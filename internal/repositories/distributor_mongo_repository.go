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

const distributorCollection = "distributors"

type DistributorMongoRepository struct {
	db *mongo.Database
}

func NewDistributorMongoRepository(db *mongo.Database) *DistributorMongoRepository {
	return &DistributorMongoRepository{db: db}
}

func (r *DistributorMongoRepository) Insert(ctx context.Context, distributor *models.Distributor) error {
	if distributor.ID.IsZero() {
		distributor.ID = primitive.NewObjectID()
	}
	_, err := r.db.Collection(distributorCollection).InsertOne(ctx, distributor)
	return err
}

func (r *DistributorMongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Distributor, error) {
	var distributor models.Distributor
	err := r.db.Collection(distributorCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&distributor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("distributor not found")
		}
		return nil, err
	}
	return &distributor, nil
}

func (r *DistributorMongoRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Distributor, error) {
	if len(ids) == 0 {
		return []models.Distributor{}, nil
	}
	cursor, err := r.db.Collection(distributorCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	distributors := []models.Distributor{}
	if err := cursor.All(ctx, &distributors); err != nil {
		return nil, err
	}
	return distributors, nil
}

func distributorFilterQuery(filter models.DistributorFilter) bson.M {
	query := bson.M{}
	if filter.Country != "" {
		query["country"] = filter.Country
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": regexEscape(filter.Search), "$options": "i"}
	}
	return query
}

func (r *DistributorMongoRepository) Find(ctx context.Context, filter models.DistributorFilter) ([]models.Distributor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.db.Collection(distributorCollection).Find(ctx, distributorFilterQuery(filter), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	distributors := []models.Distributor{}
	if err := cursor.All(ctx, &distributors); err != nil {
		return nil, err
	}
	return distributors, nil
}

func (r *DistributorMongoRepository) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Distributor, error) {
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var distributor models.Distributor
	err := r.db.Collection(distributorCollection).
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).
		Decode(&distributor)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.NotFound("distributor not found")
		}
		return nil, err
	}
	return &distributor, nil
}

func (r *DistributorMongoRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.db.Collection(distributorCollection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("distributor not found")
	}
	return nil
}
