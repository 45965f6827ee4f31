package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmusa/medcatalog-backend/internal/models"
)

type DistributorRepository interface {
	Insert(ctx context.Context, distributor *models.Distributor) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Distributor, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Distributor, error)
	Find(ctx context.Context, filter models.DistributorFilter) ([]models.Distributor, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Distributor, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}
