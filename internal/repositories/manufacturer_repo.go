package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmusa/medcatalog-backend/internal/models"
)

type ManufacturerRepository interface {
	Insert(ctx context.Context, manufacturer *models.Manufacturer) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Manufacturer, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Manufacturer, error)
	Find(ctx context.Context, filter models.ManufacturerFilter) ([]models.Manufacturer, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Manufacturer, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}
