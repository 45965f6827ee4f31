// Package repositories owns persistence of one entity type per
// repository. Interfaces are consumed by the service layer; the mongo
// and postgres implementations live alongside them.
package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmusa/medcatalog-backend/internal/models"
)

type DeviceRepository interface {
	Insert(ctx context.Context, device *models.Device) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error)
	Find(ctx context.Context, filter models.DeviceFilter) ([]models.Device, error)
	UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Device, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}
