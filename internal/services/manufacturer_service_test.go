package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
	"github.com/hmusa/medcatalog-backend/internal/models"
)

func newManufacturerServiceForTest() (*ManufacturerService, *mockManufacturerRepo, *mockDistributorRepo, *mockImageStore) {
	manufacturers := new(mockManufacturerRepo)
	distributors := new(mockDistributorRepo)
	images := new(mockImageStore)
	svc := NewManufacturerService(manufacturers, distributors, images)
	return svc, manufacturers, distributors, images
}

func TestManufacturerCreateRequiresFields(t *testing.T) {
	svc, manufacturers, _, _ := newManufacturerServiceForTest()

	_, err := svc.Create(context.Background(), CreateManufacturerInput{Name: "Acme Medical"}, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	manufacturers.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestManufacturerGetOmitsDeletedDistributors(t *testing.T) {
	svc, manufacturers, distributors, _ := newManufacturerServiceForTest()

	id := primitive.NewObjectID()
	kept := primitive.NewObjectID()
	deleted := primitive.NewObjectID()
	manufacturer := &models.Manufacturer{
		ID:           id,
		Name:         "Acme Medical",
		Distributors: []primitive.ObjectID{kept, deleted},
	}

	manufacturers.On("FindByID", mock.Anything, id).Return(manufacturer, nil).Once()
	distributors.On("FindByIDs", mock.Anything, []primitive.ObjectID{kept, deleted}).
		Return([]models.Distributor{{ID: kept, Name: "MedSupply"}}, nil).Once()

	view, err := svc.GetByID(context.Background(), id.Hex())
	require.NoError(t, err)

	// The deleted distributor drops out of the expanded view, but the
	// stored id list keeps both entries.
	require.Len(t, view.DistributorDetails, 1)
	assert.Equal(t, kept, view.DistributorDetails[0].ID)
	assert.Equal(t, []primitive.ObjectID{kept, deleted}, view.Distributors)
}

func TestManufacturerSetDocOnlyIncludesPresentFields(t *testing.T) {
	country := "Germany"
	hasAgent := false
	set, err := manufacturerSetDoc(models.ManufacturerPatch{Country: &country, HasAgent: &hasAgent})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"country": "Germany", "has_agent": false}, set)
}

func TestManufacturerDeleteLeavesDevicesAlone(t *testing.T) {
	svc, manufacturers, _, images := newManufacturerServiceForTest()

	id := primitive.NewObjectID()
	manufacturers.On("FindByID", mock.Anything, id).
		Return(&models.Manufacturer{ID: id, Image: &models.Image{PublicID: "manufacturers/logo"}}, nil).Once()
	images.On("Destroy", mock.Anything, "manufacturers/logo").Return(nil).Once()
	manufacturers.On("DeleteByID", mock.Anything, id).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), id.Hex()))
	images.AssertExpectations(t)
	manufacturers.AssertExpectations(t)
}
