package services

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
	"github.com/hmusa/medcatalog-backend/internal/models"
)

type mockDeviceRepo struct {
	mock.Mock
}

func (m *mockDeviceRepo) Insert(ctx context.Context, device *models.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *mockDeviceRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Device), args.Error(1)
}

func (m *mockDeviceRepo) Find(ctx context.Context, filter models.DeviceFilter) ([]models.Device, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Device), args.Error(1)
}

func (m *mockDeviceRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Device, error) {
	args := m.Called(ctx, id, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Device), args.Error(1)
}

func (m *mockDeviceRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockManufacturerRepo struct {
	mock.Mock
}

func (m *mockManufacturerRepo) Insert(ctx context.Context, manufacturer *models.Manufacturer) error {
	args := m.Called(ctx, manufacturer)
	return args.Error(0)
}

func (m *mockManufacturerRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Manufacturer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Manufacturer, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) Find(ctx context.Context, filter models.ManufacturerFilter) ([]models.Manufacturer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Manufacturer, error) {
	args := m.Called(ctx, id, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Manufacturer), args.Error(1)
}

func (m *mockManufacturerRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockDistributorRepo struct {
	mock.Mock
}

func (m *mockDistributorRepo) Insert(ctx context.Context, distributor *models.Distributor) error {
	args := m.Called(ctx, distributor)
	return args.Error(0)
}

func (m *mockDistributorRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Distributor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Distributor), args.Error(1)
}

func (m *mockDistributorRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Distributor, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Distributor), args.Error(1)
}

func (m *mockDistributorRepo) Find(ctx context.Context, filter models.DistributorFilter) ([]models.Distributor, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Distributor), args.Error(1)
}

func (m *mockDistributorRepo) UpdateByID(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Distributor, error) {
	args := m.Called(ctx, id, set)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Distributor), args.Error(1)
}

func (m *mockDistributorRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*models.Image, error) {
	args := m.Called(ctx, fileHeader, folder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *mockImageStore) Destroy(ctx context.Context, publicID string) error {
	args := m.Called(ctx, publicID)
	return args.Error(0)
}

func newDeviceServiceForTest() (*DeviceService, *mockDeviceRepo, *mockManufacturerRepo, *mockDistributorRepo, *mockImageStore) {
	devices := new(mockDeviceRepo)
	manufacturers := new(mockManufacturerRepo)
	distributors := new(mockDistributorRepo)
	images := new(mockImageStore)
	svc := NewDeviceService(devices, manufacturers, distributors, images, nil)
	return svc, devices, manufacturers, distributors, images
}

func TestDeviceCreateRequiresFields(t *testing.T) {
	svc, devices, _, _, images := newDeviceServiceForTest()

	_, err := svc.Create(context.Background(), CreateDeviceInput{Name: "MRI Scanner"}, nil)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	devices.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeviceCreateRejectsMalformedDistributorID(t *testing.T) {
	svc, devices, _, _, images := newDeviceServiceForTest()

	input := CreateDeviceInput{
		Name:         "MRI Scanner",
		Model:        "MX-7",
		Category:     "Imaging",
		Manufacturer: primitive.NewObjectID().Hex(),
		Distributors: []string{"not-an-id"},
	}

	_, err := svc.Create(context.Background(), input, &multipart.FileHeader{Filename: "scan.jpg"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	// Malformed input fails before any write or upload.
	devices.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
	images.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeviceCreateUploadFailureAborts(t *testing.T) {
	svc, devices, _, _, images := newDeviceServiceForTest()

	images.On("Upload", mock.Anything, mock.Anything, "devices").
		Return(nil, errors.New("cloudinary unreachable")).Once()

	input := CreateDeviceInput{
		Name:         "MRI Scanner",
		Model:        "MX-7",
		Category:     "Imaging",
		Manufacturer: primitive.NewObjectID().Hex(),
	}

	_, err := svc.Create(context.Background(), input, &multipart.FileHeader{Filename: "scan.jpg"})
	assert.Equal(t, apperr.KindExternal, apperr.KindOf(err))

	devices.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestDeviceCreateExpandsReferences(t *testing.T) {
	svc, devices, manufacturers, distributors, _ := newDeviceServiceForTest()

	manufacturerID := primitive.NewObjectID()
	distributorID := primitive.NewObjectID()

	devices.On("Insert", mock.Anything, mock.AnythingOfType("*models.Device")).Return(nil).Once()
	manufacturers.On("FindByID", mock.Anything, manufacturerID).
		Return(&models.Manufacturer{ID: manufacturerID, Name: "Acme Medical"}, nil).Once()
	distributors.On("FindByIDs", mock.Anything, []primitive.ObjectID{distributorID}).
		Return([]models.Distributor{{ID: distributorID, Name: "MedSupply"}}, nil).Once()

	input := CreateDeviceInput{
		Name:         "MRI Scanner",
		Model:        "MX-7",
		Category:     "Imaging",
		Manufacturer: manufacturerID.Hex(),
		Distributors: []string{distributorID.Hex()},
	}

	view, err := svc.Create(context.Background(), input, nil)
	require.NoError(t, err)
	assert.Nil(t, view.Image)
	require.NotNil(t, view.ManufacturerDetail)
	assert.Equal(t, "Acme Medical", view.ManufacturerDetail.Name)
	require.Len(t, view.DistributorDetails, 1)
	assert.Equal(t, "MedSupply", view.DistributorDetails[0].Name)
}

func TestDeviceSetDocOnlyIncludesPresentFields(t *testing.T) {
	name := "Updated Scanner"
	set, err := deviceSetDoc(models.DevicePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"name": "Updated Scanner"}, set)

	price := 1999.0
	registered := true
	set, err = deviceSetDoc(models.DevicePatch{Price: &price, IsRegulatorRegistered: &registered})
	require.NoError(t, err)
	assert.Len(t, set, 2)
	assert.Equal(t, 1999.0, set["price"])
	assert.Equal(t, true, set["is_regulator_registered"])
}

func TestDeviceSetDocRejectsMalformedReferences(t *testing.T) {
	bad := "not-an-id"
	_, err := deviceSetDoc(models.DevicePatch{Manufacturer: &bad})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	badList := []string{"also-not-an-id"}
	_, err = deviceSetDoc(models.DevicePatch{Distributors: &badList})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDeviceUpdateReplacesImageOnce(t *testing.T) {
	svc, devices, manufacturers, _, images := newDeviceServiceForTest()

	id := primitive.NewObjectID()
	manufacturerID := primitive.NewObjectID()
	existing := &models.Device{
		ID:           id,
		Name:         "MRI Scanner",
		Manufacturer: manufacturerID,
		Image:        &models.Image{URL: "https://img/old.jpg", PublicID: "devices/old"},
	}
	newImage := &models.Image{URL: "https://img/new.jpg", PublicID: "devices/new"}
	updated := &models.Device{ID: id, Name: "MRI Scanner", Manufacturer: manufacturerID, Image: newImage}

	devices.On("FindByID", mock.Anything, id).Return(existing, nil).Once()
	images.On("Upload", mock.Anything, mock.Anything, "devices").Return(newImage, nil).Once()
	devices.On("UpdateByID", mock.Anything, id, mock.MatchedBy(func(set bson.M) bool {
		img, ok := set["image"].(*models.Image)
		return ok && img.PublicID == "devices/new"
	})).Return(updated, nil).Once()
	images.On("Destroy", mock.Anything, "devices/old").Return(nil).Once()
	manufacturers.On("FindByID", mock.Anything, manufacturerID).
		Return(nil, apperr.NotFound("manufacturer not found")).Once()

	view, err := svc.Update(context.Background(), id.Hex(), models.DevicePatch{}, &multipart.FileHeader{Filename: "new.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "devices/new", view.Image.PublicID)

	images.AssertNumberOfCalls(t, "Destroy", 1)
}

func TestDeviceUpdateCleanupFailureIsSwallowed(t *testing.T) {
	svc, devices, manufacturers, _, images := newDeviceServiceForTest()

	id := primitive.NewObjectID()
	manufacturerID := primitive.NewObjectID()
	existing := &models.Device{ID: id, Manufacturer: manufacturerID, Image: &models.Image{PublicID: "devices/old"}}
	newImage := &models.Image{URL: "https://img/new.jpg", PublicID: "devices/new"}
	updated := &models.Device{ID: id, Manufacturer: manufacturerID, Image: newImage}

	devices.On("FindByID", mock.Anything, id).Return(existing, nil).Once()
	images.On("Upload", mock.Anything, mock.Anything, "devices").Return(newImage, nil).Once()
	devices.On("UpdateByID", mock.Anything, id, mock.Anything).Return(updated, nil).Once()
	images.On("Destroy", mock.Anything, "devices/old").Return(errors.New("cloudinary down")).Once()
	manufacturers.On("FindByID", mock.Anything, manufacturerID).
		Return(nil, apperr.NotFound("manufacturer not found")).Once()

	// The entity write already succeeded; a failed cleanup must not
	// surface to the caller.
	view, err := svc.Update(context.Background(), id.Hex(), models.DevicePatch{}, &multipart.FileHeader{Filename: "new.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "devices/new", view.Image.PublicID)
}

func TestDeviceGetToleratesDanglingReferences(t *testing.T) {
	svc, devices, manufacturers, distributors, _ := newDeviceServiceForTest()

	id := primitive.NewObjectID()
	goneManufacturer := primitive.NewObjectID()
	goneDistributor := primitive.NewObjectID()
	device := &models.Device{
		ID:           id,
		Name:         "MRI Scanner",
		Manufacturer: goneManufacturer,
		Distributors: []primitive.ObjectID{goneDistributor},
	}

	devices.On("FindByID", mock.Anything, id).Return(device, nil).Once()
	manufacturers.On("FindByID", mock.Anything, goneManufacturer).
		Return(nil, apperr.NotFound("manufacturer not found")).Once()
	distributors.On("FindByIDs", mock.Anything, []primitive.ObjectID{goneDistributor}).
		Return([]models.Distributor{}, nil).Once()

	view, err := svc.GetByID(context.Background(), id.Hex())
	require.NoError(t, err)
	assert.Nil(t, view.ManufacturerDetail)
	assert.Empty(t, view.DistributorDetails)
	// The stored reference itself is untouched.
	assert.Equal(t, []primitive.ObjectID{goneDistributor}, view.Distributors)
}

func TestDeviceDelete(t *testing.T) {
	svc, devices, _, _, images := newDeviceServiceForTest()

	id := primitive.NewObjectID()
	device := &models.Device{ID: id, Image: &models.Image{PublicID: "devices/img"}}

	devices.On("FindByID", mock.Anything, id).Return(device, nil).Once()
	images.On("Destroy", mock.Anything, "devices/img").Return(nil).Once()
	devices.On("DeleteByID", mock.Anything, id).Return(nil).Once()

	require.NoError(t, svc.Delete(context.Background(), id.Hex()))

	// A second delete finds nothing.
	devices.On("FindByID", mock.Anything, id).Return(nil, apperr.NotFound("device not found")).Once()
	err := svc.Delete(context.Background(), id.Hex())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	images.AssertNumberOfCalls(t, "Destroy", 1)
}

func TestDeviceDeleteMalformedID(t *testing.T) {
	svc, _, _, _, _ := newDeviceServiceForTest()

	err := svc.Delete(context.Background(), "nope")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
