package services

import (
	"context"
	"mime/multipart"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hmusa/medcatalog-backend/internal/apperr"
	"github.com/hmusa/medcatalog-backend/internal/models"
	"github.com/hmusa/medcatalog-backend/internal/repositories"
)

const (
	deviceImageFolder  = "devices"
	deviceListCacheKey = "devices:all"
)

// DeviceService owns device persistence plus the cross-cutting rules:
// reference lists are validated before any write, reads expand
// references and tolerate dangling ones, and the image lifecycle keeps
// at most one stored blob per device.
type DeviceService struct {
	devices       repositories.DeviceRepository
	manufacturers repositories.ManufacturerRepository
	distributors  repositories.DistributorRepository
	images        ImageStore
	cache         *CacheService
}

func NewDeviceService(
	devices repositories.DeviceRepository,
	manufacturers repositories.ManufacturerRepository,
	distributors repositories.DistributorRepository,
	images ImageStore,
	cache *CacheService,
) *DeviceService {
	return &DeviceService{
		devices:       devices,
		manufacturers: manufacturers,
		distributors:  distributors,
		images:        images,
		cache:         cache,
	}
}

type CreateDeviceInput struct {
	Name                  string `validate:"required"`
	Model                 string `validate:"required"`
	Category              string `validate:"required"`
	Manufacturer          string `validate:"required"`
	Subcategory           string
	Description           string
	Price                 *float64
	WholesalePrice        *float64
	Distributors          []string
	IsRegulatorRegistered bool
}

func (s *DeviceService) Create(ctx context.Context, input CreateDeviceInput, imageFile *multipart.FileHeader) (*models.DeviceView, error) {
	if err := checkRequired(input); err != nil {
		return nil, err
	}

	manufacturerID, err := primitive.ObjectIDFromHex(input.Manufacturer)
	if err != nil {
		return nil, apperr.Validation("%q is not a valid manufacturer id", input.Manufacturer)
	}
	distributorIDs, err := parseObjectIDs(input.Distributors)
	if err != nil {
		return nil, err
	}

	// Upload before insert: a device must never point at an image that
	// was never stored.
	var image *models.Image
	if imageFile != nil {
		image, err = s.images.Upload(ctx, imageFile, deviceImageFolder)
		if err != nil {
			return nil, apperr.External(err, "image upload failed")
		}
	}

	device := &models.Device{
		Name:                  input.Name,
		Model:                 input.Model,
		Price:                 input.Price,
		WholesalePrice:        input.WholesalePrice,
		Description:           input.Description,
		Category:              input.Category,
		Subcategory:           input.Subcategory,
		Manufacturer:          manufacturerID,
		Distributors:          distributorIDs,
		IsRegulatorRegistered: input.IsRegulatorRegistered,
		Image:                 image,
	}

	if err := s.devices.Insert(ctx, device); err != nil {
		// The blob is orphaned if the insert fails; release it.
		cleanupImage(ctx, s.images, image, "device")
		return nil, err
	}

	s.cache.Delete(ctx, deviceListCacheKey)
	return s.expand(ctx, device)
}

func (s *DeviceService) GetByID(ctx context.Context, idHex string) (*models.DeviceView, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("device not found")
	}

	device, err := s.devices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, device)
}

func (s *DeviceService) List(ctx context.Context, filter models.DeviceFilter) ([]models.DeviceView, error) {
	unfiltered := filter == (models.DeviceFilter{})
	if unfiltered {
		var cached []models.DeviceView
		if s.cache.Get(ctx, deviceListCacheKey, &cached) {
			return cached, nil
		}
	}

	devices, err := s.devices.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	views, err := s.expandAll(ctx, devices)
	if err != nil {
		return nil, err
	}

	if unfiltered {
		s.cache.Set(ctx, deviceListCacheKey, views)
	}
	return views, nil
}

func (s *DeviceService) Update(ctx context.Context, idHex string, patch models.DevicePatch, imageFile *multipart.FileHeader) (*models.DeviceView, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("device not found")
	}

	// Fetch first: the old image locator is needed for cleanup after a
	// replacement upload succeeds.
	existing, err := s.devices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set, err := deviceSetDoc(patch)
	if err != nil {
		return nil, err
	}

	var newImage *models.Image
	if imageFile != nil {
		newImage, err = s.images.Upload(ctx, imageFile, deviceImageFolder)
		if err != nil {
			return nil, apperr.External(err, "image upload failed")
		}
		set["image"] = newImage
	}

	updated, err := s.devices.UpdateByID(ctx, id, set)
	if err != nil {
		cleanupImage(ctx, s.images, newImage, "device")
		return nil, err
	}

	// The device now owns the new blob; release the old one exactly once.
	if newImage != nil {
		cleanupImage(ctx, s.images, existing.Image, "device")
	}

	s.cache.Delete(ctx, deviceListCacheKey)
	return s.expand(ctx, updated)
}

func (s *DeviceService) Delete(ctx context.Context, idHex string) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.NotFound("device not found")
	}

	existing, err := s.devices.FindByID(ctx, id)
	if err != nil {
		return err
	}

	cleanupImage(ctx, s.images, existing.Image, "device")

	if err := s.devices.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, deviceListCacheKey)
	return nil
}

// deviceSetDoc turns a patch into a $set document. Only fields present
// in the patch appear; omitted fields keep their stored values.
func deviceSetDoc(patch models.DevicePatch) (bson.M, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Model != nil {
		set["model"] = *patch.Model
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.WholesalePrice != nil {
		set["wholesale_price"] = *patch.WholesalePrice
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Subcategory != nil {
		set["subcategory"] = *patch.Subcategory
	}
	if patch.Manufacturer != nil {
		id, err := primitive.ObjectIDFromHex(*patch.Manufacturer)
		if err != nil {
			return nil, apperr.Validation("%q is not a valid manufacturer id", *patch.Manufacturer)
		}
		set["manufacturer"] = id
	}
	if patch.Distributors != nil {
		ids, err := parseObjectIDs(*patch.Distributors)
		if err != nil {
			return nil, err
		}
		set["distributors"] = ids
	}
	if patch.IsRegulatorRegistered != nil {
		set["is_regulator_registered"] = *patch.IsRegulatorRegistered
	}
	return set, nil
}

// expand resolves the device's references. A reference whose target no
// longer exists is left out of the view instead of failing the read.
func (s *DeviceService) expand(ctx context.Context, device *models.Device) (*models.DeviceView, error) {
	view := &models.DeviceView{Device: *device, DistributorDetails: []models.Distributor{}}

	manufacturer, err := s.manufacturers.FindByID(ctx, device.Manufacturer)
	if err == nil {
		view.ManufacturerDetail = manufacturer
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	if len(device.Distributors) > 0 {
		found, err := s.distributors.FindByIDs(ctx, device.Distributors)
		if err != nil {
			return nil, err
		}
		byID := make(map[primitive.ObjectID]models.Distributor, len(found))
		for _, d := range found {
			byID[d.ID] = d
		}
		for _, id := range device.Distributors {
			if d, ok := byID[id]; ok {
				view.DistributorDetails = append(view.DistributorDetails, d)
			}
		}
	}

	return view, nil
}

func (s *DeviceService) expandAll(ctx context.Context, devices []models.Device) ([]models.DeviceView, error) {
	manufacturerIDs := make([]primitive.ObjectID, 0, len(devices))
	distributorIDs := []primitive.ObjectID{}
	seenM := map[primitive.ObjectID]bool{}
	seenD := map[primitive.ObjectID]bool{}
	for _, device := range devices {
		if !seenM[device.Manufacturer] {
			seenM[device.Manufacturer] = true
			manufacturerIDs = append(manufacturerIDs, device.Manufacturer)
		}
		for _, id := range device.Distributors {
			if !seenD[id] {
				seenD[id] = true
				distributorIDs = append(distributorIDs, id)
			}
		}
	}

	manufacturers, err := s.manufacturers.FindByIDs(ctx, manufacturerIDs)
	if err != nil {
		return nil, err
	}
	distributors, err := s.distributors.FindByIDs(ctx, distributorIDs)
	if err != nil {
		return nil, err
	}

	manufacturersByID := make(map[primitive.ObjectID]models.Manufacturer, len(manufacturers))
	for _, m := range manufacturers {
		manufacturersByID[m.ID] = m
	}
	distributorsByID := make(map[primitive.ObjectID]models.Distributor, len(distributors))
	for _, d := range distributors {
		distributorsByID[d.ID] = d
	}

	views := make([]models.DeviceView, 0, len(devices))
	for _, device := range devices {
		view := models.DeviceView{Device: device, DistributorDetails: []models.Distributor{}}
		if m, ok := manufacturersByID[device.Manufacturer]; ok {
			manufacturer := m
			view.ManufacturerDetail = &manufacturer
		}
		for _, id := range device.Distributors {
			if d, ok := distributorsByID[id]; ok {
				view.DistributorDetails = append(view.DistributorDetails, d)
			}
		}
		views = append(views, view)
	}
	return views, nil
}
