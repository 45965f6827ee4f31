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

const manufacturerImageFolder = "manufacturers"

type ManufacturerService struct {
	manufacturers repositories.ManufacturerRepository
	distributors  repositories.DistributorRepository
	images        ImageStore
}

func NewManufacturerService(
	manufacturers repositories.ManufacturerRepository,
	distributors repositories.DistributorRepository,
	images ImageStore,
) *ManufacturerService {
	return &ManufacturerService{
		manufacturers: manufacturers,
		distributors:  distributors,
		images:        images,
	}
}

type CreateManufacturerInput struct {
	Name        string `validate:"required"`
	Country     string `validate:"required"`
	ContactName string `validate:"required"`
	Email       string
	Position    string
	Mobile      string
	Telephone   string
	Website     string
	Address     string
	Description string
	Distributors []string
	HasAgent    bool
}

func (s *ManufacturerService) Create(ctx context.Context, input CreateManufacturerInput, imageFile *multipart.FileHeader) (*models.ManufacturerView, error) {
	if err := checkRequired(input); err != nil {
		return nil, err
	}

	distributorIDs, err := parseObjectIDs(input.Distributors)
	if err != nil {
		return nil, err
	}

	var image *models.Image
	if imageFile != nil {
		image, err = s.images.Upload(ctx, imageFile, manufacturerImageFolder)
		if err != nil {
			return nil, apperr.External(err, "image upload failed")
		}
	}

	manufacturer := &models.Manufacturer{
		Name:         input.Name,
		Country:      input.Country,
		ContactName:  input.ContactName,
		Email:        input.Email,
		Position:     input.Position,
		Mobile:       input.Mobile,
		Telephone:    input.Telephone,
		Website:      input.Website,
		Address:      input.Address,
		Description:  input.Description,
		Distributors: distributorIDs,
		HasAgent:     input.HasAgent,
		Image:        image,
	}

	if err := s.manufacturers.Insert(ctx, manufacturer); err != nil {
		cleanupImage(ctx, s.images, image, "manufacturer")
		return nil, err
	}

	return s.expand(ctx, manufacturer)
}

func (s *ManufacturerService) GetByID(ctx context.Context, idHex string) (*models.ManufacturerView, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("manufacturer not found")
	}

	manufacturer, err := s.manufacturers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, manufacturer)
}

func (s *ManufacturerService) List(ctx context.Context, filter models.ManufacturerFilter) ([]models.ManufacturerView, error) {
	manufacturers, err := s.manufacturers.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]models.ManufacturerView, 0, len(manufacturers))
	for i := range manufacturers {
		view, err := s.expand(ctx, &manufacturers[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *ManufacturerService) Update(ctx context.Context, idHex string, patch models.ManufacturerPatch, imageFile *multipart.FileHeader) (*models.ManufacturerView, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("manufacturer not found")
	}

	existing, err := s.manufacturers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set, err := manufacturerSetDoc(patch)
	if err != nil {
		return nil, err
	}

	var newImage *models.Image
	if imageFile != nil {
		newImage, err = s.images.Upload(ctx, imageFile, manufacturerImageFolder)
		if err != nil {
			return nil, apperr.External(err, "image upload failed")
		}
		set["image"] = newImage
	}

	updated, err := s.manufacturers.UpdateByID(ctx, id, set)
	if err != nil {
		cleanupImage(ctx, s.images, newImage, "manufacturer")
		return nil, err
	}

	if newImage != nil {
		cleanupImage(ctx, s.images, existing.Image, "manufacturer")
	}

	return s.expand(ctx, updated)
}

// Delete removes the manufacturer and its image. Devices referencing it
// are left alone; their reads omit the dangling manufacturer detail.
func (s *ManufacturerService) Delete(ctx context.Context, idHex string) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.NotFound("manufacturer not found")
	}

	existing, err := s.manufacturers.FindByID(ctx, id)
	if err != nil {
		return err
	}

	cleanupImage(ctx, s.images, existing.Image, "manufacturer")

	return s.manufacturers.DeleteByID(ctx, id)
}

func manufacturerSetDoc(patch models.ManufacturerPatch) (bson.M, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Country != nil {
		set["country"] = *patch.Country
	}
	if patch.ContactName != nil {
		set["contact_name"] = *patch.ContactName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Position != nil {
		set["position"] = *patch.Position
	}
	if patch.Mobile != nil {
		set["mobile"] = *patch.Mobile
	}
	if patch.Telephone != nil {
		set["telephone"] = *patch.Telephone
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Distributors != nil {
		ids, err := parseObjectIDs(*patch.Distributors)
		if err != nil {
			return nil, err
		}
		set["distributors"] = ids
	}
	if patch.HasAgent != nil {
		set["has_agent"] = *patch.HasAgent
	}
	return set, nil
}

// expand resolves distributor references, omitting deleted ones while
// the stored id list stays untouched.
func (s *ManufacturerService) expand(ctx context.Context, manufacturer *models.Manufacturer) (*models.ManufacturerView, error) {
	view := &models.ManufacturerView{Manufacturer: *manufacturer, DistributorDetails: []models.Distributor{}}

	if len(manufacturer.Distributors) > 0 {
		found, err := s.distributors.FindByIDs(ctx, manufacturer.Distributors)
		if err != nil {
			return nil, err
		}
		byID := make(map[primitive.ObjectID]models.Distributor, len(found))
		for _, d := range found {
			byID[d.ID] = d
		}
		for _, id := range manufacturer.Distributors {
			if d, ok := byID[id]; ok {
				view.DistributorDetails = append(view.DistributorDetails, d)
			}
		}
	}

	return view, nil
}
