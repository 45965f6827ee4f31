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

const distributorImageFolder = "distributors"

type DistributorService struct {
	distributors repositories.DistributorRepository
	images       ImageStore
}

func NewDistributorService(distributors repositories.DistributorRepository, images ImageStore) *DistributorService {
	return &DistributorService{distributors: distributors, images: images}
}

type CreateDistributorInput struct {
	Name        string `validate:"required"`
	ContactName string
	Country     string
	Email       string
	Phone       string
	Telephone   string
	Address     string
	Position    string
	Website     string
	Description string
	HasAgreement bool
}

func (s *DistributorService) Create(ctx context.Context, input CreateDistributorInput, imageFile *multipart.FileHeader) (*models.Distributor, error) {
	if err := checkRequired(input); err != nil {
		return nil, err
	}

	var image *models.Image
	var err error
	if imageFile != nil {
		image, err = s.images.Upload(ctx, imageFile, distributorImageFolder)
		if err != nil {
			return nil, apperr.External(err, "image upload failed")
		}
	}

	distributor := &models.Distributor{
		Name:         input.Name,
		ContactName:  input.ContactName,
		Country:      input.Country,
		Email:        input.Email,
		Phone:        input.Phone,
		Telephone:    input.Telephone,
		Address:      input.Address,
		Position:     input.Position,
		Website:      input.Website,
		Description:  input.Description,
		HasAgreement: input.HasAgreement,
		Image:        image,
	}

	if err := s.distributors.Insert(ctx, distributor); err != nil {
		cleanupImage(ctx, s.images, image, "distributor")
		return nil, err
	}

	return distributor, nil
}

func (s *DistributorService) GetByID(ctx context.Context, idHex string) (*models.Distributor, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("distributor not found")
	}
	return s.distributors.FindByID(ctx, id)
}

func (s *DistributorService) List(ctx context.Context, filter models.DistributorFilter) ([]models.Distributor, error) {
	return s.distributors.Find(ctx, filter)
}

func (s *DistributorService) Update(ctx context.Context, idHex string, patch models.DistributorPatch, imageFile *multipart.FileHeader) (*models.Distributor, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("distributor not found")
	}

	existing, err := s.distributors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := distributorSetDoc(patch)

	var newImage *models.Image
	if imageFile != nil {
		newImage, err = s.images.Upload(ctx, imageFile, distributorImageFolder)
		if err != nil {
			return nil, apperr.External(err, "image upload failed")
		}
		set["image"] = newImage
	}

	updated, err := s.distributors.UpdateByID(ctx, id, set)
	if err != nil {
		cleanupImage(ctx, s.images, newImage, "distributor")
		return nil, err
	}

	if newImage != nil {
		cleanupImage(ctx, s.images, existing.Image, "distributor")
	}

	return updated, nil
}

// Delete removes the distributor and its image. Manufacturer and device
// reference lists are not touched: the documented policy is no cascade,
// with reads tolerating the dangling id.
func (s *DistributorService) Delete(ctx context.Context, idHex string) error {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.NotFound("distributor not found")
	}

	existing, err := s.distributors.FindByID(ctx, id)
	if err != nil {
		return err
	}

	cleanupImage(ctx, s.images, existing.Image, "distributor")

	return s.distributors.DeleteByID(ctx, id)
}

func distributorSetDoc(patch models.DistributorPatch) bson.M {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.ContactName != nil {
		set["contact_name"] = *patch.ContactName
	}
	if patch.Country != nil {
		set["country"] = *patch.Country
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Telephone != nil {
		set["telephone"] = *patch.Telephone
	}
	if patch.Address != nil {
		set["address"] = *patch.Address
	}
	if patch.Position != nil {
		set["position"] = *patch.Position
	}
	if patch.Website != nil {
		set["website"] = *patch.Website
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.HasAgreement != nil {
		set["has_agreement"] = *patch.HasAgreement
	}
	return set
}
