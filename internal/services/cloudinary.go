package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/hmusa/medcatalog-backend/internal/models"
)

// ImageStore is the external image hosting capability entity services
// depend on. Destroy is idempotent; callers treat its failure as
// non-fatal on cleanup paths.
type ImageStore interface {
	Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*models.Image, error)
	Destroy(ctx context.Context, publicID string) error
}

type CloudinaryService struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryService(cloudName, apiKey, apiSecret string) (*CloudinaryService, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryService{
		cld: cld,
	}, nil
}

// Upload stores the file under the given folder and returns both the
// delivery URL and the public ID so deletion never has to parse the URL.
func (s *CloudinaryService) Upload(ctx context.Context, fileHeader *multipart.FileHeader, folder string) (*models.Image, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	uploadResult, err := s.cld.Upload.Upload(ctx, fileBytes, uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return &models.Image{
		URL:      uploadResult.SecureURL,
		PublicID: uploadResult.PublicID,
	}, nil
}

// Destroy removes a previously uploaded image. Destroying an unknown
// public ID is not an error on Cloudinary's side.
func (s *CloudinaryService) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q", res.Result)
	}
	return nil
}

// cleanupImage releases an old blob after its owning entity moved on.
// Failure is logged and swallowed: the entity write already succeeded.
func cleanupImage(ctx context.Context, images ImageStore, image *models.Image, entity string) {
	if image == nil || image.PublicID == "" {
		return
	}
	if err := images.Destroy(ctx, image.PublicID); err != nil {
		log.Printf("Warning: %s image cleanup failed for %s: %v", entity, image.PublicID, err)
	}
}
