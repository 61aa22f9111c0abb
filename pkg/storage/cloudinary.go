package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MediaStorage определяет операции с хранилищем медиа-файлов рекламы.
// Файл живёт в хранилище столько же, сколько его строка в таблице ads:
// удаление рекламы удаляет и файл.
type MediaStorage interface {
	// Upload загружает файл и возвращает публичный URL и public ID
	Upload(ctx context.Context, file io.Reader, publicID string, isVideo bool) (string, string, error)

	// Destroy удаляет файл по public ID
	Destroy(ctx context.Context, publicID string, isVideo bool) error
}

// CloudinaryStorage реализует MediaStorage поверх Cloudinary
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage создает новое подключение к Cloudinary
func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("cloudinary credentials (cloud name, api key, api secret) are required")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to init cloudinary: %w", err)
	}
	if folder == "" {
		folder = "rickshaw-ads"
	}
	return &CloudinaryStorage{cld: cld, folder: folder}, nil
}

// Upload загружает файл и возвращает (secure URL, public ID)
func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, publicID string, isVideo bool) (string, string, error) {
	resourceType := "image"
	if isVideo {
		resourceType = "video"
	}

	resp, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: resourceType,
		Overwrite:    api.Bool(false),
	})
	if err != nil {
		return "", "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, resp.PublicID, nil
}

// Destroy удаляет файл по public ID
func (s *CloudinaryStorage) Destroy(ctx context.Context, publicID string, isVideo bool) error {
	resourceType := "image"
	if isVideo {
		resourceType = "video"
	}

	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}
