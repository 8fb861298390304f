package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/internal/domain/service"
	"farmily/pkg/errors"
	"farmily/pkg/logger"
)

const productImageFolder = "products"

type ProductUseCase struct {
	productRepo   repository.ProductRepository
	userRepo      repository.UserRepository
	files         service.FileUploadService
	maxImageBytes int64
	now           func() time.Time
}

// NewProductUseCase builds the marketplace use case. files may be nil, in
// which case images stay inline on the listing.
func NewProductUseCase(productRepo repository.ProductRepository, userRepo repository.UserRepository, files service.FileUploadService, maxImageBytes int64) *ProductUseCase {
	return &ProductUseCase{
		productRepo:   productRepo,
		userRepo:      userRepo,
		files:         files,
		maxImageBytes: maxImageBytes,
		now:           time.Now,
	}
}

type ProductInput struct {
	Name         string
	Description  string
	Price        float64
	Category     string
	Quantity     int
	Image        string
	Organic      bool
	Tags         []string
	FarmLocation entity.FarmLocation
	ContactInfo  entity.ContactInfo
}

// DecodeDataURL splits a "data:<type>;base64,<payload>" string.
func DecodeDataURL(raw string) (contentType string, data []byte, err error) {
	if !strings.HasPrefix(raw, "data:") {
		return "", nil, errors.BadRequest("Image is not a data URL", nil)
	}
	meta, payload, ok := strings.Cut(strings.TrimPrefix(raw, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, errors.BadRequest("Image must be base64 encoded", nil)
	}
	contentType = strings.TrimSuffix(meta, ";base64")
	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, errors.BadRequest("Only image uploads are allowed", nil)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.BadRequest("Image is not valid base64", err)
	}
	return contentType, data, nil
}

// storeImage moves an inline image to object storage when it is configured.
func (uc *ProductUseCase) storeImage(ctx context.Context, image string) (string, error) {
	if !strings.HasPrefix(image, "data:") {
		return image, nil
	}
	contentType, data, err := DecodeDataURL(image)
	if err != nil {
		return "", err
	}
	if uc.maxImageBytes > 0 && int64(len(data)) > uc.maxImageBytes {
		return "", errors.BadRequest("Image is too large", nil)
	}
	if uc.files == nil {
		return image, nil
	}
	url, err := uc.files.UploadFile(ctx, bytes.NewReader(data), contentType, productImageFolder)
	if err != nil {
		return "", errors.Internal("Failed to upload image", err)
	}
	return url, nil
}

func (uc *ProductUseCase) removeImage(ctx context.Context, url string) {
	if uc.files == nil || url == "" || !uc.files.OwnsURL(url) {
		return
	}
	if err := uc.files.DeleteFile(ctx, url); err != nil {
		logger.Warn("Failed to delete product image %s: %v", url, err)
	}
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.BadRequest("name is required", nil)
	}
	if in.Price <= 0 {
		return errors.BadRequest("price must be greater than zero", nil)
	}
	if in.Quantity < 0 {
		return errors.BadRequest("quantity cannot be negative", nil)
	}
	return nil
}

func (uc *ProductUseCase) Create(ctx context.Context, uid string, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	seller, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		logger.Warn("Seller profile %s unavailable: %v", uid, err)
		seller = nil
	}

	image, err := uc.storeImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Category:     in.Category,
		Quantity:     in.Quantity,
		Image:        image,
		Organic:      in.Organic,
		Tags:         in.Tags,
		SellerID:     uid,
		Status:       entity.ProductStatusAvailable,
		FarmLocation: in.FarmLocation,
		ContactInfo:  in.ContactInfo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	product.ApplySellerDefaults(seller)

	if err := uc.productRepo.Create(ctx, product); err != nil {
		uc.removeImage(ctx, image)
		return nil, err
	}
	return product, nil
}

func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

func (uc *ProductUseCase) List(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.List(ctx)
}

func (uc *ProductUseCase) ListMine(ctx context.Context, uid string) ([]*entity.Product, error) {
	return uc.productRepo.ListBySeller(ctx, uid)
}

func (uc *ProductUseCase) owned(ctx context.Context, uid, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(uid) {
		return nil, errors.Forbidden("Only the seller can change this listing", nil)
	}
	return product, nil
}

func (uc *ProductUseCase) Update(ctx context.Context, uid, id string, in ProductInput) (*entity.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	product, err := uc.owned(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	oldImage := product.Image
	if in.Image != "" && in.Image != oldImage {
		image, err := uc.storeImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		product.Image = image
	}

	product.Name = strings.TrimSpace(in.Name)
	product.Description = in.Description
	product.Price = in.Price
	product.Category = in.Category
	product.Quantity = in.Quantity
	product.Organic = in.Organic
	if in.Tags != nil {
		product.Tags = in.Tags
	}
	if in.FarmLocation != (entity.FarmLocation{}) {
		product.FarmLocation = in.FarmLocation
	}
	if in.ContactInfo != (entity.ContactInfo{}) {
		product.ContactInfo = in.ContactInfo
	}
	product.UpdatedAt = uc.now()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	if product.Image != oldImage {
		uc.removeImage(ctx, oldImage)
	}
	return product, nil
}

func (uc *ProductUseCase) Delete(ctx context.Context, uid, id string) error {
	product, err := uc.owned(ctx, uid, id)
	if err != nil {
		return err
	}
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.removeImage(ctx, product.Image)
	return nil
}

// ImageUploadURL issues a signed URL for uploading a listing image directly.
func (uc *ProductUseCase) ImageUploadURL(ctx context.Context, contentType string) (*service.SignedUpload, error) {
	if uc.files == nil {
		return nil, errors.New("STORAGE_DISABLED", "Image storage is not configured", http.StatusServiceUnavailable, nil)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, errors.BadRequest("Only image uploads are allowed", nil)
	}
	upload, err := uc.files.GenerateSignedUploadURL(ctx, contentType, productImageFolder)
	if err != nil {
		return nil, errors.Internal("Failed to create upload URL", err)
	}
	return upload, nil
}
