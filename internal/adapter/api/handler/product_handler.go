package handler

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/domain/entity"
	"farmily/internal/usecase"
	"farmily/pkg/response"
)

type ProductHandler struct {
	productUseCase *usecase.ProductUseCase
}

func NewProductHandler(productUseCase *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
	}
}

type productRequest struct {
	Name         string              `json:"name" validate:"required,max=120"`
	Description  string              `json:"description"`
	Price        float64             `json:"price" validate:"required,gt=0"`
	Category     string              `json:"category"`
	Quantity     int                 `json:"quantity" validate:"gte=0"`
	Image        string              `json:"image"`
	Organic      bool                `json:"organic"`
	Tags         []string            `json:"tags"`
	FarmLocation entity.FarmLocation `json:"farm_location"`
	ContactInfo  entity.ContactInfo  `json:"contact_info"`
}

type uploadURLRequest struct {
	ContentType string `json:"content_type" validate:"required"`
}

func (h *ProductHandler) bind(c echo.Context) (usecase.ProductInput, error) {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return usecase.ProductInput{}, err
	}
	if err := c.Validate(&req); err != nil {
		return usecase.ProductInput{}, err
	}
	return usecase.ProductInput{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		Category:     req.Category,
		Quantity:     req.Quantity,
		Image:        req.Image,
		Organic:      req.Organic,
		Tags:         req.Tags,
		FarmLocation: req.FarmLocation,
		ContactInfo:  req.ContactInfo,
	}, nil
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	sellerID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	in, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Create(c.Request().Context(), sellerID, in)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, product)
}

func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productUseCase.List(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *ProductHandler) ListMyProducts(c echo.Context) error {
	sellerID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	products, err := h.productUseCase.ListMine(c.Request().Context(), sellerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.productUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	sellerID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	in, err := h.bind(c)
	if err != nil {
		return response.Error(c, err)
	}

	product, err := h.productUseCase.Update(c.Request().Context(), sellerID, c.Param("id"), in)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	sellerID, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.productUseCase.Delete(c.Request().Context(), sellerID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Product deleted successfully",
	})
}

func (h *ProductHandler) ImageUploadURL(c echo.Context) error {
	var req uploadURLRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	upload, err := h.productUseCase.ImageUploadURL(c.Request().Context(), req.ContentType)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, upload)
}
