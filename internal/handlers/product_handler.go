package handlers

import (
	"context"
	"fmt"
	"strconv"

	"productcatalog/internal/apperrors"
	"productcatalog/internal/config"
	"productcatalog/internal/models"
	"productcatalog/internal/services"
	"productcatalog/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgNoProducts      = "No products found."
	msgInvalidBody     = "Invalid request body"
	msgInvalidQuantity = "Invalid quantity"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	messages config.MessagesConfig
	log      *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, messages config.MessagesConfig, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		messages: messages,
		log:      log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Put("/add-to-stock/:id/:quantity", h.HandleAddToStock)
	productRoutes.Put("/decrement-stock/:id/:quantity", h.HandleDecrementStock)
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists every product. An empty catalog answers 404.
// @Summary Get all products
// @Description Get every product in the catalog
// @Tags products
// @Produce json
// @Success 200 {array} models.ProductResponse
// @Failure 404 {object} models.ProductResponse
// @Failure 500 {object} models.ProductResponse
// @Router /api/products [get]
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		return h.respondError(c, err, "get_all_products", 0)
	}
	if len(products) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(models.OutcomeResponse(true, msgNoProducts))
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
// @Summary Get product by ID
// @Description Get a specific product by its ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ProductResponse
// @Failure 404 {object} models.ProductResponse
// @Failure 500 {object} models.ProductResponse
// @Router /api/products/{id} [get]
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return respondBadRequest(c, "Invalid Product ID")
	}
	product, found, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "get_product", id)
	}
	if !found {
		return h.respondNotFound(c, id)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product with zero stock.
// @Summary Create a new product
// @Description Create a product; stock starts at zero
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.ProductRequest true "Product data"
// @Success 201 {object} models.ProductResponse
// @Header 201 {string} Location "URL of the created product"
// @Failure 400 {object} models.ProductResponse
// @Failure 500 {object} models.ProductResponse
// @Router /api/products [post]
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		logger.FromFiber(c, h.log).Debug("Error parsing request body", zap.Error(err))
		return respondBadRequest(c, msgInvalidBody)
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return h.respondError(c, err, "create_product", 0)
	}
	c.Location(fmt.Sprintf("/api/products/%d", *product.ProductID))
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to an existing product.
// @Summary Update a product
// @Description Apply the fields that differ from the stored product
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body models.ProductRequest true "Fields to change"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ProductResponse
// @Failure 404 {object} models.ProductResponse
// @Failure 500 {object} models.ProductResponse
// @Router /api/products/{id} [put]
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return respondBadRequest(c, "Invalid Product ID")
	}
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		logger.FromFiber(c, h.log).Debug("Error parsing request body", zap.Error(err))
		return respondBadRequest(c, msgInvalidBody)
	}

	product, found, err := h.service.UpdateProduct(c.UserContext(), id, req)
	if err != nil {
		return h.respondError(c, err, "update_product", id)
	}
	if !found {
		return h.respondNotFound(c, id)
	}
	return c.JSON(product)
}

// HandleDeleteProduct permanently removes a product.
// @Summary Delete a product
// @Description Permanently remove a product and return its last state
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ProductResponse
// @Failure 404 {object} models.ProductResponse
// @Failure 500 {object} models.ProductResponse
// @Router /api/products/{id} [delete]
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return respondBadRequest(c, "Invalid product ID.")
	}
	product, found, err := h.service.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return h.respondError(c, err, "delete_product", id)
	}
	if !found {
		return h.respondNotFound(c, id)
	}
	return c.JSON(product)
}

// HandleAddToStock raises the stock of a product.
// @Summary Add to stock
// @Description Increase the available stock of a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Param quantity path int true "Units to add"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ProductResponse
// @Failure 404 {object} models.ProductResponse
// @Failure 500 {object} models.ProductResponse
// @Router /api/products/add-to-stock/{id}/{quantity} [put]
func (h *ProductHandler) HandleAddToStock(c *fiber.Ctx) error {
	return h.handleStock(c, "add_to_stock", h.service.AddToStock)
}

// HandleDecrementStock lowers the stock of a product.
// @Summary Decrement stock
// @Description Decrease the available stock of a product
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Param quantity path int true "Units to remove"
// @Success 200 {object} models.ProductResponse
// @Failure 400 {object} models.ProductResponse
// @Failure 404 {object} models.ProductResponse
// @Failure 500 {object} models.ProductResponse
// @Router /api/products/decrement-stock/{id}/{quantity} [put]
func (h *ProductHandler) HandleDecrementStock(c *fiber.Ctx) error {
	return h.handleStock(c, "decrement_stock", h.service.DecrementStock)
}

// stockAdjustment is the shape shared by the service's stock operations.
type stockAdjustment func(ctx context.Context, id int64, quantity int) (models.ProductResponse, bool, error)

func (h *ProductHandler) handleStock(c *fiber.Ctx, operation string, adjust stockAdjustment) error {
	id, ok := parseID(c)
	if !ok {
		return respondBadRequest(c, "Invalid Id")
	}
	quantity, err := strconv.Atoi(c.Params("quantity"))
	if err != nil {
		return respondBadRequest(c, msgInvalidQuantity)
	}

	product, found, err := adjust(c.UserContext(), id, quantity)
	if err != nil {
		return h.respondError(c, err, operation, id)
	}
	if !found {
		return h.respondNotFound(c, id)
	}
	return c.JSON(product)
}

// respondError maps a service error onto a status code. Client errors carry
// their own message; anything else is logged and hidden behind the generic
// message.
func (h *ProductHandler) respondError(c *fiber.Ctx, err error, operation string, id int64) error {
	if apperrors.IsClient(err) {
		return respondBadRequest(c, apperrors.MessageOf(err, h.messages.Generic))
	}
	fields := []zap.Field{zap.String("operation", operation), zap.Error(err)}
	if id > 0 {
		fields = append(fields, zap.Int64("product_id", id))
	}
	logger.FromFiber(c, h.log).Error("Unexpected error handling product request", fields...)
	return c.Status(fiber.StatusInternalServerError).JSON(models.OutcomeResponse(false, h.messages.Generic))
}

func (h *ProductHandler) respondNotFound(c *fiber.Ctx, id int64) error {
	resp := models.OutcomeResponse(false, h.messages.ProductNotFound)
	resp.ProductID = &id
	return c.Status(fiber.StatusNotFound).JSON(resp)
}

func respondBadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.OutcomeResponse(false, message))
}

// parseID reads the :id path parameter. Non-numeric ids are rejected here;
// range checks are left to the service.
func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
