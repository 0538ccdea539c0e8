package handlers

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tealeg/xlsx"

	applog "storefront/internal/log"
	"storefront/internal/services"
	"storefront/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

// List serves the public catalog, newest first, optional ?category= filter.
func (h *ProductHandler) List(c *fiber.Ctx) error {
	category := strings.TrimSpace(c.Query("category"))
	products, err := h.Catalog.List(category)
	if err != nil {
		return failErr(c, err, "products.list", "Error fetching products")
	}
	return ok(c, fiber.StatusOK, fiber.Map{"products": products})
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, valid := validate.ID(c.Params("id"))
	if !valid {
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	p, err := h.Catalog.Get(id)
	if err == sql.ErrNoRows {
		return fail(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return failErr(c, err, "products.get", "Error fetching product")
	}
	return ok(c, fiber.StatusOK, fiber.Map{"product": p})
}

func (h *ProductHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.Categories()
	if err != nil {
		return failErr(c, err, "categories.list", "Error fetching categories")
	}
	return ok(c, fiber.StatusOK, fiber.Map{"categories": cats})
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req services.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Please provide all required fields")
	}
	p, err := h.Catalog.Create(req)
	if err != nil {
		return failErr(c, err, "products.create", "Error creating product")
	}
	applog.Audit(c, "products.create", map[string]any{"product_id": p.ID})
	return ok(c, fiber.StatusCreated, fiber.Map{
		"message": "Product created successfully",
		"product": p,
	})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var req services.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Product ID is required")
	}
	p, err := h.Catalog.Update(req)
	if err != nil {
		return failErr(c, err, "products.update", "Error updating product")
	}
	applog.Audit(c, "products.update", map[string]any{"product_id": p.ID})
	return ok(c, fiber.StatusOK, fiber.Map{
		"message": "Product updated successfully",
		"product": p,
	})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Product ID is required")
	}
	if err := h.Catalog.Delete(req.ID); err != nil {
		return failErr(c, err, "products.delete", "Error deleting product")
	}
	applog.Audit(c, "products.delete", map[string]any{"product_id": req.ID})
	return ok(c, fiber.StatusOK, fiber.Map{"message": "Product deleted successfully"})
}

// Seed populates an empty catalog with the default product set.
func (h *ProductHandler) Seed(c *fiber.Ctx) error {
	n, err := h.Catalog.Seed()
	if err != nil {
		return failErr(c, err, "products.seed", "Error seeding database")
	}
	if n == 0 {
		return ok(c, fiber.StatusOK, fiber.Map{"message": "Database already seeded"})
	}
	applog.Audit(c, "products.seed", map[string]any{"count": n})
	return ok(c, fiber.StatusOK, fiber.Map{
		"message": fmt.Sprintf("Seeded %d products successfully", n),
	})
}

// Export streams the catalog as an xlsx workbook.
func (h *ProductHandler) Export(c *fiber.Ctx) error {
	products, err := h.Catalog.List("")
	if err != nil {
		return failErr(c, err, "products.export", "Failed to fetch products")
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return failErr(c, err, "products.export", "Failed to create Excel sheet")
	}

	headers := []string{"ID", "Name", "Description", "Price", "Image", "Categories", "Brand", "SKU", "CurrentInventory", "CreatedAt"}
	headerRow := sheet.AddRow()
	for _, hd := range headers {
		headerRow.AddCell().SetValue(hd)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Price)
		row.AddCell().SetValue(p.Image)
		row.AddCell().SetValue(strings.Join(p.Categories, ","))
		row.AddCell().SetValue(p.Brand)
		row.AddCell().SetValue(p.SKU)
		row.AddCell().SetValue(p.CurrentInventory)
		row.AddCell().SetValue(p.CreatedAt)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename=products.xlsx`)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := file.Write(c.Response().BodyWriter()); err != nil {
		return failErr(c, err, "products.export", "Failed to write Excel file")
	}
	applog.Audit(c, "products.export", map[string]any{"count": len(products)})
	return nil
}
