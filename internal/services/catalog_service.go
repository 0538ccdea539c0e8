package services

import (
	"github.com/google/uuid"

	"storefront/internal/domain"
	"storefront/internal/repos"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

func (s *CatalogService) List(category string) ([]domain.Product, error) {
	return s.Prods.List(category)
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.Prods.Get(id)
}

type CreateProductRequest struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Price            string   `json:"price"`
	Image            string   `json:"image"`
	Categories       []string `json:"categories"`
	Brand            string   `json:"brand"`
	SKU              string   `json:"sku"`
	CurrentInventory *int     `json:"currentInventory"`
}

func (s *CatalogService) Create(req CreateProductRequest) (domain.Product, error) {
	if req.Name == "" || req.Description == "" || req.Price == "" || req.Image == "" ||
		len(req.Categories) == 0 || req.CurrentInventory == nil {
		return domain.Product{}, &ValidationError{Message: "Please provide all required fields"}
	}
	if *req.CurrentInventory < 0 {
		return domain.Product{}, &ValidationError{Message: "Inventory cannot be negative"}
	}

	p := domain.Product{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Description:      req.Description,
		Price:            req.Price,
		Image:            req.Image,
		Categories:       req.Categories,
		Brand:            req.Brand,
		SKU:              req.SKU,
		CurrentInventory: *req.CurrentInventory,
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return s.Prods.Get(p.ID)
}

type UpdateProductRequest struct {
	ID               string    `json:"id"`
	Name             *string   `json:"name"`
	Description      *string   `json:"description"`
	Price            *string   `json:"price"`
	Image            *string   `json:"image"`
	Categories       *[]string `json:"categories"`
	Brand            *string   `json:"brand"`
	CurrentInventory *int      `json:"currentInventory"`
}

// Update applies the provided fields only. Returns the refreshed product.
func (s *CatalogService) Update(req UpdateProductRequest) (domain.Product, error) {
	if req.ID == "" {
		return domain.Product{}, &ValidationError{Message: "Product ID is required"}
	}
	if req.CurrentInventory != nil && *req.CurrentInventory < 0 {
		return domain.Product{}, &ValidationError{Message: "Inventory cannot be negative"}
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}
	if req.Categories != nil {
		fields["categories_json"] = domain.EncodeCategories(*req.Categories)
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.CurrentInventory != nil {
		fields["currentInventory"] = *req.CurrentInventory
	}

	found, err := s.Prods.Update(req.ID, fields)
	if err != nil {
		return domain.Product{}, err
	}
	if !found {
		return domain.Product{}, &NotFoundError{Message: "Product not found"}
	}
	return s.Prods.Get(req.ID)
}

func (s *CatalogService) Delete(id string) error {
	if id == "" {
		return &ValidationError{Message: "Product ID is required"}
	}
	found, err := s.Prods.Delete(id)
	if err != nil {
		return err
	}
	if !found {
		return &NotFoundError{Message: "Product not found"}
	}
	return nil
}

// Categories derives the distinct category set from the catalog, preserving
// first-seen order.
func (s *CatalogService) Categories() ([]string, error) {
	products, err := s.Prods.List("")
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, p := range products {
		for _, c := range p.Categories {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Seed inserts the default catalog when the product table is empty and
// reports how many products were added.
func (s *CatalogService) Seed() (int, error) {
	n, err := s.Prods.Count()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	catalog := repos.DefaultCatalog()
	if err := s.Prods.InsertMany(catalog); err != nil {
		return 0, err
	}
	return len(catalog), nil
}
