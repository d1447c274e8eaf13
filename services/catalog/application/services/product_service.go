package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogdomain "github.com/ghuser/possystem/services/catalog/domain"
	"github.com/ghuser/possystem/services/catalog/domain/models"
	"github.com/ghuser/possystem/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/possystem/services/catalog/domain/services"
)

const productImageFolder = "products"

// StockReader returns a fresh stock snapshot for the given materials.
// Materials that do not exist are absent from the map.
type StockReader interface {
	Stocks(ctx context.Context, materialIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// ImageStore uploads product images and returns their public URL.
type ImageStore interface {
	UploadImage(ctx context.Context, folder, contentType string, r io.Reader) (string, error)
}

// RecipeLine is an unvalidated recipe entry as submitted by a client.
type RecipeLine struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// ImageUpload is an image file attached to a create or update request.
type ImageUpload struct {
	ContentType string
	Body        io.Reader
}

type CreateProductInput struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Recipe   []RecipeLine
	IsActive *bool
	Image    *ImageUpload
}

// UpdateProductInput is a partial update. A non-nil Recipe replaces the
// whole recipe, including with an empty one.
type UpdateProductInput struct {
	Name     *string
	Price    *decimal.Decimal
	Category *string
	Recipe   *[]RecipeLine
	IsActive *bool
	Image    *ImageUpload
}

// ProductView is a product with availability computed from current stock.
type ProductView struct {
	*models.Product
	Availability int64
}

// ProductService manages products and computes their availability.
type ProductService struct {
	repo   repositories.ProductRepository
	stock  StockReader
	images ImageStore
}

// NewProductService wires the service. images may be nil, in which case
// requests carrying an image are rejected.
func NewProductService(repo repositories.ProductRepository, stock StockReader, images ImageStore) *ProductService {
	return &ProductService{repo: repo, stock: stock, images: images}
}

func (s *ProductService) Create(ctx context.Context, in CreateProductInput) (*ProductView, error) {
	recipe, err := s.parseRecipe(ctx, in.Recipe)
	if err != nil {
		return nil, err
	}

	imageURL := ""
	if in.Image != nil {
		if imageURL, err = s.upload(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	p, err := models.NewProduct(in.Name, in.Price, in.Category, imageURL, recipe, active)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	return s.view(ctx, p)
}

func (s *ProductService) Update(ctx context.Context, id uuid.UUID, in UpdateProductInput) (*ProductView, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = strings.TrimSpace(*in.Category)
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.Recipe != nil {
		if p.Recipe, err = s.parseRecipe(ctx, *in.Recipe); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
	}
	if in.Image != nil {
		if p.ImageURL, err = s.upload(ctx, in.Image); err != nil {
			return nil, err
		}
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.view(ctx, p)
}

// List returns products, optionally filtered by category, with availability
// computed from a single stock snapshot.
func (s *ProductService) List(ctx context.Context, category string) ([]*ProductView, error) {
	products, err := s.repo.List(ctx, repositories.ProductFilter{Category: category})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return s.views(ctx, products)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return s.view(ctx, p)
}

func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// FindByMaterial returns the active products whose recipe uses materialID.
func (s *ProductService) FindByMaterial(ctx context.Context, materialID uuid.UUID) ([]*models.Product, error) {
	products, err := s.repo.FindActiveByMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("find products by material: %w", err)
	}
	return products, nil
}

// DeactivateByMaterial takes every product using materialID off sale.
func (s *ProductService) DeactivateByMaterial(ctx context.Context, materialID uuid.UUID) (int64, error) {
	n, err := s.repo.DeactivateByMaterial(ctx, materialID)
	if err != nil {
		return 0, fmt.Errorf("deactivate products: %w", err)
	}
	return n, nil
}

// ResolveProducts loads many products with their recipes in one batch.
// Missing ids are absent from the result.
func (s *ProductService) ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	products, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}
	return products, nil
}

// parseRecipe drops lines without a material or with a non-positive
// quantity, merges repeated materials, then checks that every remaining
// material exists.
func (s *ProductService) parseRecipe(ctx context.Context, lines []RecipeLine) ([]models.RecipeItem, error) {
	recipe := make([]models.RecipeItem, 0, len(lines))
	pos := make(map[uuid.UUID]int, len(lines))
	for i, line := range lines {
		raw := strings.TrimSpace(line.MaterialID)
		if raw == "" || !line.Quantity.IsPositive() {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: recipe[%d]: invalid raw material id %q", catalogdomain.ErrInvalidProduct, i, raw)
		}
		if j, ok := pos[id]; ok {
			recipe[j].Quantity = recipe[j].Quantity.Add(line.Quantity)
			continue
		}
		pos[id] = len(recipe)
		recipe = append(recipe, models.RecipeItem{MaterialID: id, Quantity: line.Quantity})
	}
	if len(recipe) == 0 {
		return recipe, nil
	}

	ids := (&models.Product{Recipe: recipe}).MaterialIDs()
	stock, err := s.stock.Stocks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("verify recipe materials: %w", err)
	}
	var missing []uuid.UUID
	for _, id := range ids {
		if _, ok := stock[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return nil, &catalogdomain.UnknownMaterialsError{IDs: missing}
	}
	return recipe, nil
}

func (s *ProductService) upload(ctx context.Context, img *ImageUpload) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image upload is not configured", catalogdomain.ErrInvalidProduct)
	}
	url, err := s.images.UploadImage(ctx, productImageFolder, img.ContentType, img.Body)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return url, nil
}

func (s *ProductService) view(ctx context.Context, p *models.Product) (*ProductView, error) {
	views, err := s.views(ctx, []*models.Product{p})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *ProductService) views(ctx context.Context, products []*models.Product) ([]*ProductView, error) {
	var ids []uuid.UUID
	seen := make(map[uuid.UUID]struct{})
	for _, p := range products {
		for _, id := range p.MaterialIDs() {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}

	stock := map[uuid.UUID]decimal.Decimal{}
	if len(ids) > 0 {
		var err error
		if stock, err = s.stock.Stocks(ctx, ids); err != nil {
			return nil, fmt.Errorf("read stock: %w", err)
		}
	}

	out := make([]*ProductView, len(products))
	for i, p := range products {
		out[i] = &ProductView{Product: p, Availability: domainsvcs.Availability(p, stock)}
	}
	return out, nil
}
