package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogsvcs "github.com/ghuser/possystem/services/catalog/application/services"
	identitysvcs "github.com/ghuser/possystem/services/identity/application/services"
	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	invmodels "github.com/ghuser/possystem/services/inventory/domain/models"
	ordersvcs "github.com/ghuser/possystem/services/order/application/services"
	ordermodels "github.com/ghuser/possystem/services/order/domain/models"
)

var errAlreadySeeded = errors.New("database already has raw materials; refusing to seed")

type seedUser struct {
	Email, Name, Password string
}

var (
	seedUsers = []seedUser{
		{"admin@pos.com", "Admin User", "admin123"},
		{"staff@pos.com", "Staff User", "staff123"},
	}
	seedMaterials  = []string{"Material Alpha", "Material Beta", "Material Gamma", "Material Delta", "Material Epsilon"}
	seedCategories = []string{"Category 1", "Category 2", "Category 3", "Category 4", "Category 5", "Other"}
	seedTemplates  = []struct {
		Name      string
		PriceBase int64
	}{
		{"Standard", 10},
		{"Premium", 25},
		{"Economy", 5},
	}
	seedPaymentMethods = []string{"Cash", "Credit Card"}
)

// seeder fills an empty database with demo data. Orders are skipped when
// placement is nil.
type seeder struct {
	materials  *invservices.MaterialService
	categories *catalogsvcs.CategoryService
	products   *catalogsvcs.ProductService
	users      *identitysvcs.AuthService
	placement  *ordersvcs.PlacementService
	out        io.Writer
	rng        *rand.Rand
}

type seedResult struct {
	Materials, Categories, Products, Users, Orders, FailedOrders int
}

func (s *seeder) run(ctx context.Context, orders int) (*seedResult, error) {
	existing, err := s.materials.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errAlreadySeeded
	}

	res := &seedResult{}
	var staff uuid.UUID
	for _, u := range seedUsers {
		created, err := s.users.CreateUser(ctx, u.Email, u.Name, u.Password)
		if err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		staff = created.ID
		res.Users++
	}
	fmt.Fprintf(s.out, "users: %d\n", res.Users)

	materialIDs := make([]uuid.UUID, len(seedMaterials))
	for i, name := range seedMaterials {
		unit := invmodels.UnitGram
		if i%2 == 1 {
			unit = invmodels.UnitPiece
		}
		m, err := s.materials.Create(ctx, invservices.CreateMaterialInput{
			Name:        name,
			Unit:        string(unit),
			StockQty:    decimal.NewFromInt(100000 + int64(i)*50000),
			MinAlertQty: decimal.NewFromInt(1000),
		})
		if err != nil {
			return nil, fmt.Errorf("seed material %s: %w", name, err)
		}
		materialIDs[i] = m.ID
		res.Materials++
	}
	fmt.Fprintf(s.out, "raw materials: %d\n", res.Materials)

	var productIDs []uuid.UUID
	for c, category := range seedCategories {
		if _, err := s.categories.Create(ctx, category, nil); err != nil {
			return nil, fmt.Errorf("seed category %s: %w", category, err)
		}
		res.Categories++

		for i, tpl := range seedTemplates {
			n := int64(i + 1)
			p, err := s.products.Create(ctx, catalogsvcs.CreateProductInput{
				Name:     fmt.Sprintf("%s Item %d-%d", tpl.Name, c+1, n),
				Price:    decimal.NewFromInt(tpl.PriceBase).Add(decimal.NewFromFloat(2.5).Mul(decimal.NewFromInt(int64(i)))),
				Category: category,
				Recipe: []catalogsvcs.RecipeLine{
					{MaterialID: materialIDs[0].String(), Quantity: decimal.NewFromInt(10 * n)},
					{MaterialID: materialIDs[1].String(), Quantity: decimal.NewFromInt(5 * n)},
				},
			})
			if err != nil {
				return nil, fmt.Errorf("seed product: %w", err)
			}
			productIDs = append(productIDs, p.ID)
			res.Products++
		}
	}
	fmt.Fprintf(s.out, "categories: %d, products: %d\n", res.Categories, res.Products)

	if s.placement == nil || orders <= 0 {
		return res, nil
	}
	for i := range orders {
		cmd := s.randomOrder(staff, productIDs)
		if _, err := s.placement.PlaceOrder(ctx, cmd); err != nil {
			fmt.Fprintf(s.out, "order %d failed: %v\n", i+1, err)
			res.FailedOrders++
			continue
		}
		res.Orders++
	}
	fmt.Fprintf(s.out, "orders: %d placed, %d failed\n", res.Orders, res.FailedOrders)
	return res, nil
}

// randomOrder picks up to three distinct products with quantity 1 or 2.
func (s *seeder) randomOrder(operator uuid.UUID, products []uuid.UUID) ordermodels.PlaceOrderCommand {
	picked := s.rng.Perm(len(products))[:min(3, len(products))]
	items := make([]ordermodels.PlaceOrderLine, len(picked))
	for i, idx := range picked {
		items[i] = ordermodels.PlaceOrderLine{ProductID: products[idx], Quantity: 1 + s.rng.IntN(2)}
	}
	return ordermodels.PlaceOrderCommand{
		OperatorID:    operator,
		Type:          string(ordermodels.OrderTypes[s.rng.IntN(len(ordermodels.OrderTypes))]),
		PaymentMethod: seedPaymentMethods[s.rng.IntN(len(seedPaymentMethods))],
		Items:         items,
	}
}
