// Package instrumented decorates stores with Prometheus timings so the
// handlers stay metrics-free.
package instrumented

import (
	"context"

	"github.com/Afzalsd/Ecom-SAAS/internal/domain/product"
	"github.com/Afzalsd/Ecom-SAAS/internal/domain/user"
	"github.com/Afzalsd/Ecom-SAAS/internal/observability"
)

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error)
}

type ProductStore interface {
	Create(ctx context.Context, userID string, req product.CreateProductRequest) (product.Product, error)
	GetByID(ctx context.Context, id string) (product.Product, error)
	List(ctx context.Context, filter product.ListFilter) ([]product.Product, int, error)
	Update(ctx context.Context, id string, req product.UpdateProductRequest) (product.Product, error)
	Delete(ctx context.Context, id string) error
}

type Users struct {
	next UserStore
	prom *observability.Prom
}

func NewUsers(next UserStore, prom *observability.Prom) *Users {
	return &Users{next: next, prom: prom}
}

func (r *Users) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User
	err := r.prom.ObserveDB("users.get_by_email", func() error {
		var err error
		u, err = r.next.GetByEmail(ctx, email)
		return err
	})
	return u, err
}

func (r *Users) GetByID(ctx context.Context, id string) (user.User, error) {
	var u user.User
	err := r.prom.ObserveDB("users.get_by_id", func() error {
		var err error
		u, err = r.next.GetByID(ctx, id)
		return err
	})
	return u, err
}

func (r *Users) Create(ctx context.Context, email, passwordHash, name, role string) (user.User, error) {
	var u user.User
	err := r.prom.ObserveDB("users.create", func() error {
		var err error
		u, err = r.next.Create(ctx, email, passwordHash, name, role)
		return err
	})
	return u, err
}

type Products struct {
	next ProductStore
	prom *observability.Prom
}

func NewProducts(next ProductStore, prom *observability.Prom) *Products {
	return &Products{next: next, prom: prom}
}

func (r *Products) Create(ctx context.Context, userID string, req product.CreateProductRequest) (product.Product, error) {
	var p product.Product
	err := r.prom.ObserveDB("products.create", func() error {
		var err error
		p, err = r.next.Create(ctx, userID, req)
		return err
	})
	return p, err
}

func (r *Products) GetByID(ctx context.Context, id string) (product.Product, error) {
	var p product.Product
	err := r.prom.ObserveDB("products.get_by_id", func() error {
		var err error
		p, err = r.next.GetByID(ctx, id)
		return err
	})
	return p, err
}

func (r *Products) List(ctx context.Context, filter product.ListFilter) ([]product.Product, int, error) {
	var (
		out   []product.Product
		total int
	)
	err := r.prom.ObserveDB("products.list", func() error {
		var err error
		out, total, err = r.next.List(ctx, filter)
		return err
	})
	return out, total, err
}

func (r *Products) Update(ctx context.Context, id string, req product.UpdateProductRequest) (product.Product, error) {
	var p product.Product
	err := r.prom.ObserveDB("products.update", func() error {
		var err error
		p, err = r.next.Update(ctx, id, req)
		return err
	})
	return p, err
}

func (r *Products) Delete(ctx context.Context, id string) error {
	return r.prom.ObserveDB("products.delete", func() error {
		return r.next.Delete(ctx, id)
	})
}
