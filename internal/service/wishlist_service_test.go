package service

import (
	"errors"
	"testing"

	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newWishlistTestService(t *testing.T) (*WishlistService, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.WishlistItem{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	svc := NewWishlistService(repository.NewWishlistRepository(db), repository.NewProductRepository(db))
	return svc, db
}

func TestWishlistAddAndList(t *testing.T) {
	svc, db := newWishlistTestService(t)
	product := mustCreateCartProduct(t, db, "Desk Lamp", "desk-lamp", 35, 0, 5)

	item, err := svc.Add(9, product.ID)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if item.Product == nil || item.Product.ID != product.ID {
		t.Fatalf("add should return the product")
	}

	if _, err := svc.Add(9, product.ID); !errors.Is(err, ErrWishlistExists) {
		t.Fatalf("duplicate add want ErrWishlistExists got %v", err)
	}
	if _, err := svc.Add(9, 9999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("unknown product want ErrProductNotFound got %v", err)
	}

	items, err := svc.List(9)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("list want 1 item got %d", len(items))
	}

	// 其他用户的心愿单互不可见
	others, err := svc.List(10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("other user want empty list got %d", len(others))
	}
}

func TestWishlistRemove(t *testing.T) {
	svc, db := newWishlistTestService(t)
	product := mustCreateCartProduct(t, db, "Desk Lamp", "desk-lamp", 35, 0, 5)

	if _, err := svc.Add(9, product.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := svc.Remove(9, product.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := svc.Remove(9, product.ID); !errors.Is(err, ErrWishlistNotFound) {
		t.Fatalf("double remove want ErrWishlistNotFound got %v", err)
	}
}
