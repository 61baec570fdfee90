package service

import (
	"github.com/webmastershop/internal/models"
	"github.com/webmastershop/internal/repository"
)

// WishlistService 心愿单业务服务
type WishlistService struct {
	repo        repository.WishlistRepository
	productRepo repository.ProductRepository
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(repo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{repo: repo, productRepo: productRepo}
}

// List 当前用户的心愿单
func (s *WishlistService) List(userID uint) ([]models.WishlistItem, error) {
	return s.repo.ListByUser(userID)
}

// Add 加入心愿单（同一商品只能收藏一次）
func (s *WishlistService) Add(userID, productID uint) (*models.WishlistItem, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	exist, err := s.repo.Get(userID, productID)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrWishlistExists
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.repo.Create(item); err != nil {
		return nil, err
	}
	item.Product = product
	return item, nil
}

// Remove 从心愿单移除
func (s *WishlistService) Remove(userID, productID uint) error {
	affected, err := s.repo.Delete(userID, productID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrWishlistNotFound
	}
	return nil
}
