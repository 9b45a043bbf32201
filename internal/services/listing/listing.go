// Package services содержит бизнес-логику управления объявлениями:
// создание с проверкой лимита тарифа, обновление с проверкой владельца,
// удаление и выборки.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

var (
	// ErrNotFound объявление с указанным идентификатором не существует.
	ErrNotFound = errors.New("property not found")
	// ErrForbidden объявление принадлежит другому пользователю.
	ErrForbidden = errors.New("property owned by another user")
	// ErrPlanLimitExceeded достигнут лимит объявлений тарифа basic.
	ErrPlanLimitExceeded = errors.New("plan listing limit exceeded")
)

// PropertyRepository определяет методы для работы с объявлениями в хранилище.
type PropertyRepository interface {
	CreateProperty(ctx context.Context, property models.Property) error
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	UpdateProperty(ctx context.Context, property models.Property) error
	RemoveProperty(ctx context.Context, id string) error
	ListProperties(ctx context.Context) ([]models.Property, error)
	ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error)
	CountPropertiesByOwner(ctx context.Context, ownerID string) (int, error)
}

// ListingService реализует операции над объявлениями.
type ListingService struct {
	repo PropertyRepository
	log  *slog.Logger
}

// NewListingService создает новый экземпляр ListingService.
func NewListingService(repo PropertyRepository, log *slog.Logger) *ListingService {
	return &ListingService{
		repo: repo,
		log:  log,
	}
}

// Create создает объявление владельца ownerID с учётом его подписки.
//
// На тарифе basic действует лимит в три объявления. Флаг premium
// выставляется по тарифу подписки в момент создания и позже не
// пересчитывается, даже если владелец сменит тариф.
func (s *ListingService) Create(ctx context.Context, ownerID string, subscription *models.Subscription, req models.DummyProperty) (*models.Property, error) {
	if subscription.PlanID == models.PlanBasic {
		count, err := s.repo.CountPropertiesByOwner(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		if count >= models.BasicPlanListingLimit {
			return nil, ErrPlanLimitExceeded
		}
	}

	now := time.Now().UTC()
	property := models.Property{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Location:  req.Location,
		Price:     *req.Price,
		Type:      req.Type,
		Bedrooms:  req.Bedrooms,
		Bathrooms: req.Bathrooms,
		Guests:    req.Guests,
		Amenities: req.Amenities,
		Images:    req.Images,
		Instant:   req.Instant,
		Premium:   subscription.PlanID != models.PlanBasic,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if property.Type == "" {
		property.Type = models.PropertyTypeApartment
	}
	if property.Bedrooms == 0 {
		property.Bedrooms = 1
	}
	if property.Bathrooms == 0 {
		property.Bathrooms = 1
	}
	if property.Guests == 0 {
		property.Guests = 2
	}

	if err := s.repo.CreateProperty(ctx, property); err != nil {
		return nil, err
	}
	s.log.Info("property created",
		slog.String("property_id", property.ID), slog.String("owner_id", ownerID))
	return &property, nil
}

// Update применяет частичное обновление к объявлению владельца.
//
// Поля id и ownerId патчем не изменяются; updatedAt обновляется.
func (s *ListingService) Update(ctx context.Context, id, ownerID string, patch models.PropertyPatch) (*models.Property, error) {
	property, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if property.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	if patch.Title != nil {
		property.Title = *patch.Title
	}
	if patch.Location != nil {
		property.Location = *patch.Location
	}
	if patch.Price != nil {
		property.Price = *patch.Price
	}
	if patch.Type != nil {
		property.Type = *patch.Type
	}
	if patch.Bedrooms != nil {
		property.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		property.Bathrooms = *patch.Bathrooms
	}
	if patch.Guests != nil {
		property.Guests = *patch.Guests
	}
	if patch.Amenities != nil {
		property.Amenities = *patch.Amenities
	}
	if patch.Images != nil {
		property.Images = *patch.Images
	}
	if patch.Instant != nil {
		property.Instant = *patch.Instant
	}
	property.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProperty(ctx, *property); err != nil {
		return nil, err
	}
	s.log.Info("property updated", slog.String("property_id", id))
	return property, nil
}

// Remove удаляет объявление владельца.
func (s *ListingService) Remove(ctx context.Context, id, ownerID string) error {
	property, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if property.OwnerID != ownerID {
		return ErrForbidden
	}
	if err := s.repo.RemoveProperty(ctx, id); err != nil {
		return err
	}
	s.log.Info("property removed", slog.String("property_id", id))
	return nil
}

// ListMine возвращает все объявления владельца без пагинации.
func (s *ListingService) ListMine(ctx context.Context, ownerID string) ([]models.Property, error) {
	return s.repo.ListPropertiesByOwner(ctx, ownerID)
}

// List возвращает все объявления каталога.
func (s *ListingService) List(ctx context.Context) ([]models.Property, error) {
	return s.repo.ListProperties(ctx)
}

// Get возвращает объявление по идентификатору.
func (s *ListingService) Get(ctx context.Context, id string) (*models.Property, error) {
	property, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return property, nil
}
