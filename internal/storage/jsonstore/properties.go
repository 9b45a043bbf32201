package jsonstore

import (
	"context"
	"fmt"

	"github.com/tarasovdg/rental-marketplace/internal/models"
	"github.com/tarasovdg/rental-marketplace/internal/storage"
)

// CreateProperty добавляет объявление в коллекцию.
func (s *Storage) CreateProperty(ctx context.Context, property models.Property) error {
	const op = "jsonstore.CreateProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionProperties)
	defer unlock()

	var properties []models.Property
	if err := s.readCollection(storage.CollectionProperties, &properties); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	properties = append(properties, property)
	if err := s.writeCollection(storage.CollectionProperties, properties); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProperty возвращает объявление по идентификатору.
func (s *Storage) GetProperty(ctx context.Context, id string) (*models.Property, error) {
	const op = "jsonstore.GetProperty"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionProperties)
	defer unlock()

	var properties []models.Property
	if err := s.readCollection(storage.CollectionProperties, &properties); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range properties {
		if properties[i].ID == id {
			return &properties[i], nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// UpdateProperty заменяет запись объявления с тем же идентификатором.
func (s *Storage) UpdateProperty(ctx context.Context, property models.Property) error {
	const op = "jsonstore.UpdateProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionProperties)
	defer unlock()

	var properties []models.Property
	if err := s.readCollection(storage.CollectionProperties, &properties); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i := range properties {
		if properties[i].ID == property.ID {
			properties[i] = property
			if err := s.writeCollection(storage.CollectionProperties, properties); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// RemoveProperty удаляет объявление из коллекции.
func (s *Storage) RemoveProperty(ctx context.Context, id string) error {
	const op = "jsonstore.RemoveProperty"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionProperties)
	defer unlock()

	var properties []models.Property
	if err := s.readCollection(storage.CollectionProperties, &properties); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i := range properties {
		if properties[i].ID == id {
			properties = append(properties[:i], properties[i+1:]...)
			if err := s.writeCollection(storage.CollectionProperties, properties); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
}

// ListProperties возвращает все объявления без пагинации.
func (s *Storage) ListProperties(ctx context.Context) ([]models.Property, error) {
	const op = "jsonstore.ListProperties"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionProperties)
	defer unlock()

	var properties []models.Property
	if err := s.readCollection(storage.CollectionProperties, &properties); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return properties, nil
}

// ListPropertiesByOwner возвращает объявления владельца.
func (s *Storage) ListPropertiesByOwner(ctx context.Context, ownerID string) ([]models.Property, error) {
	const op = "jsonstore.ListPropertiesByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	unlock := s.lock(storage.CollectionProperties)
	defer unlock()

	var properties []models.Property
	if err := s.readCollection(storage.CollectionProperties, &properties); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []models.Property
	for _, p := range properties {
		if p.OwnerID == ownerID {
			result = append(result, p)
		}
	}
	return result, nil
}

// CountPropertiesByOwner подсчитывает объявления владельца для проверки лимита тарифа.
func (s *Storage) CountPropertiesByOwner(ctx context.Context, ownerID string) (int, error) {
	const op = "jsonstore.CountPropertiesByOwner"
	properties, err := s.ListPropertiesByOwner(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return len(properties), nil
}
