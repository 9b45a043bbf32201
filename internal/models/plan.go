package models

import "time"

// Plan описывает тариф подписки: цену, длительность и список возможностей.
// Списки возможностей — описательные метаданные, на сервере принудительно
// применяется только лимит объявлений тарифа basic.
type Plan struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Price    float64       `json:"price"`
	Duration time.Duration `json:"-"`
	Features []string      `json:"features"`
}

// Идентификаторы тарифов каталога.
const (
	PlanBasic      = "basic"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

// BasicPlanListingLimit максимальное количество объявлений на тарифе basic.
const BasicPlanListingLimit = 3

// PlanCatalog статический каталог тарифов. Не хранится в базе и не
// настраивается во время работы сервиса.
var PlanCatalog = map[string]Plan{
	PlanBasic: {
		ID:       PlanBasic,
		Name:     "Basic",
		Price:    9.99,
		Duration: 30 * 24 * time.Hour,
		Features: []string{"До 3 объявлений", "Стандартная поддержка"},
	},
	PlanPremium: {
		ID:       PlanPremium,
		Name:     "Premium",
		Price:    19.99,
		Duration: 30 * 24 * time.Hour,
		Features: []string{"Без лимита объявлений", "Отметка premium на объявлениях", "Приоритетная поддержка"},
	},
	PlanEnterprise: {
		ID:       PlanEnterprise,
		Name:     "Enterprise",
		Price:    49.99,
		Duration: 30 * 24 * time.Hour,
		Features: []string{"Без лимита объявлений", "Отметка premium на объявлениях", "Персональный менеджер"},
	},
}

// Plans возвращает тарифы каталога в стабильном порядке.
func Plans() []Plan {
	return []Plan{PlanCatalog[PlanBasic], PlanCatalog[PlanPremium], PlanCatalog[PlanEnterprise]}
}
