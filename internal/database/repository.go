package database

import (
	"context"
	"errors"

	"github.com/velowise/velowise-api/internal/database/models"
	"github.com/velowise/velowise-api/internal/domain"
)

var (
	// ErrNotFound signals a missing row (unknown item or user).
	ErrNotFound = errors.New("record not found")
)

// CatalogRepository supplies the item catalog the engine scores against.
type CatalogRepository interface {
	ListItems(ctx context.Context) ([]domain.CatalogItem, error)
	GetItem(ctx context.Context, id string) (*domain.CatalogItem, error)
	UpsertItem(ctx context.Context, item *domain.CatalogItem) error
}

// UserRepository resolves user profiles and their declared preferences.
type UserRepository interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error)
}

// SocialRepository is the peer-affinity collaborator. Its definition of
// "similar" is its own business; the engine only consumes the ids.
type SocialRepository interface {
	FindSimilarUsers(ctx context.Context, userID string, cap int) ([]string, error)
	GetFavorites(ctx context.Context, userID string) ([]string, error)
}

// AnalyticsRepository is the view-count and activity feed.
type AnalyticsRepository interface {
	RecentViews(ctx context.Context, windowDays int) ([]domain.ViewEvent, error)
	RecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEvent, error)
	RecordView(ctx context.Context, itemID string, viewer domain.Location) error
}
