package bunstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/velowise/velowise-api/internal/database"
	"github.com/velowise/velowise-api/internal/database/models"
	"github.com/velowise/velowise-api/internal/domain"
)

// BunStore implements every repository interface over a single SQLite file.
type BunStore struct {
	db *bun.DB
}

// Open opens (or creates) the SQLite database at dsn and ensures the schema.
func Open(dsn string) (*BunStore, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	// WAL mode for better concurrency between the API and the scout worker.
	if _, err := sqldb.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := sqldb.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return New(sqldb)
}

// New wraps an already-open database handle and ensures the schema.
func New(sqldb *sql.DB) (*BunStore, error) {
	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	store := &BunStore{db: bunDB}

	ctx := context.Background()
	for _, model := range []any{
		(*models.Item)(nil),
		(*models.User)(nil),
		(*models.Preference)(nil),
		(*models.Favorite)(nil),
		(*models.ViewEvent)(nil),
		(*models.Activity)(nil),
	} {
		if _, err := bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to create table for %T: %w", model, err)
		}
	}

	return store, nil
}

func (s *BunStore) Close() error {
	return s.db.Close()
}

// CatalogRepository implementation

func (s *BunStore) ListItems(ctx context.Context) ([]domain.CatalogItem, error) {
	var rows []models.Item
	if err := s.db.NewSelect().Model(&rows).Order("created_at ASC", "id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	items := make([]domain.CatalogItem, 0, len(rows))
	for i := range rows {
		items = append(items, itemToDomain(&rows[i]))
	}
	return items, nil
}

func (s *BunStore) GetItem(ctx context.Context, id string) (*domain.CatalogItem, error) {
	row := new(models.Item)
	if err := s.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	item := itemToDomain(row)
	return &item, nil
}

func (s *BunStore) UpsertItem(ctx context.Context, item *domain.CatalogItem) error {
	row := itemToModel(item)
	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (id) DO UPDATE").
		Set("brand = EXCLUDED.brand").
		Set("category = EXCLUDED.category").
		Set("price = EXCLUDED.price").
		Set("range_km = EXCLUDED.range_km").
		Set("battery_wh = EXCLUDED.battery_wh").
		Set("weight_kg = EXCLUDED.weight_kg").
		Set("colors = EXCLUDED.colors").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return err
}

// UserRepository implementation

func (s *BunStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	user := new(models.User)
	if err := s.db.NewSelect().Model(user).Where("id = ?", id).Scan(ctx); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *BunStore) GetPreferences(ctx context.Context, userID string) (*domain.UserPreferences, error) {
	pref := new(models.Preference)
	if err := s.db.NewSelect().Model(pref).Where("user_id = ?", userID).Scan(ctx); err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &domain.UserPreferences{
		PreferredCategories: splitList(pref.PreferredCategories),
		PreferredBrands:     splitList(pref.PreferredBrands),
		PreferredColors:     splitList(pref.PreferredColors),
		MaxPrice:            pref.MaxPrice,
		MaxWeight:           pref.MaxWeight,
		MinRange:            pref.MinRange,
	}, nil
}

// SavePreferences upserts a user's declared preferences.
func (s *BunStore) SavePreferences(ctx context.Context, userID string, prefs *domain.UserPreferences) error {
	row := &models.Preference{
		UserID:              userID,
		PreferredCategories: joinList(prefs.PreferredCategories),
		PreferredBrands:     joinList(prefs.PreferredBrands),
		PreferredColors:     joinList(prefs.PreferredColors),
		MaxPrice:            prefs.MaxPrice,
		MaxWeight:           prefs.MaxWeight,
		MinRange:            prefs.MinRange,
	}
	_, err := s.db.NewInsert().Model(row).
		On("CONFLICT (user_id) DO UPDATE").
		Set("preferred_categories = EXCLUDED.preferred_categories").
		Set("preferred_brands = EXCLUDED.preferred_brands").
		Set("preferred_colors = EXCLUDED.preferred_colors").
		Set("max_price = EXCLUDED.max_price").
		Set("max_weight = EXCLUDED.max_weight").
		Set("min_range = EXCLUDED.min_range").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return err
}

// SocialRepository implementation

// FindSimilarUsers returns up to cap users that favorited at least one item
// in common with userID, most overlapping first. The engine treats the
// definition as a black box; this one is deliberately simple.
func (s *BunStore) FindSimilarUsers(ctx context.Context, userID string, cap int) ([]string, error) {
	if cap <= 0 {
		return nil, nil
	}
	var peers []string
	err := s.db.NewSelect().
		ColumnExpr("f2.user_id").
		TableExpr("favorites AS f1").
		Join("JOIN favorites AS f2 ON f2.item_id = f1.item_id AND f2.user_id != f1.user_id").
		Where("f1.user_id = ?", userID).
		GroupExpr("f2.user_id").
		OrderExpr("COUNT(*) DESC, f2.user_id ASC").
		Limit(cap).
		Scan(ctx, &peers)
	if err != nil {
		return nil, err
	}
	return peers, nil
}

func (s *BunStore) GetFavorites(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := s.db.NewSelect().
		Model((*models.Favorite)(nil)).
		Column("item_id").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AddFavorite marks an item for a user (idempotent).
func (s *BunStore) AddFavorite(ctx context.Context, userID, itemID string) error {
	_, err := s.db.NewInsert().
		Model(&models.Favorite{UserID: userID, ItemID: itemID}).
		On("CONFLICT (user_id, item_id) DO NOTHING").
		Exec(ctx)
	return err
}

// AnalyticsRepository implementation

func (s *BunStore) RecentViews(ctx context.Context, windowDays int) ([]domain.ViewEvent, error) {
	since := time.Now().AddDate(0, 0, -windowDays)
	var rows []models.ViewEvent
	if err := s.db.NewSelect().Model(&rows).Where("viewed_at >= ?", since).Order("viewed_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	views := make([]domain.ViewEvent, 0, len(rows))
	for _, r := range rows {
		views = append(views, domain.ViewEvent{
			ItemID:   r.ItemID,
			Location: domain.Location{City: r.City, Province: r.Province},
			At:       r.ViewedAt,
		})
	}
	return views, nil
}

func (s *BunStore) RecentActivity(ctx context.Context, userID string, limit int) ([]domain.ActivityEvent, error) {
	var rows []models.Activity
	q := s.db.NewSelect().Model(&rows).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	events := make([]domain.ActivityEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, domain.ActivityEvent{
			Type:   domain.ActivityType(r.Type),
			ItemID: r.ItemID,
			At:     r.CreatedAt,
		})
	}
	return events, nil
}

func (s *BunStore) RecordView(ctx context.Context, itemID string, viewer domain.Location) error {
	_, err := s.db.NewInsert().Model(&models.ViewEvent{
		ItemID:   itemID,
		City:     viewer.City,
		Province: viewer.Province,
		ViewedAt: time.Now(),
	}).Exec(ctx)
	return err
}

// SaveUser upserts a user profile.
func (s *BunStore) SaveUser(ctx context.Context, user *models.User) error {
	_, err := s.db.NewInsert().Model(user).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("city = EXCLUDED.city").
		Set("province = EXCLUDED.province").
		Exec(ctx)
	return err
}

// RecordActivity appends one activity event for a user.
func (s *BunStore) RecordActivity(ctx context.Context, userID string, typ domain.ActivityType, itemID string) error {
	_, err := s.db.NewInsert().Model(&models.Activity{
		UserID:    userID,
		Type:      string(typ),
		ItemID:    itemID,
		CreatedAt: time.Now(),
	}).Exec(ctx)
	return err
}

func itemToDomain(row *models.Item) domain.CatalogItem {
	return domain.CatalogItem{
		ID:        row.ID,
		Brand:     row.Brand,
		Category:  row.Category,
		Price:     row.Price,
		RangeKm:   row.RangeKm,
		BatteryWh: row.BatteryWh,
		WeightKg:  row.WeightKg,
		Colors:    splitList(row.Colors),
	}
}

func itemToModel(item *domain.CatalogItem) *models.Item {
	return &models.Item{
		ID:        item.ID,
		Brand:     item.Brand,
		Category:  item.Category,
		Price:     item.Price,
		RangeKm:   item.RangeKm,
		BatteryWh: item.BatteryWh,
		WeightKg:  item.WeightKg,
		Colors:    joinList(item.Colors),
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func joinList(values []string) string {
	return strings.Join(values, ",")
}
