package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Item is the persisted form of a catalog listing. Optional spec columns
// are pointers so that an absent value stays NULL rather than zero.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID        string   `bun:",pk"`
	Brand     string   `bun:",notnull"`
	Category  string   `bun:",notnull"`
	Price     float64  `bun:",notnull"`
	RangeKm   *float64 `bun:",nullzero"`
	BatteryWh *float64 `bun:",nullzero"`
	WeightKg  *float64 `bun:",nullzero"`
	Colors    string   `bun:",nullzero"` // comma-separated, lowercase

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// User is a marketplace account with its coarse location.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       string `bun:",pk"`
	Name     string `bun:",nullzero"`
	City     string `bun:",nullzero"`
	Province string `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Preference stores a user's declared search preferences. List columns are
// comma-separated lowercase values, bounds stay NULL when unset.
type Preference struct {
	bun.BaseModel `bun:"table:preferences,alias:p"`

	UserID              string   `bun:",pk"`
	PreferredCategories string   `bun:",nullzero"`
	PreferredBrands     string   `bun:",nullzero"`
	PreferredColors     string   `bun:",nullzero"`
	MaxPrice            *float64 `bun:",nullzero"`
	MaxWeight           *float64 `bun:",nullzero"`
	MinRange            *float64 `bun:",nullzero"`

	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Favorite links a user to an item they marked.
type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:f"`

	UserID    string    `bun:",pk"`
	ItemID    string    `bun:",pk"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// ViewEvent is one catalog item view with a snapshot of the viewer's
// location, feeding the locality trend signal.
type ViewEvent struct {
	bun.BaseModel `bun:"table:view_events,alias:v"`

	ID       int64  `bun:",pk,autoincrement"`
	ItemID   string `bun:",notnull"`
	UserID   string `bun:",nullzero"`
	City     string `bun:",nullzero"`
	Province string `bun:",nullzero"`

	ViewedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// Activity is one entry of a user's recent activity stream.
type Activity struct {
	bun.BaseModel `bun:"table:activities,alias:a"`

	ID     int64  `bun:",pk,autoincrement"`
	UserID string `bun:",notnull"`
	Type   string `bun:",notnull"` // view, favorite, search
	ItemID string `bun:",nullzero"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
