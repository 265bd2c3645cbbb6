package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/nickagee13/pantry-path/internal/apperr"
	"github.com/nickagee13/pantry-path/internal/auth"
	"github.com/nickagee13/pantry-path/internal/models"
	"github.com/nickagee13/pantry-path/internal/store"
)

// groceryRecord is the persisted form of a grocery item.
type groceryRecord struct {
	ID        string `gorm:"primary_key"`
	UserID    string `gorm:"index"`
	StoreName string
	Name      string
	Quantity  string
	Checked   bool
	AddedBy   string
	CreatedAt time.Time
}

func (groceryRecord) TableName() string { return "grocery_items" }

// inventoryRecord is the persisted form of an inventory item.
type inventoryRecord struct {
	ID         string `gorm:"primary_key"`
	UserID     string `gorm:"index"`
	Name       string
	Category   string
	Emoji      string
	Quantity   float64
	Unit       string
	DaysLeft   int
	Percentage float64
	Location   string
	Details    models.StringSlice `gorm:"type:text"`
	CreatedAt  time.Time
}

func (inventoryRecord) TableName() string { return "inventory_items" }

// storeRecord is the persisted form of a store entry.
type storeRecord struct {
	UserID    string `gorm:"primary_key"`
	Name      string `gorm:"primary_key"`
	SortOrder int
}

func (storeRecord) TableName() string { return "stores" }

// recipeRecord is the persisted form of a recipe.
type recipeRecord struct {
	ID          string `gorm:"primary_key"`
	UserID      string `gorm:"index"`
	Title       string
	CuisineTags models.StringSlice `gorm:"type:text"`
	TimeMinutes int
	Difficulty  string
	Servings    int
	Ingredients models.StringSlice `gorm:"type:text"`
	Section     string
	CreatedAt   time.Time
}

func (recipeRecord) TableName() string { return "recipes" }

// DBClient implements the remote contract on a gorm database. Writes notify
// the change bus after they commit, mirroring a push channel from the
// authoritative store.
type DBClient struct {
	db  *gorm.DB
	bus *ChangeBus
}

// NewDBClient wraps a database in the remote contract.
func NewDBClient(db *gorm.DB) *Client {
	bus := NewChangeBus()
	c := &DBClient{db: db, bus: bus}
	return &Client{
		Grocery:   groceryClient{c},
		Inventory: inventoryClient{c},
		Stores:    storeClient{c},
		Recipes:   recipeClient{c},
		Changes:   bus,
	}
}

type groceryClient struct{ *DBClient }

func (c groceryClient) List(ctx context.Context, p auth.Principal) ([]models.GroceryItem, error) {
	var recs []groceryRecord
	if err := c.db.Where("user_id = ?", p.ID).Order("created_at").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}

	items := make([]models.GroceryItem, len(recs))
	for i, r := range recs {
		items[i] = models.GroceryItem{
			ID:        r.ID,
			Name:      r.Name,
			Quantity:  r.Quantity,
			Checked:   r.Checked,
			AddedBy:   r.AddedBy,
			Store:     r.StoreName,
			CreatedAt: r.CreatedAt,
		}
	}
	return items, nil
}

func (c groceryClient) Insert(ctx context.Context, p auth.Principal, item models.GroceryItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.Store == "" {
		item.Store = models.DefaultStore
	}
	rec := groceryRecord{
		ID:        item.ID,
		UserID:    p.ID,
		StoreName: item.Store,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Checked:   item.Checked,
		AddedBy:   item.AddedBy,
		CreatedAt: item.CreatedAt,
	}
	if err := c.db.Create(&rec).Error; err != nil {
		return "", fmt.Errorf("insert grocery item: %w", err)
	}
	c.bus.Notify(p.ID, store.CollectionGrocery)
	return rec.ID, nil
}

func (c groceryClient) Update(ctx context.Context, p auth.Principal, id string, patch store.GroceryPatch) error {
	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Checked != nil {
		updates["checked"] = *patch.Checked
	}
	if len(updates) == 0 {
		return nil
	}

	res := c.db.Model(&groceryRecord{}).
		Where("id = ? AND user_id = ?", id, p.ID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update grocery item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	c.bus.Notify(p.ID, store.CollectionGrocery)
	return nil
}

func (c groceryClient) Delete(ctx context.Context, p auth.Principal, id string) error {
	res := c.db.Where("id = ? AND user_id = ?", id, p.ID).Delete(&groceryRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete grocery item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	c.bus.Notify(p.ID, store.CollectionGrocery)
	return nil
}

type inventoryClient struct{ *DBClient }

func (c inventoryClient) List(ctx context.Context, p auth.Principal) ([]models.InventoryItem, error) {
	var recs []inventoryRecord
	if err := c.db.Where("user_id = ?", p.ID).Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}

	items := make([]models.InventoryItem, len(recs))
	for i, r := range recs {
		items[i] = models.InventoryItem{
			ID:         r.ID,
			Name:       r.Name,
			Category:   models.Category(r.Category),
			Emoji:      r.Emoji,
			Quantity:   r.Quantity,
			Unit:       r.Unit,
			DaysLeft:   r.DaysLeft,
			Percentage: r.Percentage,
			Location:   models.Location(r.Location),
			Details:    r.Details,
			CreatedAt:  r.CreatedAt,
		}
	}
	return items, nil
}

func (c inventoryClient) Insert(ctx context.Context, p auth.Principal, item models.InventoryItem) (string, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	rec := inventoryRecord{
		ID:         item.ID,
		UserID:     p.ID,
		Name:       item.Name,
		Category:   string(item.Category),
		Emoji:      item.Emoji,
		Quantity:   item.Quantity,
		Unit:       item.Unit,
		DaysLeft:   item.DaysLeft,
		Percentage: item.Percentage,
		Location:   string(item.Location),
		Details:    item.Details,
		CreatedAt:  item.CreatedAt,
	}
	if err := c.db.Create(&rec).Error; err != nil {
		return "", fmt.Errorf("insert inventory item: %w", err)
	}
	c.bus.Notify(p.ID, store.CollectionInventory)
	return rec.ID, nil
}

func (c inventoryClient) Update(ctx context.Context, p auth.Principal, id string, patch store.InventoryPatch) error {
	updates := map[string]interface{}{}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Percentage != nil {
		updates["percentage"] = *patch.Percentage
	}
	if patch.DaysLeft != nil {
		updates["days_left"] = *patch.DaysLeft
	}
	if patch.Location != nil {
		updates["location"] = string(*patch.Location)
	}
	if patch.Details != nil {
		updates["details"] = *patch.Details
	}
	if len(updates) == 0 {
		return nil
	}

	res := c.db.Model(&inventoryRecord{}).
		Where("id = ? AND user_id = ?", id, p.ID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update inventory item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	c.bus.Notify(p.ID, store.CollectionInventory)
	return nil
}

func (c inventoryClient) Delete(ctx context.Context, p auth.Principal, id string) error {
	res := c.db.Where("id = ? AND user_id = ?", id, p.ID).Delete(&inventoryRecord{})
	if res.Error != nil {
		return fmt.Errorf("delete inventory item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	c.bus.Notify(p.ID, store.CollectionInventory)
	return nil
}

type storeClient struct{ *DBClient }

func (c storeClient) List(ctx context.Context, p auth.Principal) ([]models.StoreEntry, error) {
	var recs []storeRecord
	if err := c.db.Where("user_id = ?", p.ID).Order("sort_order").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}

	entries := make([]models.StoreEntry, len(recs))
	for i, r := range recs {
		entries[i] = models.StoreEntry{Name: r.Name, SortOrder: r.SortOrder}
	}
	return entries, nil
}

func (c storeClient) Ensure(ctx context.Context, p auth.Principal, name string) error {
	var rec storeRecord
	err := c.db.Where("user_id = ? AND name = ?", p.ID, name).First(&rec).Error
	if err == nil {
		return nil
	}
	if !gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("lookup store: %w", err)
	}

	var count int
	if err := c.db.Model(&storeRecord{}).Where("user_id = ?", p.ID).Count(&count).Error; err != nil {
		return fmt.Errorf("count stores: %w", err)
	}
	rec = storeRecord{UserID: p.ID, Name: name, SortOrder: count + 1}
	if err := c.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	c.bus.Notify(p.ID, store.CollectionStores)
	return nil
}

// SetOrder replaces every sort position inside one transaction so readers
// never observe a partial permutation.
func (c storeClient) SetOrder(ctx context.Context, p auth.Principal, entries []models.StoreEntry) error {
	tx := c.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("begin reorder: %w", tx.Error)
	}

	for _, e := range entries {
		res := tx.Model(&storeRecord{}).
			Where("user_id = ? AND name = ?", p.ID, e.Name).
			Update("sort_order", e.SortOrder)
		if res.Error != nil {
			tx.Rollback()
			return fmt.Errorf("reorder store %q: %w", e.Name, res.Error)
		}
		if res.RowsAffected == 0 {
			rec := storeRecord{UserID: p.ID, Name: e.Name, SortOrder: e.SortOrder}
			if err := tx.Create(&rec).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("create store %q during reorder: %w", e.Name, err)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	c.bus.Notify(p.ID, store.CollectionStores)
	return nil
}

type recipeClient struct{ *DBClient }

func (c recipeClient) List(ctx context.Context, p auth.Principal) ([]models.Recipe, error) {
	var recs []recipeRecord
	if err := c.db.Where("user_id = ?", p.ID).Order("created_at desc").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	recipes := make([]models.Recipe, len(recs))
	for i, r := range recs {
		recipes[i] = models.Recipe{
			ID:          r.ID,
			Title:       r.Title,
			CuisineTags: r.CuisineTags,
			TimeMinutes: r.TimeMinutes,
			Difficulty:  r.Difficulty,
			Servings:    r.Servings,
			Ingredients: r.Ingredients,
			Section:     models.RecipeSection(r.Section),
		}
	}
	return recipes, nil
}

func (c recipeClient) Insert(ctx context.Context, p auth.Principal, recipe models.Recipe) (string, error) {
	if recipe.ID == "" {
		recipe.ID = uuid.NewString()
	}
	rec := recipeRecord{
		ID:          recipe.ID,
		UserID:      p.ID,
		Title:       recipe.Title,
		CuisineTags: recipe.CuisineTags,
		TimeMinutes: recipe.TimeMinutes,
		Difficulty:  recipe.Difficulty,
		Servings:    recipe.Servings,
		Ingredients: recipe.Ingredients,
		Section:     string(recipe.Section),
		CreatedAt:   time.Now(),
	}
	if err := c.db.Create(&rec).Error; err != nil {
		return "", fmt.Errorf("insert recipe: %w", err)
	}
	return rec.ID, nil
}
