package menu

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/foodheaven/storefront-backend/pkg/enums"
)

func cacheItem(name string, category enums.MenuCategory) ItemDTO {
	return ItemDTO{
		ID:          uuid.New(),
		Name:        name,
		Price:       decimal.NewFromInt(100),
		Category:    category,
		IsAvailable: true,
	}
}

func TestCacheStartsUnloaded(t *testing.T) {
	cache := NewCache()

	if cache.Loaded() {
		t.Fatal("expected fresh cache to report unloaded")
	}
	if _, ok := cache.Get(uuid.New()); ok {
		t.Fatal("expected miss on fresh cache")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d items", cache.Len())
	}
}

func TestCacheReloadReplacesWholesale(t *testing.T) {
	cache := NewCache()

	first := cacheItem("Chicken Biryani", enums.MenuCategoryBiryani)
	second := cacheItem("Veg Pizza", enums.MenuCategoryPizza)
	cache.Reload([]ItemDTO{first, second})

	if !cache.Loaded() {
		t.Fatal("expected cache to report loaded")
	}
	if _, ok := cache.Get(first.ID); !ok {
		t.Fatal("expected first item present after reload")
	}

	replacement := cacheItem("Hakka Noodles", enums.MenuCategoryChinese)
	cache.Reload([]ItemDTO{replacement})

	if _, ok := cache.Get(first.ID); ok {
		t.Fatal("expected prior items dropped on reload")
	}
	if _, ok := cache.Get(replacement.ID); !ok {
		t.Fatal("expected replacement item present")
	}
	if cache.Len() != 1 {
		t.Fatalf("expected 1 item after reload, got %d", cache.Len())
	}
}

func TestCacheReloadEmptyIsLoadedState(t *testing.T) {
	cache := NewCache()
	cache.Reload([]ItemDTO{cacheItem("Chocolate Cake", enums.MenuCategoryCake)})

	cache.Reload(nil)

	if !cache.Loaded() {
		t.Fatal("expected empty reload to remain a loaded state")
	}
	if cache.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d items", cache.Len())
	}
}

func TestCacheByCategoryGroupsAndSorts(t *testing.T) {
	cache := NewCache()
	pizzaB := cacheItem("Paneer Pizza", enums.MenuCategoryPizza)
	pizzaA := cacheItem("Cheese Pizza", enums.MenuCategoryPizza)
	cake := cacheItem("Chocolate Cake", enums.MenuCategoryCake)
	cache.Reload([]ItemDTO{pizzaB, cake, pizzaA})

	grouped := cache.ByCategory()

	pizzas, ok := grouped[enums.MenuCategoryPizza]
	if !ok || len(pizzas) != 2 {
		t.Fatalf("expected 2 pizzas, got %v", grouped)
	}
	if pizzas[0].Name != "Cheese Pizza" || pizzas[1].Name != "Paneer Pizza" {
		t.Fatalf("expected pizzas sorted by name, got %q then %q", pizzas[0].Name, pizzas[1].Name)
	}
	if len(grouped[enums.MenuCategoryCake]) != 1 {
		t.Fatalf("expected one cake, got %v", grouped[enums.MenuCategoryCake])
	}
}
