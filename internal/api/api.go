// Package api exposes the sync engine over HTTP, plus a websocket change
// feed. Handlers are thin adapters: semantics live in the engine and the
// derive package.
package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nickagee13/pantry-path/internal/apperr"
	"github.com/nickagee13/pantry-path/internal/auth"
	"github.com/nickagee13/pantry-path/internal/derive"
	"github.com/nickagee13/pantry-path/internal/engine"
	"github.com/nickagee13/pantry-path/internal/gesture"
	"github.com/nickagee13/pantry-path/internal/models"
	"github.com/nickagee13/pantry-path/internal/order"
	"github.com/nickagee13/pantry-path/internal/remote"
	"github.com/nickagee13/pantry-path/internal/suggest"
)

// Server is the HTTP surface over one engine session.
type Server struct {
	Router *gin.Engine

	engine    *engine.Engine
	remote    *remote.Client
	provider  *auth.MemoryProvider
	orders    *order.Manager
	suggester *suggest.Suggester
	jwtSecret string
}

// NewServer wires the routes. The suggester may be nil; its endpoint then
// reports unavailable.
func NewServer(eng *engine.Engine, rc *remote.Client, provider *auth.MemoryProvider, suggester *suggest.Suggester, jwtSecret string) *Server {
	s := &Server{
		Router:    gin.Default(),
		engine:    eng,
		remote:    rc,
		provider:  provider,
		orders:    order.NewManager(eng.Store(), eng),
		suggester: suggester,
		jwtSecret: jwtSecret,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.Router.GET("/ws", s.authMiddleware(), s.handleWebSocket)

	v1 := s.Router.Group("/api/v1", s.authMiddleware())
	{
		v1.GET("/grocery", s.getGroceryList)
		v1.POST("/grocery", s.addGroceryItem)
		v1.POST("/grocery/:id/toggle", s.toggleGroceryItem)

		v1.GET("/inventory", s.getInventory)
		v1.PUT("/inventory/:id", s.updateInventoryItem)
		v1.POST("/inventory/:id/gesture", s.applyInventoryGesture)

		v1.GET("/recipes", s.getRecipes)
		v1.POST("/recipes", s.addRecipe)
		v1.POST("/recipes/:id/cook", s.cookRecipe)
		v1.POST("/recipes/:id/missing-to-list", s.addMissingToList)

		v1.GET("/stats", s.getStats)
		v1.GET("/suggestions", s.getSuggestions)
		v1.GET("/suggestions/recipes", s.suggestRecipes)

		v1.PUT("/stores/order", s.reorderStores)
		v1.POST("/stores/drag", s.handleDrag)

		v1.GET("/notification", s.getNotification)
		v1.POST("/notification/undo", s.undoNotification)
		v1.DELETE("/notification", s.dismissNotification)
	}
}

// authMiddleware parses the bearer token and binds the session principal.
// Requests without a token proceed unauthenticated; mutating operations
// then fail with ErrNotAuthenticated.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.Next()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		principal, err := auth.FromToken(tokenString, s.jwtSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		current := s.provider.Current()
		if current == nil || current.ID != principal.ID {
			s.provider.SetPrincipal(principal)
		}
		c.Next()
	}
}

func (s *Server) getGroceryList(c *gin.Context) {
	view := derive.GroceryView{
		SearchQuery: c.Query("search"),
		StoreFilter: c.Query("store"),
	}

	list := s.engine.Store().GroceryList()
	orderNames := s.engine.Store().StoreOrder()

	type storeView struct {
		Name      string               `json:"name"`
		Items     []models.GroceryItem `json:"items"`
		Completed bool                 `json:"completed"`
	}
	var stores []storeView
	for _, name := range view.VisibleStores(orderNames, list) {
		items := view.FilterItems(list[name])
		if len(items) == 0 && view.SearchQuery != "" {
			continue
		}
		stores = append(stores, storeView{
			Name:      name,
			Items:     derive.SortForDisplay(items),
			Completed: derive.StoreCompleted(list[name]),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"stores":           stores,
		"total_stores":     len(list),
		"completed_stores": derive.CompletedStores(list),
	})
}

func (s *Server) addGroceryItem(c *gin.Context) {
	var in engine.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := s.engine.AddGroceryItem(c.Request.Context(), in)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) toggleGroceryItem(c *gin.Context) {
	if err := s.engine.ToggleGroceryItem(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getInventory(c *gin.Context) {
	view := derive.InventoryView{
		Category: models.Category(c.Query("category")),
		Location: models.Location(c.Query("location")),
	}
	items := view.FilterInventory(s.engine.Store().Inventory())
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"running_low": derive.RunningLowCount(items),
	})
}

func (s *Server) updateInventoryItem(c *gin.Context) {
	var in engine.UpdateInventoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.engine.UpdateInventoryItem(c.Request.Context(), c.Param("id"), in); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type gestureRequest struct {
	Samples []struct {
		X  float64 `json:"x"`
		Y  float64 `json:"y"`
		Ms int64   `json:"ms"`
	} `json:"samples"`
}

func (s *Server) applyInventoryGesture(c *gin.Context) {
	var req gestureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	samples := make([]gesture.Sample, len(req.Samples))
	for i, raw := range req.Samples {
		samples[i] = gesture.Sample{
			Point:  gesture.Point{X: raw.X, Y: raw.Y},
			Offset: time.Duration(raw.Ms) * time.Millisecond,
		}
	}

	intent := gesture.ClassifySamples(samples)
	if err := s.engine.ApplyInventoryIntent(c.Request.Context(), c.Param("id"), intent); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"intent": intent})
}

func (s *Server) getRecipes(c *gin.Context) {
	recipes, err := s.listDecoratedRecipes(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	filter := c.Query("filter")
	filtered := derive.FilterRecipes(recipes, filter)
	c.JSON(http.StatusOK, gin.H{
		"sections": derive.GroupBySection(filtered, filter),
		"filters":  models.RecipeFilters,
	})
}

func (s *Server) addRecipe(c *gin.Context) {
	p := s.provider.Current()
	if p == nil {
		s.writeError(c, apperr.ErrNotAuthenticated)
		return
	}

	var recipe models.Recipe
	if err := c.ShouldBindJSON(&recipe); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := s.remote.Recipes.Insert(c.Request.Context(), *p, recipe)
	if err != nil {
		s.writeError(c, err)
		return
	}
	recipe.ID = id
	c.JSON(http.StatusCreated, recipe)
}

func (s *Server) cookRecipe(c *gin.Context) {
	var body struct {
		Servings int `json:"servings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := s.findRecipe(c, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	if err := s.engine.CookRecipe(c.Request.Context(), recipe, body.Servings); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) addMissingToList(c *gin.Context) {
	recipe, err := s.findRecipe(c, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	items, err := s.engine.AddMissingIngredients(c.Request.Context(), recipe)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, items)
}

func (s *Server) getStats(c *gin.Context) {
	recipes, err := s.listDecoratedRecipes(c)
	if err != nil {
		s.writeError(c, err)
		return
	}

	st := s.engine.Store()
	c.JSON(http.StatusOK, derive.ComputeStats(st.GroceryList(), st.Inventory(), recipes))
}

func (s *Server) getSuggestions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items":  models.ItemSuggestions,
		"stores": models.StoreSuggestions,
	})
}

func (s *Server) suggestRecipes(c *gin.Context) {
	if s.suggester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "suggestions not configured"})
		return
	}

	ideas, err := s.suggester.Suggest(c.Request.Context(), s.engine.Store().Inventory())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": ideas})
}

func (s *Server) reorderStores(c *gin.Context) {
	var body struct {
		Order []string `json:"order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.engine.ReorderStores(c.Request.Context(), body.Order); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": s.engine.Store().StoreOrder()})
}

func (s *Server) handleDrag(c *gin.Context) {
	var body struct {
		Action string `json:"action"` // begin, over, drop, cancel
		Name   string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch body.Action {
	case "begin":
		s.orders.BeginDrag(body.Name)
		c.Status(http.StatusNoContent)
	case "over":
		s.orders.DragOver(body.Name)
		c.Status(http.StatusNoContent)
	case "cancel":
		s.orders.Cancel()
		c.Status(http.StatusNoContent)
	case "drop":
		newOrder, err := s.orders.Drop(c.Request.Context())
		if err != nil {
			s.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": newOrder})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown drag action"})
	}
}

func (s *Server) getNotification(c *gin.Context) {
	n, ok := s.engine.Notifier().Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  n.Message,
		"kind":     n.Kind,
		"has_undo": n.Undo != nil,
	})
}

func (s *Server) undoNotification(c *gin.Context) {
	ran, err := s.engine.Notifier().Undo()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"undone": ran})
}

func (s *Server) dismissNotification(c *gin.Context) {
	s.engine.Notifier().Dismiss()
	c.Status(http.StatusNoContent)
}

func (s *Server) listDecoratedRecipes(c *gin.Context) ([]models.Recipe, error) {
	p := s.provider.Current()
	if p == nil {
		return nil, nil
	}
	recipes, err := s.remote.Recipes.List(c.Request.Context(), *p)
	if err != nil {
		return nil, err
	}
	return derive.DecorateRecipes(recipes, s.engine.Store().Inventory()), nil
}

func (s *Server) findRecipe(c *gin.Context, id string) (models.Recipe, error) {
	recipes, err := s.listDecoratedRecipes(c)
	if err != nil {
		return models.Recipe{}, err
	}
	for _, r := range recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return models.Recipe{}, apperr.ErrNotFound
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrRemoteRejected):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
