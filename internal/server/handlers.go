package server

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"quantpricer/internal/models"
	"quantpricer/internal/pricing"
	"quantpricer/internal/store"
	"quantpricer/internal/sweep"
)

// Handler holds the API dependencies.
type Handler struct {
	logger    zerolog.Logger
	solver    pricing.Solver
	scenarios store.ScenarioStore
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)

	api := engine.Group("/api")
	{
		api.POST("/price", h.Price)
		api.POST("/greeks", h.Greeks)
		api.POST("/implied-vol", h.ImpliedVol)
		api.POST("/curve", h.Curve)
		api.POST("/heatmap", h.Heatmap)
		api.GET("/curve/default", h.DefaultCurve)
		api.GET("/heatmap/default", h.DefaultHeatmap)

		if h.scenarios != nil {
			api.POST("/scenarios", h.SaveScenario)
			api.GET("/scenarios", h.ListScenarios)
		}
	}
}

// PriceRequest carries the inputs shared by the price and greeks endpoints.
// Numeric fields are pointers so that a present zero is distinguishable from
// a missing field.
type PriceRequest struct {
	Spot       *float64 `json:"spot" binding:"required"`
	Strike     *float64 `json:"strike" binding:"required"`
	Rate       *float64 `json:"rate" binding:"required"`
	Sigma      *float64 `json:"sigma" binding:"required"`
	Expiry     *float64 `json:"expiry" binding:"required"`
	OptionType string   `json:"option_type" binding:"required"`
}

func (r *PriceRequest) inputs() pricing.MarketInputs {
	return pricing.MarketInputs{
		Spot:   *r.Spot,
		Strike: *r.Strike,
		Rate:   *r.Rate,
		Sigma:  *r.Sigma,
		Expiry: *r.Expiry,
	}
}

// ImpliedVolRequest carries the implied-vol endpoint inputs.
type ImpliedVolRequest struct {
	MarketPrice *float64 `json:"market_price" binding:"required"`
	Spot        *float64 `json:"spot" binding:"required"`
	Strike      *float64 `json:"strike" binding:"required"`
	Rate        *float64 `json:"rate" binding:"required"`
	Expiry      *float64 `json:"expiry" binding:"required"`
	OptionType  string   `json:"option_type" binding:"required"`
}

// CurveRequest carries the price-curve endpoint inputs.
type CurveRequest struct {
	Spots      []float64 `json:"spots" binding:"required"`
	Strike     *float64  `json:"strike" binding:"required"`
	Rate       *float64  `json:"rate" binding:"required"`
	Sigma      *float64  `json:"sigma" binding:"required"`
	Expiry     *float64  `json:"expiry" binding:"required"`
	OptionType string    `json:"option_type" binding:"required"`
}

// HeatmapRequest carries the heatmap endpoint inputs.
type HeatmapRequest struct {
	Spots      []float64 `json:"spots" binding:"required"`
	Vols       []float64 `json:"vols" binding:"required"`
	Strike     *float64  `json:"strike" binding:"required"`
	Rate       *float64  `json:"rate" binding:"required"`
	Expiry     *float64  `json:"expiry" binding:"required"`
	OptionType string    `json:"option_type" binding:"required"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Price computes a single option price.
func (h *Handler) Price(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	optionType, err := pricing.ParseOptionType(req.OptionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	price, err := pricing.Price(req.inputs(), optionType)
	if err != nil {
		// Caller-supplied bad input is never a 5xx.
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"price": price})
}

// Greeks computes all five sensitivities.
func (h *Handler) Greeks(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	optionType, err := pricing.ParseOptionType(req.OptionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	greeks, err := pricing.AllGreeks(req.inputs(), optionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, greeks)
}

// ImpliedVol recovers volatility from a market price and reprices with it.
func (h *Handler) ImpliedVol(c *gin.Context) {
	var req ImpliedVolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	optionType, err := pricing.ParseOptionType(req.OptionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	vol, err := h.solver.ImpliedVol(*req.MarketPrice, *req.Spot, *req.Strike, *req.Rate, *req.Expiry, optionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	in := pricing.MarketInputs{Spot: *req.Spot, Strike: *req.Strike, Rate: *req.Rate, Sigma: vol, Expiry: *req.Expiry}
	repriced, err := pricing.Price(in, optionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"implied_vol":    vol,
		"priced_with_iv": repriced,
	})
}

// Curve generates a price curve over the supplied spot values.
func (h *Handler) Curve(c *gin.Context) {
	var req CurveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	optionType, err := pricing.ParseOptionType(req.OptionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	points := sweep.PriceCurve(req.Spots, *req.Strike, *req.Rate, *req.Sigma, *req.Expiry, optionType)
	c.JSON(http.StatusOK, gin.H{
		"spots":  req.Spots,
		"prices": curvePrices(points),
	})
}

// Heatmap generates a price surface over the supplied spot and vol grids.
func (h *Handler) Heatmap(c *gin.Context) {
	var req HeatmapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	optionType, err := pricing.ParseOptionType(req.OptionType)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	grid := sweep.Heatmap(req.Spots, req.Vols, *req.Strike, *req.Rate, *req.Expiry, optionType)
	c.JSON(http.StatusOK, gin.H{
		"z":     heatmapCells(grid),
		"spots": grid.Spots,
		"vols":  grid.Vols,
	})
}

// DefaultCurve generates a price curve over the standard spot range around
// the strike, with query-parameter overrides.
func (h *Handler) DefaultCurve(c *gin.Context) {
	strike := queryFloat(c, "strike", 100)
	rate := queryFloat(c, "rate", 0.05)
	sigma := queryFloat(c, "sigma", 0.2)
	expiry := queryFloat(c, "expiry", 1.0)

	optionType, err := pricing.ParseOptionType(c.DefaultQuery("option_type", "call"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	spots := sweep.SpotRange(strike, sweep.DefaultCurvePoints)
	points := sweep.PriceCurve(spots, strike, rate, sigma, expiry, optionType)
	c.JSON(http.StatusOK, gin.H{
		"spots":  spots,
		"prices": curvePrices(points),
	})
}

// DefaultHeatmap generates a price surface over the standard spot and vol
// ranges, with query-parameter overrides.
func (h *Handler) DefaultHeatmap(c *gin.Context) {
	strike := queryFloat(c, "strike", 100)
	rate := queryFloat(c, "rate", 0.05)
	expiry := queryFloat(c, "expiry", 1.0)

	optionType, err := pricing.ParseOptionType(c.DefaultQuery("option_type", "call"))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	spots := sweep.SpotRange(strike, sweep.DefaultHeatmapPoints)
	vols := sweep.VolRange(sweep.DefaultHeatmapPoints)
	grid := sweep.Heatmap(spots, vols, strike, rate, expiry, optionType)
	c.JSON(http.StatusOK, gin.H{
		"z":     heatmapCells(grid),
		"spots": grid.Spots,
		"vols":  grid.Vols,
	})
}

// SaveScenario appends a pricing scenario to the durable log.
func (h *Handler) SaveScenario(c *gin.Context) {
	var scenario models.Scenario
	if err := c.ShouldBindJSON(&scenario); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if scenario.Timestamp.IsZero() {
		scenario.Timestamp = time.Now()
	}

	if err := h.scenarios.SaveScenario(c.Request.Context(), &scenario); err != nil {
		h.logger.Error().Err(err).Msg("Failed to save scenario")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to save scenario"})
		return
	}

	c.JSON(http.StatusCreated, scenario)
}

// ListScenarios returns logged scenarios, newest first.
func (h *Handler) ListScenarios(c *gin.Context) {
	filter := store.ScenarioFilter{
		OptionType: c.Query("option_type"),
		Limit:      int(queryFloat(c, "limit", 50)),
	}

	scenarios, err := h.scenarios.GetScenarios(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list scenarios")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list scenarios"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}

// curvePrices converts sweep points to JSON-safe values: NaN sentinels become
// nulls, since encoding/json rejects NaN.
func curvePrices(points []sweep.PricePoint) []*float64 {
	out := make([]*float64, len(points))
	for i, p := range points {
		if math.IsNaN(p.Price) {
			continue
		}
		price := p.Price
		out[i] = &price
	}
	return out
}

func heatmapCells(grid sweep.HeatmapGrid) [][]*float64 {
	out := make([][]*float64, len(grid.Prices))
	for i, row := range grid.Prices {
		cells := make([]*float64, len(row))
		for j, price := range row {
			if math.IsNaN(price) {
				continue
			}
			p := price
			cells[j] = &p
		}
		out[i] = cells
	}
	return out
}

func queryFloat(c *gin.Context, name string, fallback float64) float64 {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}
