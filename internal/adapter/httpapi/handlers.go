package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/firstmover/alert-api/internal/alerts"
	"github.com/firstmover/alert-api/internal/domain"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "First-Mover Alert API",
		"description": "Corporate acquisition risk score, early access alerts, assistance match.",
		"endpoints": []string{
			"GET /listings",
			"POST /listings/ingest",
			"POST /risk/score",
			"GET /risk/map",
			"POST /alerts/subscribe",
			"GET /assistance",
			"GET /stats",
		},
	})
}

type riskScoreRequest struct {
	Address string `json:"address"`
	ZipCode string `json:"zip_code"`
}

func (s *Server) handleRiskScore(c *gin.Context) {
	var req riskScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Address == "" && req.ZipCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide address or zip_code"})
		return
	}

	profile := s.engine.ComputeRisk(c.Request.Context(), req.Address, req.ZipCode)

	location := ""
	if profile.ResolvedZip != nil {
		location = *profile.ResolvedZip
	}
	profile.Explanation = s.explainer.Rewrite(c.Request.Context(),
		profile.Signals, profile.Score, profile.Label, profile.Explanation, location)

	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleRiskMap(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	view := s.listings.MapView(c.Request.Context(), query)
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) handleListings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"listings": s.listings.List(c.Request.Context()),
	})
}

type ingestRequest struct {
	Address string `json:"address" binding:"required"`
	Price   *int   `json:"price"`
	Source  string `json:"source"`
}

func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	listing, err := s.listings.Ingest(c.Request.Context(), req.Address, req.Price, req.Source)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "listing": listing})
}

type subscribeRequest struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	ZipCode string `json:"zip_code"`
}

func (s *Server) handleSubscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.alerts.Subscribe(c.Request.Context(), req.Email, req.Phone, req.ZipCode)
	if err != nil {
		if errors.Is(err, alerts.ErrNoContact) || errors.Is(err, alerts.ErrInvalidPhone) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": res.OK, "message": res.Message})
}

func (s *Server) handleAssistance(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	counselors := s.hud.Counselors(c.Request.Context(), c.Query("city"), c.Query("state"), limit)
	if counselors == nil {
		counselors = []domain.Counselor{}
	}
	c.JSON(http.StatusOK, gin.H{"programs": counselors})
}

func (s *Server) handleStats(c *gin.Context) {
	subscribers, err := s.stats.CountSubscribers(c.Request.Context())
	if err != nil {
		s.logger.Warn("subscriber count failed", "error", err)
	}
	ingested, err := s.stats.CountListings(c.Request.Context())
	if err != nil {
		s.logger.Warn("listing count failed", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{
		"alert_subscribers": subscribers,
		"zctas_covered":     s.rules.CoveredZCTAs(),
		"ingested_listings": ingested,
	})
}
