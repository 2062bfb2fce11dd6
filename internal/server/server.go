// Package server exposes the generator functions over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/generator"
	"nutri-meal-planner/internal/metrics"
	"nutri-meal-planner/internal/shared"
)

// Generator is the work behind the two function endpoints.
type Generator interface {
	GenerateMeals(ctx context.Context, req generator.MealRequest) (*generator.MealResponse, error)
	GenerateShoppingList(ctx context.Context, req generator.ShoppingListRequest) (*generator.ShoppingListResponse, error)
}

// Server wires the routes onto a gin engine.
type Server struct {
	engine     *gin.Engine
	gen        Generator
	collectors *metrics.Collectors
	dataPath   string
}

// New builds the HTTP handler. collectors may be nil; dataPath is reported
// by the health endpoint.
func New(gen Generator, collectors *metrics.Collectors, dataPath string) *Server {
	s := &Server{
		engine:     gin.New(),
		gen:        gen,
		collectors: collectors,
		dataPath:   dataPath,
	}

	s.engine.Use(gin.Recovery(), requestLogger(), s.observe(), cors())

	s.engine.GET("/health", s.health)

	functions := s.engine.Group("/functions/v1")
	functions.POST("/generate-meals", s.generateMeals)
	functions.POST("/generate-shopping-list", s.generateShoppingList)
	functions.OPTIONS("/generate-meals", preflight)
	functions.OPTIONS("/generate-shopping-list", preflight)

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) generateMeals(c *gin.Context) {
	var req generator.MealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, generator.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.gen.GenerateMeals(c.Request.Context(), req)
	if err != nil {
		writeError(c, generator.OpGenerateMeals, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) generateShoppingList(c *gin.Context) {
	var req generator.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, generator.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	resp, err := s.gen.GenerateShoppingList(c.Request.Context(), req)
	if err != nil {
		writeError(c, generator.OpGenerateShoppingList, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"system": metrics.GetSysHealth(s.dataPath),
	})
}

// writeError maps 429 and 402 upstream failures to the same status with
// their dedicated copy; everything else is a 500.
func writeError(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	var te *shared.TransportError
	if errors.As(err, &te) && (te.IsRateLimited() || te.IsQuotaExhausted()) {
		status = te.StatusCode
	}
	logrus.WithError(err).WithFields(logrus.Fields{
		"operation": op,
		"status":    status,
	}).Error("generation failed")
	c.JSON(status, generator.ErrorResponse{Error: err.Error()})
}

func preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Info("request served")
	}
}

func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if s.collectors == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.collectors.ObserveHTTP(route, c.Writer.Status())
	}
}
