package handlers

import (
	"net/http"

	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	Book usecase.RatesView
}

func NewHealthHandler(book usecase.RatesView) *HealthHandler {
	return &HealthHandler{Book: book}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness: готовы, пока есть снимок тиров. Перезагрузка со старым снимком
// не снимает готовность.
func (h *HealthHandler) Readiness(c *gin.Context) {
	state, snapshot := h.Book.View()
	if state == usecase.BookUnavailable || snapshot == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "tier_book": state})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "tier_book": state, "rates_as_of": snapshot.LoadedAt})
}
