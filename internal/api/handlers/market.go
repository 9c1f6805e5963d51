package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-vault/internal/mockgen"
)

type MarketHandler struct {
	worker *mockgen.MarketWorker
}

func NewMarketHandler(worker *mockgen.MarketWorker) *MarketHandler {
	return &MarketHandler{worker: worker}
}

func (h *MarketHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.Current())
}

func (h *MarketHandler) RefreshSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.worker.Refresh())
}
