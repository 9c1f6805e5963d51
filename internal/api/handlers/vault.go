package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-vault/internal/metrics"
	"github.com/codyseavey/card-vault/internal/models"
	"github.com/codyseavey/card-vault/internal/stats"
	"github.com/codyseavey/card-vault/internal/vault"
)

type VaultHandler struct {
	vault *vault.Service
}

func NewVaultHandler(v *vault.Service) *VaultHandler {
	return &VaultHandler{vault: v}
}

func (h *VaultHandler) ListCards(c *gin.Context) {
	c.JSON(http.StatusOK, h.vault.Entries())
}

func (h *VaultHandler) AddCard(c *gin.Context) {
	var input models.CardInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.vault.AddCard(input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *VaultHandler) GetCard(c *gin.Context) {
	entry, ok := h.vault.GetCardByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *VaultHandler) UpdateCard(c *gin.Context) {
	var patch models.CardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.vault.UpdateCard(c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, vault.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *VaultHandler) DeleteCard(c *gin.Context) {
	if err := h.vault.DeleteCard(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VaultHandler) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, stats.Compute(h.vault.Entries()))
}

func (h *VaultHandler) SearchCards(c *gin.Context) {
	c.JSON(http.StatusOK, h.vault.SearchCards(c.Query("q")))
}

func (h *VaultHandler) FilterCards(c *gin.Context) {
	var filter models.CardFilter

	if minStr := c.Query("min_grade"); minStr != "" {
		v, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_grade"})
			return
		}
		filter.MinGrade = &v
	}
	if maxStr := c.Query("max_grade"); maxStr != "" {
		v, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_grade"})
			return
		}
		filter.MaxGrade = &v
	}
	filter.Set = c.Query("set")
	if tags := c.Query("tags"); tags != "" {
		filter.Tags = strings.Split(tags, ",")
	}

	c.JSON(http.StatusOK, h.vault.GetFilteredCards(filter))
}

func (h *VaultHandler) ExportVault(c *gin.Context) {
	c.JSON(http.StatusOK, h.vault.ExportVault())
}

func (h *VaultHandler) ImportVault(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	merge := c.Query("merge") == "true"

	result, err := h.vault.ImportVault(data, merge)
	if err != nil {
		if errors.Is(err, vault.ErrInvalidFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid import format"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mode := "replace"
	if merge {
		mode = "merge"
	}
	metrics.ImportsTotal.WithLabelValues(mode).Inc()

	c.JSON(http.StatusOK, result)
}

func (h *VaultHandler) ClearVault(c *gin.Context) {
	if err := h.vault.ClearVault(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VaultHandler) RefreshCards(c *gin.Context) {
	entries, err := h.vault.RefreshCards()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
