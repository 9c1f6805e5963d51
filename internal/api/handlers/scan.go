package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-vault/internal/scanner"
)

// maxImageSize caps uploaded scan images at 10MB.
const maxImageSize = 10 << 20

type ScanHandler struct {
	scanner *scanner.Service
}

func NewScanHandler(s *scanner.Service) *ScanHandler {
	return &ScanHandler{scanner: s}
}

// Identify uploads the posted card image to the identification
// backend (or the mock generator when it is unreachable) and returns
// the scan result plus a ready-to-add card input.
func (h *ScanHandler) Identify(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image upload"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty image upload"})
		return
	}

	result, err := h.scanner.Identify(c.Request.Context(), image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{"result": result}
	if input, ok := scanner.EntryFromScan(result); ok {
		response["card_input"] = input
	}
	c.JSON(http.StatusOK, response)
}
