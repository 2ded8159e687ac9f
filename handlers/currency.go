package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickcount-api/models"
	"quickcount-api/services"
)

type CurrencyHandler struct {
	Currency *services.CurrencyService
}

func NewCurrencyHandler(currency *services.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{Currency: currency}
}

// GetRates proxies the exchange-rate table for a base currency.
func (h *CurrencyHandler) GetRates(c *gin.Context) {
	base := c.DefaultQuery("base", "PHP")
	if len(base) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Base must be a 3-letter currency code"})
		return
	}

	rates, err := h.Currency.Rates(c.Request.Context(), base)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.RatesResponse{Base: base, Rates: rates})
}

// Convert performs a single conversion at the current rate.
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req models.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Currency.Convert(c.Request.Context(), req.Amount, req.From, req.To)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
