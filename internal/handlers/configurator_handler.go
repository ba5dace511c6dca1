package handlers

import (
	"net/http"

	"github.com/iksoll/VelvetCake/internal/configurator"
	"github.com/iksoll/VelvetCake/internal/dto"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ConfiguratorHandler struct {
	log *zap.Logger
}

func NewConfiguratorHandler(log *zap.Logger) *ConfiguratorHandler {
	return &ConfiguratorHandler{log: log}
}

// Quote godoc
// @Summary Расчёт индивидуального торта
// @Description 950 ₽ за кг (не меньше 0.5 кг); при выбранном основном бисквите или начинке
// @Description +300 ₽ за каждую доп. начинку и +200 ₽ за каждый доп. бисквит
// @Tags configurator
// @Accept json
// @Produce json
// @Param selection body dto.QuoteRequest true "Выбор в конструкторе"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ValidationErrorResponse "Неверные данные"
// @Router /configurator/quote [post]
func (h *ConfiguratorHandler) Quote(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestBody(c, h.log, err)
		return
	}
	sel := configurator.Selection{
		WeightKg:      req.WeightKg,
		MainBase:      req.MainBase,
		ExtraBases:    req.ExtraBases,
		MainFilling:   req.MainFilling,
		ExtraFillings: req.ExtraFillings,
		Notes:         req.Notes,
	}
	c.JSON(http.StatusOK, dto.QuoteResponse{
		Name:        configurator.Name(sel),
		Description: configurator.Describe(sel),
		WeightKg:    sel.Weight(),
		Price:       configurator.Quote(sel),
	})
}
