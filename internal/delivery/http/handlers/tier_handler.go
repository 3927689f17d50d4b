package handlers

import (
	"log/slog"
	"net/http"

	exchangeRequest "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/request"
	exchangeResponse "github.com/LavaJover/shvark-exchange-service/internal/delivery/http/dto/exchange/response"
	"github.com/LavaJover/shvark-exchange-service/internal/domain"
	"github.com/LavaJover/shvark-exchange-service/internal/usecase"
	tierdto "github.com/LavaJover/shvark-exchange-service/internal/usecase/dto/tier"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TierHandler struct {
	Usecase usecase.TierUsecase
	Logger  *slog.Logger
}

func NewTierHandler(uc usecase.TierUsecase, logger *slog.Logger) *TierHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TierHandler{Usecase: uc, Logger: logger}
}

// List: GET /api/v1/tiers?direction=buy
func (h *TierHandler) List(c *gin.Context) {
	direction, err := domain.ParseDirection(c.DefaultQuery("direction", string(domain.DirectionBuy)))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	tiers, err := h.Usecase.ListTiers(c.Request.Context(), direction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTiersResponse(direction, tiers))
}

// Replace: PUT /api/v1/admin/tiers/:direction
func (h *TierHandler) Replace(c *gin.Context) {
	direction, err := domain.ParseDirection(c.Param("direction"))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	var req exchangeRequest.ReplaceTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid payload")
		return
	}

	inputs := make([]tierdto.TierInput, 0, len(req.Tiers))
	for _, t := range req.Tiers {
		in, err := toTierInput(t)
		if err != nil {
			writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
			return
		}
		inputs = append(inputs, in)
	}

	tiers, err := h.Usecase.ReplaceTiers(c.Request.Context(), direction, inputs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTiersResponse(direction, tiers))
}

// SetRate: PUT /api/v1/admin/rates/:direction
func (h *TierHandler) SetRate(c *gin.Context) {
	direction, err := domain.ParseDirection(c.Param("direction"))
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	var req exchangeRequest.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid payload")
		return
	}
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		writeError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid rate")
		return
	}
	if err := h.Usecase.SetFixedRate(c.Request.Context(), direction, rate); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"direction": direction, "rate": rate.String()})
}

func toTierInput(t exchangeRequest.TierRequest) (tierdto.TierInput, error) {
	in := tierdto.TierInput{RangeLabel: t.RangeLabel, Kind: t.Kind}
	var err error
	if in.UnitRate, err = decimal.NewFromString(t.UnitRate); err != nil {
		return in, domain.ErrInvalidTierSet
	}
	if t.MinQuantity != nil {
		v, err := decimal.NewFromString(*t.MinQuantity)
		if err != nil {
			return in, domain.ErrInvalidTierSet
		}
		in.MinQuantity = &v
	}
	if t.MaxQuantity != nil {
		v, err := decimal.NewFromString(*t.MaxQuantity)
		if err != nil {
			return in, domain.ErrInvalidTierSet
		}
		in.MaxQuantity = &v
	}
	return in, nil
}

func toTiersResponse(direction domain.Direction, tiers []domain.PriceTier) exchangeResponse.TiersResponse {
	resp := exchangeResponse.TiersResponse{
		Direction: string(direction),
		Tiers:     make([]exchangeResponse.TierResponse, 0, len(tiers)),
	}
	for i := range tiers {
		resp.Tiers = append(resp.Tiers, toTierResponse(&tiers[i]))
	}
	return resp
}
