package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/types"
	"github.com/pratikshakalbhor/stellar-whitebelt-dapp/utils"
)

// Service is the part of the pipeline exposed over HTTP
type Service interface {
	SendPayment(ctx context.Context, req types.PaymentRequest) types.Outcome
	MintNFT(ctx context.Context, req types.MintRequest) types.Outcome
	Balance(ctx context.Context, address string) (string, error)
	NFTTotal(ctx context.Context, source string) (uint64, error)
	NFT(ctx context.Context, source string, id uint32) (*types.NFT, error)
	NFTs(ctx context.Context, source string, owner string) ([]types.NFT, error)
	ExplorerURL(hash string) string
}

// OutcomeResponse is the body returned for every pipeline run
type OutcomeResponse struct {
	types.Outcome
	Severity    string `json:"severity"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}

// RegisterRoutes registers all HTTP routes. A nil gatherer leaves /metrics
// out.
func RegisterRoutes(r *gin.Engine, svc Service, gatherer prometheus.Gatherer) {
	api := r.Group("/v1")

	h := &Handler{svc: svc}
	api.POST("/payments", h.SendPayment)
	api.POST("/mints", h.MintNFT)
	api.GET("/accounts/:id/balance", h.Balance)
	api.GET("/nfts", h.NFTs)
	api.GET("/nfts/total", h.NFTTotal)
	api.GET("/nfts/:id", h.NFT)

	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}

type Handler struct {
	svc Service
}

func (h *Handler) SendPayment(c *gin.Context) {
	var req types.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.svc.SendPayment(c.Request.Context(), req))
}

func (h *Handler) MintNFT(c *gin.Context) {
	var req types.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.respond(c, h.svc.MintNFT(c.Request.Context(), req))
}

func (h *Handler) Balance(c *gin.Context) {
	address := c.Param("id")

	balance, err := h.svc.Balance(c.Request.Context(), address)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": types.ErrorCode(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address, "balance": balance, "asset": "XLM"})
}

func (h *Handler) NFTTotal(c *gin.Context) {
	source := c.Query("source")
	if !utils.IsValidAddress(source) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be a funded account address"})
		return
	}

	total, err := h.svc.NFTTotal(c.Request.Context(), source)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": types.ErrorCode(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total})
}

// NFTs lists minted tokens, optionally only those of ?owner=.
func (h *Handler) NFTs(c *gin.Context) {
	source := c.Query("source")
	if !utils.IsValidAddress(source) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be a funded account address"})
		return
	}

	nfts, err := h.svc.NFTs(c.Request.Context(), source, c.Query("owner"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": types.ErrorCode(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nfts": nfts, "count": len(nfts)})
}

func (h *Handler) NFT(c *gin.Context) {
	source := c.Query("source")
	if !utils.IsValidAddress(source) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source must be a funded account address"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a positive integer"})
		return
	}

	nft, err := h.svc.NFT(c.Request.Context(), source, uint32(id))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "code": types.ErrorCode(err)})
		return
	}

	c.JSON(http.StatusOK, nft)
}

func (h *Handler) respond(c *gin.Context, out types.Outcome) {
	resp := OutcomeResponse{Outcome: out, Severity: out.Severity()}
	if out.IsSuccess() {
		resp.ExplorerURL = h.svc.ExplorerURL(out.Hash)
	}

	status := http.StatusOK
	if out.Code == types.ErrBusy {
		status = http.StatusConflict
	}
	c.JSON(status, resp)
}

func statusFor(err error) int {
	switch types.ErrorCode(err) {
	case types.ErrInvalidInput, types.ErrInvalidOperation:
		return http.StatusBadRequest
	case types.ErrAccountNotFound:
		return http.StatusNotFound
	case types.ErrCancelled:
		return http.StatusRequestTimeout
	default:
		return http.StatusBadGateway
	}
}
