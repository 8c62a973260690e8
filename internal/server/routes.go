package server

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/deadswitch/internal/config"
	"github.com/danmuck/deadswitch/internal/custody"
	"github.com/danmuck/deadswitch/internal/events"
	"github.com/danmuck/deadswitch/internal/observability"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

var errBadRequest = errors.New("bad request")

type heirRequest struct {
	Heir string `json:"heir"`
}

type ownerActionRequest struct {
	Destination string `json:"destination"`
	Value       string `json:"value"`
	Payload     string `json:"payload"`
}

func (s *Server) registerRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"node":    s.name,
			"version": version,
		})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.started).String(),
			"node":    s.name,
			"version": version,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	w := r.Group("/wallet", s.authenticate())
	w.GET("", s.handleState)
	w.GET("/events", s.handleEvents)
	w.GET("/assets/:asset", s.handleAsset)
	w.POST("/owner/actions", s.handleOwnerAction)
	w.POST("/heirs", s.handleAddHeir)
	w.DELETE("/heirs/:heir", s.handleRemoveHeir)
	w.POST("/claim/initiate", s.handleInitiate)
	w.POST("/claim/finalize", s.handleFinalize)
	w.POST("/claim/veto", s.handleVeto)
	w.POST("/distributions/:asset", s.handleDistribute)
}

func (s *Server) handleState(c *gin.Context) {
	st := s.wallet.State()
	heirs := make([]string, 0, len(st.Heirs))
	for _, h := range st.Heirs {
		heirs = append(heirs, h.Hex())
	}
	body := gin.H{
		"owner":                st.Owner.Hex(),
		"status":               st.Status.String(),
		"last_owner_activity":  st.LastOwnerActivity.UTC(),
		"inactivity_threshold": st.InactivityThreshold.String(),
		"dispute_window":       st.DisputeWindow.String(),
		"claimable_after":      st.ClaimableAfter().UTC(),
		"heirs":                heirs,
		"heir_count":           st.HeirCount,
	}
	if st.Status == custody.StatusDeathClaimed {
		body["claim_started_at"] = st.ClaimStartedAt.UTC()
		body["finalizable_after"] = st.FinalizableAfter().UTC()
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleEvents(c *gin.Context) {
	if s.events == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "event log disabled"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	evs := s.events.Recent(limit)
	out := make([]gin.H, 0, len(evs))
	for _, ev := range evs {
		item := gin.H{
			"id":     ev.ID.String(),
			"kind":   string(ev.Kind),
			"caller": ev.Caller.Hex(),
			"status": ev.Status.String(),
			"at":     ev.At.UTC(),
		}
		if ev.Subject != (common.Address{}) {
			item["subject"] = ev.Subject.Hex()
		}
		if ev.Kind == custody.EventAssetDistributed {
			item["asset"] = events.AssetLabel(ev.Asset)
		}
		if ev.Amount != nil {
			item["amount"] = ev.Amount.String()
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (s *Server) handleAsset(c *gin.Context) {
	asset, err := config.ParseAsset(c.Param("asset"))
	if err != nil {
		s.fail(c, "ledger_view", badRequest(err))
		return
	}
	view := s.wallet.Ledger(asset)
	withdrawn := make([]string, 0, len(view.Withdrawn))
	for _, h := range view.Withdrawn {
		withdrawn = append(withdrawn, h.Hex())
	}
	c.JSON(http.StatusOK, gin.H{
		"asset":     events.AssetLabel(asset),
		"snapshot":  s.amountJSON(asset, view.Snapshot),
		"withdrawn": withdrawn,
	})
}

func (s *Server) handleOwnerAction(c *gin.Context) {
	const op = "owner_action"
	var req ownerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, op, badRequest(err))
		return
	}
	call, err := parseCall(req)
	if err != nil {
		s.fail(c, op, badRequest(err))
		return
	}
	receipt, err := s.wallet.OwnerAction(c.Request.Context(), caller(c), call)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.ok(c, op, gin.H{
		"destination": receipt.Call.Destination.Hex(),
		"value":       s.amountJSON(custody.NativeAsset, receipt.Call.Value),
		"output":      hexutil.Encode(receipt.Output),
		"executed_at": receipt.ExecutedAt.UTC(),
	})
}

func (s *Server) handleAddHeir(c *gin.Context) {
	const op = "add_heir"
	var req heirRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, op, badRequest(err))
		return
	}
	heir, err := config.ParseIdentity(req.Heir)
	if err != nil {
		s.fail(c, op, badRequest(err))
		return
	}
	if err := s.wallet.AddHeir(c.Request.Context(), caller(c), heir); err != nil {
		s.fail(c, op, err)
		return
	}
	s.ok(c, op, gin.H{"heir": heir.Hex(), "heir_count": s.wallet.State().HeirCount})
}

func (s *Server) handleRemoveHeir(c *gin.Context) {
	const op = "remove_heir"
	heir, err := config.ParseIdentity(c.Param("heir"))
	if err != nil {
		s.fail(c, op, badRequest(err))
		return
	}
	if err := s.wallet.RemoveHeir(c.Request.Context(), caller(c), heir); err != nil {
		s.fail(c, op, err)
		return
	}
	s.ok(c, op, gin.H{"heir": heir.Hex(), "heir_count": s.wallet.State().HeirCount})
}

func (s *Server) handleInitiate(c *gin.Context) {
	s.transition(c, "initiate_claim", s.wallet.InitiateClaim)
}

func (s *Server) handleFinalize(c *gin.Context) {
	s.transition(c, "finalize_claim", s.wallet.FinalizeClaim)
}

func (s *Server) handleVeto(c *gin.Context) {
	s.transition(c, "veto_claim", s.wallet.VetoClaim)
}

func (s *Server) handleDistribute(c *gin.Context) {
	const op = "distribute"
	asset, err := config.ParseAsset(c.Param("asset"))
	if err != nil {
		s.fail(c, op, badRequest(err))
		return
	}
	amount, err := s.wallet.Distribute(c.Request.Context(), caller(c), asset)
	if err != nil {
		s.fail(c, op, err)
		return
	}
	s.ok(c, op, gin.H{
		"heir":   caller(c).Hex(),
		"asset":  events.AssetLabel(asset),
		"amount": s.amountJSON(asset, amount),
	})
}

func (s *Server) transition(c *gin.Context, op string, fn func(ctx context.Context, id custody.Identity) error) {
	if err := fn(c.Request.Context(), caller(c)); err != nil {
		s.fail(c, op, err)
		return
	}
	s.ok(c, op, gin.H{"status": s.wallet.State().Status.String()})
}

func (s *Server) ok(c *gin.Context, op string, body gin.H) {
	observability.RecordOperation(op, "", true)
	c.JSON(http.StatusOK, body)
}

func (s *Server) fail(c *gin.Context, op string, err error) {
	kind := string(custody.KindOf(err))
	if errors.Is(err, errBadRequest) {
		kind = "bad_request"
	}
	observability.RecordOperation(op, kind, false)
	_ = c.Error(err)
	c.JSON(statusFor(err), gin.H{"error": err.Error(), "kind": kind})
}

func statusFor(err error) int {
	if errors.Is(err, errBadRequest) {
		return http.StatusBadRequest
	}
	switch custody.KindOf(err) {
	case custody.KindAuthorization:
		return http.StatusForbidden
	case custody.KindStateMachine, custody.KindRegistry, custody.KindLedger:
		return http.StatusConflict
	case custody.KindTiming:
		return http.StatusTooEarly
	case custody.KindTransfer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func parseCall(req ownerActionRequest) (custody.Call, error) {
	dest := strings.TrimSpace(req.Destination)
	if !common.IsHexAddress(dest) {
		return custody.Call{}, errors.New("destination is not a hex address")
	}
	call := custody.Call{Destination: common.HexToAddress(dest), Value: new(big.Int)}
	if strings.TrimSpace(req.Value) != "" {
		v, err := config.ParseAmount(req.Value)
		if err != nil {
			return custody.Call{}, err
		}
		call.Value = v
	}
	if p := strings.TrimSpace(req.Payload); p != "" && p != "0x" {
		payload, err := hexutil.Decode(p)
		if err != nil {
			return custody.Call{}, err
		}
		call.Payload = payload
	}
	return call, nil
}

// amountJSON renders amount in base units and, when the asset is known, in
// display units.
func (s *Server) amountJSON(asset custody.AssetID, amount *big.Int) gin.H {
	if amount == nil {
		amount = new(big.Int)
	}
	out := gin.H{"units": amount.String()}
	if meta, ok := s.assets[asset]; ok {
		out["display"] = decimal.NewFromBigInt(amount, -meta.Decimals).String()
		out["symbol"] = meta.Symbol
	}
	return out
}
