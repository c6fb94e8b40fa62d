package router

import (
	"errors"
	"net/http"
	"radio/internal/app/radio"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusResp 更新状态
type StatusResp struct {
	State        string                 `json:"state"`
	NextEligible string                 `json:"next_eligible,omitempty"`
	LastEvent    *EventResp             `json:"last_event,omitempty"`
	FetchedAt    string                 `json:"fetched_at,omitempty"`
	Channels     int                    `json:"channels"`
	Failures     []radio.ChannelFailure `json:"failures"`
}

// EventResp 最近一次的更新周期通知
type EventResp struct {
	Kind     string  `json:"kind"`
	At       string  `json:"at"`
	Duration float64 `json:"duration_seconds,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// GetStatus 查询更新状态及当前快照的概要
func (h *Handler) GetStatus(c *gin.Context) {
	status := h.updater.Status()

	resp := StatusResp{
		State:    status.State.String(),
		Failures: []radio.ChannelFailure{},
	}
	if !status.NextEligible.IsZero() {
		resp.NextEligible = radio.FormatDisplay(status.NextEligible, h.displayLoc)
	}
	if ev := status.LastEvent; ev != nil {
		resp.LastEvent = &EventResp{
			Kind:     ev.Kind.String(),
			At:       ev.At.In(h.displayLoc).Format(time.RFC3339),
			Duration: ev.Duration.Seconds(),
		}
		if ev.Err != nil {
			resp.LastEvent.Error = ev.Err.Error()
		}
	}
	if catalog := h.updater.Catalog(); catalog != nil {
		resp.FetchedAt = catalog.FetchedAt.In(h.displayLoc).Format(time.RFC3339)
		resp.Channels = len(catalog.Channels)
		if len(catalog.Failures) > 0 {
			resp.Failures = catalog.Failures
		}
	}

	c.PureJSON(http.StatusOK, &resp)
}

// PostRefresh 按需触发更新周期
func (h *Handler) PostRefresh(c *gin.Context) {
	// 更新周期不受请求的生命周期影响
	err := h.updater.Trigger(h.ctx)
	if errors.Is(err, radio.ErrCycleInProgress) {
		c.PureJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		h.logger.Error("Failed to trigger the fetch cycle.", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusAccepted)
}
