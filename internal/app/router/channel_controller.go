package router

import (
	"net/http"
	"radio/internal/app/radio"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetJsonChannels 查询频道列表（不包含节目单）
func (h *Handler) GetJsonChannels(c *gin.Context) {
	catalog := h.snapshot()
	if catalog == nil {
		c.Status(http.StatusNotFound)
		return
	}

	channels := make([]radio.Channel, 0, len(catalog.Channels))
	for _, channel := range catalog.Channels {
		channel.Schedule = nil
		channels = append(channels, channel)
	}

	// 返回响应
	c.PureJSON(http.StatusOK, channels)
}

// GetTXTData 查询频道列表txt
func (h *Handler) GetTXTData(c *gin.Context) {
	catalog := h.snapshot()
	if catalog == nil {
		c.Status(http.StatusNotFound)
		return
	}

	// 将频道列表转换为txt格式
	txtContent, err := radio.ToTxtFormat(catalog.Channels)
	if err != nil {
		h.logger.Error("Failed to convert channel list to txt format.", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	// 返回响应
	c.String(http.StatusOK, txtContent)
}
