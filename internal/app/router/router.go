package router

import (
	"context"
	"radio/internal/app/config"
	"radio/internal/app/radio"
	"radio/internal/app/radio/sr"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler 处理HTTP请求，所有数据都来自更新器发布的快照
type Handler struct {
	// ctx控制按需触发的更新周期，需与服务的生命周期一致
	ctx        context.Context
	updater    *radio.Updater
	displayLoc *time.Location
	now        func() time.Time

	logger *zap.Logger
}

func NewHandler(ctx context.Context, updater *radio.Updater, displayLoc *time.Location) *Handler {
	if displayLoc == nil {
		displayLoc = time.Local
	}
	return &Handler{
		ctx:        ctx,
		updater:    updater,
		displayLoc: displayLoc,
		now:        radio.Now,
		logger:     zap.L(),
	}
}

func NewEngine(ctx context.Context, conf *config.Config) (*gin.Engine, error) {
	// L()：获取全局logger
	logger := zap.L()

	gin.SetMode(gin.ReleaseMode)

	// 创建电台客户端
	radioClient, err := newRadioClient(conf)
	if err != nil {
		return nil, err
	}

	// 创建更新器
	builder := radio.NewCatalogBuilder(radioClient,
		radio.WithWindow(conf.Window),
		radio.WithConcurrency(conf.Concurrency))
	updater := radio.NewUpdater(builder, conf.Interval)
	updater.AddListener(recordCycle)

	// 执行初始化操作，首次更新失败时等待下一次定时更新
	if err = updater.Trigger(ctx); err != nil {
		return nil, err
	}
	updater.Wait()
	if updater.Catalog() == nil {
		logger.Warn("The initial fetch cycle failed, the catalog is empty until the next cycle.")
	}

	// 执行定时任务
	if err = Schedule(ctx, updater); err != nil {
		return nil, err
	}

	return newRouter(NewHandler(ctx, updater, conf.DisplayLocation), logger), nil
}

// newRouter 创建 Gin 路由引擎
func newRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// 日志记录
	r.Use(ginzap.Ginzap(logger, "", false))
	r.Use(ginzap.RecoveryWithZap(logger, true))

	// 查询频道列表
	r.GET("/channel/json", h.GetJsonChannels)
	r.GET("/channel/txt", h.GetTXTData)

	// 查询节目单
	r.GET("/epg/json", h.GetJsonEPG)
	r.GET("/epg/program", h.GetProgramDetail)
	// 查询EPG-xml格式
	r.GET("/epg/xml", h.GetXmlEPG)
	r.GET("/epg/xml.gz", h.GetXmlEPGWithGzip)

	// 更新状态及按需更新
	r.GET("/status", h.GetStatus)
	r.POST("/refresh", h.PostRefresh)

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// newRadioClient 校验配置文件并创建电台客户端
func newRadioClient(conf *config.Config) (radio.Client, error) {
	// 校验配置文件
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	// 创建SR客户端
	return sr.NewClient(conf.SR, conf.ServerHost, conf.Headers, conf.Timeout, conf.Retries,
		conf.ChExcludeRule, conf.ChGroupRulesList)
}

// snapshot 返回当前快照，没有任何频道时返回nil
func (h *Handler) snapshot() *radio.Catalog {
	catalog := h.updater.Catalog()
	if catalog == nil || len(catalog.Channels) == 0 {
		return nil
	}
	return catalog
}
