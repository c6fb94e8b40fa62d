package cmds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"radio/internal/app/router"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var httpConfig HttpConfig

type HttpConfig struct {
	Port     int           `json:"port"`
	Interval time.Duration `json:"interval"`
}

func NewServeCLI() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "启动HTTP服务，定时更新频道列表和节目单，并提供查询接口。",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := zap.L()

			// 命令参数优先于配置文件
			if cmd.Flags().Changed("interval") {
				conf.Interval = httpConfig.Interval
			}

			// 创建HTTP服务
			r, err := router.NewEngine(cmd.Context(), conf)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Addr:    fmt.Sprintf(":%d", httpConfig.Port),
				Handler: r,
			}

			go func() {
				<-cmd.Context().Done()
				// 退出时关闭HTTP服务
				ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					logger.Error("Failed to shut down the HTTP server.", zap.Error(err))
				}
			}()

			logger.Sugar().Infof("The HTTP server is listening on port %d.", httpConfig.Port)
			if err = srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		},
	}

	serveCmd.Flags().IntVarP(&httpConfig.Port, "port", "p", 8080, "HTTP服务的监听端口。")
	serveCmd.Flags().DurationVarP(&httpConfig.Interval, "interval", "i", time.Hour, "自动刷新频道列表和节目单的间隔时间，e.g `1h或15m`，默认使用配置文件中的值。")

	return serveCmd
}
