package router

import (
	"context"
	"radio/internal/app/radio"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// tickSchedule 定时检查的频率，实际更新间隔由更新器控制
const tickSchedule = "@every 1m"

// Schedule 定时调度更新缓存数据
func Schedule(ctx context.Context, updater *radio.Updater) error {
	logger := zap.L()

	// 创建定时任务
	c := cron.New()
	_, err := c.AddFunc(tickSchedule, func() {
		if updater.Tick(ctx) {
			logger.Info("The scheduled fetch cycle has been started.")
		}
	})
	if err != nil {
		return err
	}
	c.Start()

	go func() {
		<-ctx.Done()
		// 等待正在执行的任务结束
		<-c.Stop().Done()
		logger.Info("The scheduling task has been stopped.")
	}()
	return nil
}
