package main

import (
	"context"
	"os"
	"os/signal"
	"radio/cmd/radio/cmds"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	// 收到退出信号时停止定时任务及正在执行的请求
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cobra.CheckErr(cmds.NewRootCLI().ExecuteContext(ctx))
}
