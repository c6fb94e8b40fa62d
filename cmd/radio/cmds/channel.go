package cmds

import (
	"encoding/json"
	"errors"
	"os"
	"path"
	"radio/internal/app/radio"
	"radio/internal/app/radio/sr"
	"radio/internal/pkg/util"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	fileName = "radio"
)

var (
	supportFileFormat = []string{"txt", "json"}
	format            string
)

func NewChannelCLI() *cobra.Command {
	channelCmd := &cobra.Command{
		Use:   "channel",
		Short: "获取频道列表及节目单，并按指定格式生成文件。",
		RunE: func(cmd *cobra.Command, args []string) error {
			// L()：获取全局logger
			logger := zap.L()

			if !slices.Contains(supportFileFormat, format) {
				return errors.New("file format not support")
			}

			// 创建电台客户端
			client, err := newRadioClient()
			if err != nil {
				return err
			}

			// 获取频道列表及节目单
			catalog, err := radio.NewCatalogBuilder(client,
				radio.WithWindow(conf.Window),
				radio.WithConcurrency(conf.Concurrency)).Build(cmd.Context())
			if err != nil {
				return err
			}

			var content []byte
			switch format {
			case "txt":
				// 将获取到的频道列表转换为TXT格式
				txt, err := radio.ToTxtFormat(catalog.Channels)
				if err != nil {
					return err
				}
				content = []byte(txt)
			case "json":
				if content, err = json.MarshalIndent(catalog, "", "  "); err != nil {
					return err
				}
			}

			// 在当前目录中创建频道文件
			outFileName := fileName + "." + format
			currDir, err := util.GetCurrentAbPathByExecutable()
			if err != nil {
				return err
			}
			filePath := path.Join(currDir, outFileName)
			if err = os.WriteFile(filePath, content, 0o644); err != nil {
				logger.Error("Failed to write to file.", zap.Error(err))
				return err
			}

			logger.Sugar().Infof("A total of %d channels have been found, all of which have been written to the file %s, failures: %d.",
				len(catalog.Channels), outFileName, len(catalog.Failures))

			return nil
		},
	}

	channelCmd.Flags().StringVarP(&format, "format", "f", "json", "生成的文件格式，e.g `json或txt`。")

	return channelCmd
}

// newRadioClient 校验配置文件并创建电台客户端
func newRadioClient() (radio.Client, error) {
	// 校验配置文件
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return sr.NewClient(conf.SR, conf.ServerHost, conf.Headers, conf.Timeout, conf.Retries,
		conf.ChExcludeRule, conf.ChGroupRulesList)
}
