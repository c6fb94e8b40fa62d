package cmds

import (
	"errors"
	"fmt"
	"os"
	"radio/internal/app/radio"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var channelID int

func NewEPGCLI() *cobra.Command {
	epgCmd := &cobra.Command{
		Use:   "epg",
		Short: "查询指定频道当前时间前后的节目单。",
		RunE: func(cmd *cobra.Command, args []string) error {
			if channelID <= 0 {
				return errors.New("channel id is required")
			}

			// 创建电台客户端
			client, err := newRadioClient()
			if err != nil {
				return err
			}

			// 获取频道列表并查找频道
			channels, err := client.GetAllChannelList(cmd.Context())
			if err != nil {
				return fmt.Errorf("%w: %w", radio.ErrCatalogUnavailable, err)
			}
			idx := -1
			for i := range channels {
				if channels[i].ID == channelID {
					idx = i
					break
				}
			}
			if idx < 0 {
				return fmt.Errorf("channel %d not found", channelID)
			}
			channel := &channels[idx]

			// 获取合并后的节目单并过滤
			schedule, err := client.GetChannelSchedule(cmd.Context(), channel)
			if err != nil {
				return err
			}
			now := radio.Now()
			if conf.Window == radio.DefaultWindow {
				schedule = radio.FilterWindow(schedule, now)
			} else {
				schedule = radio.NewWindow(now, conf.Window).Filter(schedule)
			}

			// 输出表格
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s (%d)\n", channel.Name, channel.ID)
			fmt.Fprintln(w, "START\tEND\tSTATE\tTITLE")
			for _, program := range schedule {
				state := ""
				if program.IsOnAir(now) {
					state = "on air"
				} else if program.HasEnded(now) {
					state = "ended"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					radio.FormatDisplay(program.Start, conf.DisplayLocation),
					radio.FormatDisplay(program.End, conf.DisplayLocation),
					state, program.Title)
			}
			return w.Flush()
		},
	}

	epgCmd.Flags().IntVar(&channelID, "id", 0, "频道ID，e.g `132`。")

	return epgCmd
}
