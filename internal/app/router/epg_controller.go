package router

import (
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"net/http"
	"radio/internal/app/radio"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	xmltvGenInfoName = "radio"
	xmltvLang        = "sv"
	xmltvTimeLayout  = "20060102150405 -0700"

	xmltvGzipFilename = "epg.xml.gz"
)

// ChannelJsonEPG 频道的JSON格式节目单
type ChannelJsonEPG struct {
	ChannelID   int       `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	EPGData     []JsonEPG `json:"epg_data"`
}

// JsonEPG JSON格式节目
type JsonEPG struct {
	Title string `json:"title"` // 标题
	Name  string `json:"name"`  // 节目名称
	Desc  string `json:"desc"`  // 描述
	Start string `json:"start"` // 开始时间
	End   string `json:"end"`   // 结束时间
	Ended bool   `json:"ended"` // 是否已播放结束
	OnAir bool   `json:"on_air"`
}

// lookupChannel 根据请求参数id查询频道，失败时已写入响应
func (h *Handler) lookupChannel(c *gin.Context) (*radio.Channel, bool) {
	catalog := h.snapshot()
	if catalog == nil {
		c.Status(http.StatusNotFound)
		return nil, false
	}

	id, err := strconv.Atoi(c.Query("id"))
	if err != nil {
		h.logger.Warn("The id of the channel is invalid.", zap.String("id", c.Query("id")))
		c.Status(http.StatusBadRequest)
		return nil, false
	}

	channel, ok := catalog.Channel(id)
	if !ok {
		c.Status(http.StatusNotFound)
		return nil, false
	}
	return channel, true
}

// GetJsonEPG 获取频道在时间窗口内的节目单
func (h *Handler) GetJsonEPG(c *gin.Context) {
	channel, ok := h.lookupChannel(c)
	if !ok {
		return
	}

	now := h.now()
	epgData := make([]JsonEPG, 0, len(channel.Schedule))
	for _, program := range channel.Schedule {
		epgData = append(epgData, JsonEPG{
			Title: program.Title,
			Name:  program.Name,
			Desc:  program.Description,
			Start: radio.FormatDisplay(program.Start, h.displayLoc),
			End:   radio.FormatDisplay(program.End, h.displayLoc),
			Ended: program.HasEnded(now),
			OnAir: program.IsOnAir(now),
		})
	}

	// 返回最终响应
	c.PureJSON(http.StatusOK, &ChannelJsonEPG{
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		EPGData:     epgData,
	})
}

// GetProgramDetail 获取节目单中第index个节目的详情
func (h *Handler) GetProgramDetail(c *gin.Context) {
	channel, ok := h.lookupChannel(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Query("index"))
	if err != nil || index < 0 {
		c.Status(http.StatusBadRequest)
		return
	}
	if index >= len(channel.Schedule) {
		c.Status(http.StatusNotFound)
		return
	}

	c.PureJSON(http.StatusOK, channel.Schedule[index].Detail(h.displayLoc))
}

// XmlEPG XMLTV格式的EPG
type XmlEPG struct {
	XMLName           xml.Name          `xml:"tv"`
	GeneratorInfoName string            `xml:"generator-info-name,attr,omitempty"`
	Channels          []XmlEPGChannel   `xml:"channel,omitempty"`
	Programmes        []XmlEPGProgramme `xml:"programme,omitempty"`
}

type XmlEPGChannel struct {
	Id          string         `xml:"id,attr"`
	DisplayName *XmlEPGDisplay `xml:"display-name"`
	Icon        *XmlEPGIcon    `xml:"icon,omitempty"`
	URL         string         `xml:"url,omitempty"`
}

type XmlEPGProgramme struct {
	Start    string         `xml:"start,attr"`
	Stop     string         `xml:"stop,attr"`
	Channel  string         `xml:"channel,attr"`
	Title    *XmlEPGDisplay `xml:"title"`
	SubTitle *XmlEPGDisplay `xml:"sub-title,omitempty"`
	Desc     *XmlEPGDisplay `xml:"desc,omitempty"`
	Icon     *XmlEPGIcon    `xml:"icon,omitempty"`
}

type XmlEPGDisplay struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

type XmlEPGIcon struct {
	Src string `xml:"src,attr"`
}

// GetXmlEPG 返回XMLTV格式的EPG
func (h *Handler) GetXmlEPG(c *gin.Context) {
	catalog := h.snapshot()
	if catalog == nil {
		c.Status(http.StatusNotFound)
		return
	}

	c.XML(http.StatusOK, getXmlEPG(catalog, h.displayLoc))
}

func (h *Handler) GetXmlEPGWithGzip(c *gin.Context) {
	catalog := h.snapshot()
	if catalog == nil {
		c.Status(http.StatusNotFound)
		return
	}

	// 将结构体数据转换为XML，并进行格式化
	xmlData, err := xml.MarshalIndent(getXmlEPG(catalog, h.displayLoc), "", "  ")
	if err != nil {
		h.logger.Error("Failed to marshal xml.", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	// 设置HTTP头，通知浏览器这是一个gzip压缩文件
	c.Header("Content-Type", "application/gzip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", xmltvGzipFilename)) // 指定下载文件名
	c.Status(http.StatusOK)

	// 创建一个gzip压缩的Writer，并将XML数据写入其中
	gzipWriter := gzip.NewWriter(c.Writer)
	defer gzipWriter.Close()

	// 写入xml头
	if _, err = gzipWriter.Write([]byte(xml.Header)); err != nil {
		h.logger.Error("Failed to write xml header.", zap.Error(err))
		return
	}

	// 写入xml内容
	if _, err = gzipWriter.Write(xmlData); err != nil {
		h.logger.Error("Failed to write xml data.", zap.Error(err))
		return
	}
}

// getXmlEPG 将频道节目单转为xmltv格式
func getXmlEPG(catalog *radio.Catalog, loc *time.Location) *XmlEPG {
	channels := make([]XmlEPGChannel, 0, len(catalog.Channels))
	programmes := make([]XmlEPGProgramme, 0)
	for _, channel := range catalog.Channels {
		chID := strconv.Itoa(channel.ID)

		// 获取频道的相关信息
		xmlChannel := XmlEPGChannel{
			Id: chID,
			DisplayName: &XmlEPGDisplay{
				Lang:  xmltvLang,
				Value: channel.Name,
			},
			URL: channel.SiteURL,
		}
		if channel.ImageURL != "" {
			xmlChannel.Icon = &XmlEPGIcon{Src: channel.ImageURL}
		}
		channels = append(channels, xmlChannel)

		for _, program := range channel.Schedule {
			// 获取节目的相关信息
			programme := XmlEPGProgramme{
				Start:   program.Start.In(loc).Format(xmltvTimeLayout),
				Stop:    program.End.In(loc).Format(xmltvTimeLayout),
				Channel: chID,
				Title: &XmlEPGDisplay{
					Lang:  xmltvLang,
					Value: program.Title,
				},
			}
			if program.Subtitle != "" {
				programme.SubTitle = &XmlEPGDisplay{Lang: xmltvLang, Value: program.Subtitle}
			}
			if program.Description != "" {
				programme.Desc = &XmlEPGDisplay{Lang: xmltvLang, Value: program.Description}
			}
			if program.ImageURL != "" {
				programme.Icon = &XmlEPGIcon{Src: program.ImageURL}
			}
			programmes = append(programmes, programme)
		}
	}

	return &XmlEPG{
		GeneratorInfoName: xmltvGenInfoName,
		Channels:          channels,
		Programmes:        programmes,
	}
}
