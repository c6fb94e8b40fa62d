package sr

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"radio/internal/app/radio"
	"regexp"
	"time"

	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

const (
	minRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff = 3 * time.Second
)

type Client struct {
	httpClient *req.Client // HTTP客户端
	config     *Config     // SR接口相关配置

	chExcludeRule    *regexp.Regexp            // 频道的过滤规则
	chGroupRulesList []radio.ChannelGroupRules // 频道分组规则

	now    func() time.Time
	logger *zap.Logger // 日志
}

var _ radio.Client = (*Client)(nil)

func NewClient(config *Config, serverHost string, headers map[string]string, timeout time.Duration, retries int,
	chExcludeRule *regexp.Regexp, chGroupRulesList []radio.ChannelGroupRules) (radio.Client, error) {
	// config不能为空
	if config == nil {
		return nil, fmt.Errorf("client config is nil")
	} else if err := config.Validate(); err != nil { // 校验config配置
		return nil, err
	}

	// 服务器地址必须配置
	if serverHost == "" {
		return nil, fmt.Errorf("serverHost is empty")
	}

	httpClient := req.C().
		SetBaseURL(serverHost).
		SetTimeout(timeout).
		// 由XML解码器根据文档声明处理字符集
		DisableAutoDecode().
		SetCommonQueryParam("pagination", "false").
		SetCommonRetryCount(retries).
		SetCommonRetryBackoffInterval(minRetryBackoff, maxRetryBackoff).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			return err != nil || (resp != nil && resp.Response != nil && resp.StatusCode >= http.StatusInternalServerError)
		})
	// 设置自定义HTTP请求头
	if len(headers) > 0 {
		httpClient.SetCommonHeaders(headers)
	}

	c := Client{
		httpClient:       httpClient,
		config:           config,
		chExcludeRule:    chExcludeRule,
		chGroupRulesList: chGroupRulesList,
		now:              radio.Now,
		logger:           zap.L(),
	}
	return &c, nil
}

// getFeed 请求接口并返回XML文档内容
func (c *Client) getFeed(ctx context.Context, path string, params map[string]string) (*bytes.Reader, error) {
	// 执行请求
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", radio.ErrNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http status code: %d", radio.ErrNetwork, resp.StatusCode)
	}

	return bytes.NewReader(resp.Bytes()), nil
}
