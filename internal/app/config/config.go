package config

import (
	"errors"
	"fmt"
	"os"
	"radio/internal/app/radio"
	"radio/internal/app/radio/sr"
	"radio/internal/pkg/logging"
	"regexp"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultServerHost  = "https://api.sr.se"
	defaultTimeout     = 10 * time.Second
	defaultRetries     = 2
	defaultConcurrency = 8
	defaultInterval    = time.Hour

	// MinInterval 自动更新间隔的下限
	MinInterval = 15 * time.Minute
)

type OptionChannelGroupRules struct {
	Name  string   `json:"name" yaml:"name"`   // 分组名称
	Rules []string `json:"rules" yaml:"rules"` // 分组规则
}

type Config struct {
	ServerHost string            `json:"serverHost" yaml:"serverHost"` // 必填，HTTP请求的接口服务器地址
	Headers    map[string]string `json:"headers" yaml:"headers"`       // 自定义HTTP请求头

	Timeout     time.Duration `json:"timeout" yaml:"timeout"`         // 单次请求的超时时间
	Retries     int           `json:"retries" yaml:"retries"`         // 单次请求失败后的重试次数
	Concurrency int           `json:"concurrency" yaml:"concurrency"` // 并发获取节目单的频道数
	Window      time.Duration `json:"window" yaml:"window"`           // 节目单保留当前时间前后的范围
	Interval    time.Duration `json:"interval" yaml:"interval"`       // 自动更新的间隔时间

	DisplayTimezone string         `json:"displayTimezone" yaml:"displayTimezone"` // 展示时间所用的时区，默认为本地时区
	DisplayLocation *time.Location `json:"-" yaml:"-"`                             // Validate()时进行填充

	OptionChExcludeRule string         `json:"chExcludeRule" yaml:"chExcludeRule"` // 频道的过滤规则
	ChExcludeRule       *regexp.Regexp `json:"-" yaml:"-"`                         // Validate()时进行填充

	OptionChGroupRulesList []OptionChannelGroupRules `json:"chGroupRules" yaml:"chGroupRules"` // 自定义频道分组规则
	ChGroupRulesList       []radio.ChannelGroupRules `json:"-" yaml:"-"`                       // Validate()时进行填充

	SR  *sr.Config         `json:"sr,omitempty" yaml:"sr,omitempty"`   // SR接口相关设置
	Log *logging.LogConfig `json:"log,omitempty" yaml:"log,omitempty"` // 日志设置
}

func (c *Config) Validate() error {
	// 校验config配置
	if c.ServerHost == "" {
		return errors.New("invalid radio config: serverHost is empty")
	}
	if c.Timeout < 0 || c.Retries < 0 || c.Concurrency < 0 || c.Window < 0 {
		return errors.New("invalid radio config: negative timeout, retries, concurrency or window")
	}
	if c.Interval != 0 && c.Interval < MinInterval {
		return fmt.Errorf("invalid radio config: interval cannot be less than %s", MinInterval)
	}

	// 填充缺省值
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Concurrency == 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.Window == 0 {
		c.Window = radio.DefaultWindow
	}
	if c.Interval == 0 {
		c.Interval = defaultInterval
	}
	if c.SR == nil {
		c.SR = &sr.Config{}
	}
	if err := c.SR.Validate(); err != nil {
		return err
	}

	// 解析展示时区
	c.DisplayLocation = time.Local
	if c.DisplayTimezone != "" {
		loc, err := time.LoadLocation(c.DisplayTimezone)
		if err != nil {
			return fmt.Errorf("invalid radio config: unknown displayTimezone %s", c.DisplayTimezone)
		}
		c.DisplayLocation = loc
	}

	// L()：获取全局logger
	logger := zap.L()

	// 填充频道的过滤规则
	c.ChExcludeRule = nil
	if c.OptionChExcludeRule != "" {
		rule, err := regexp.Compile(c.OptionChExcludeRule)
		if err != nil {
			logger.Warn("The channel exclusion rule is incorrect. Skip it.", zap.String("chExcludeRule", c.OptionChExcludeRule), zap.Error(err))
		} else {
			c.ChExcludeRule = rule
		}
	}

	// 填充频道分组的正则表达式规则
	c.ChGroupRulesList = make([]radio.ChannelGroupRules, 0, len(c.OptionChGroupRulesList))
	for _, opChGroupRules := range c.OptionChGroupRulesList {
		if opChGroupRules.Name == "" {
			logger.Warn("The channel group name is empty. Skip it.")
			continue
		} else if len(opChGroupRules.Rules) == 0 {
			logger.Warn("The channel group rule is empty. Skip it.", zap.String("name", opChGroupRules.Name))
			continue
		}

		rules := make([]*regexp.Regexp, 0, len(opChGroupRules.Rules))
		for _, ruleStr := range opChGroupRules.Rules {
			rule, err := regexp.Compile(ruleStr)
			if err != nil {
				logger.Warn("The channel group rule is incorrect. Skip it.", zap.String("name", opChGroupRules.Name), zap.String("rule", ruleStr), zap.Error(err))
				continue
			}

			rules = append(rules, rule)
		}
		if len(rules) > 0 {
			c.ChGroupRulesList = append(c.ChGroupRulesList, radio.ChannelGroupRules{
				Name:  opChGroupRules.Name,
				Rules: rules,
			})
		}
	}

	return nil
}

func Load(fPath string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(fPath)
	if err != nil {
		return nil, err
	}
	var config Config
	if err = yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// NewDefault 缺省配置
func NewDefault() *Config {
	return &Config{
		ServerHost: defaultServerHost,
		Headers: map[string]string{
			"Accept":     "application/xml,text/xml;q=0.9,*/*;q=0.8",
			"User-Agent": "radio-schedule/1.0",
		},
		Timeout:     defaultTimeout,
		Retries:     defaultRetries,
		Concurrency: defaultConcurrency,
		Window:      radio.DefaultWindow,
		Interval:    defaultInterval,
		OptionChGroupRulesList: []OptionChannelGroupRules{
			{
				Name: "Rikskanaler",
				Rules: []string{
					"^P[1-3]( .+)?$",
				},
			},
			{
				Name: "P4",
				Rules: []string{
					"^P4 .+$",
				},
			},
			{
				Name: "Minoritet och språk",
				Rules: []string{
					"^(Sisuradio|Sameradion|Radio Sweden).*$",
				},
			},
		},
		SR: &sr.Config{
			ChannelsPath: "/api/v2/channels",
			SchedulePath: "/api/v2/scheduledepisodes",
			Timezone:     "Europe/Stockholm",
		},
		Log: &logging.LogConfig{
			Level:      zapcore.InfoLevel,
			FileName:   "logs/radio.log",
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 3,
			IsStdout:   true,
		},
	}
}

func CreateDefaultCfg(fPath string) error {
	// 写入默认配置
	f, err := os.Create(fPath)
	if err != nil {
		return err
	}
	defer f.Close()

	// 创建编码器
	encoder := yaml.NewEncoder(f)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(NewDefault())
}
