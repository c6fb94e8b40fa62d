package radio

import (
	"regexp"
)

const otherGroupName = "Övrigt"

type ChannelGroupRules struct {
	Name  string
	Rules []*regexp.Regexp
}

// GetChannelGroupName 根据频道名称获取分组名称，未匹配时使用频道类型
func GetChannelGroupName(chGroupRulesList []ChannelGroupRules, channel *Channel) string {
	for _, chGroupRules := range chGroupRulesList {
		for _, groupRule := range chGroupRules.Rules {
			if groupRule.MatchString(channel.Name) {
				return chGroupRules.Name
			}
		}
	}

	if channel.Type != "" {
		return channel.Type
	}
	return otherGroupName
}
