package chain

import (
	"regexp"
	"slices"
	"strings"
)

// Profile 编译后的配置，创建后不再修改，可以在 goroutine 间共享
type Profile struct {
	opts Options

	home    *regexp.Regexp
	ai      *regexp.Regexp
	exclude *regexp.Regexp
	normal  *regexp.Regexp
}

var defaultProfile = mustCompile(DefaultOptions())

func mustCompile(o Options) *Profile {
	p, err := o.Compile()
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultProfile 返回内置配置编译后的 Profile
func DefaultProfile() *Profile {
	return defaultProfile
}

// Options 返回配置副本
func (p *Profile) Options() Options {
	return p.opts.clone()
}

func (p *Profile) ChainGroupName() string {
	return p.opts.ChainGroupName
}

func match(re *regexp.Regexp, s string) bool {
	return re != nil && re.MatchString(s)
}

// IsHomeNode 节点名是否命中家宽关键字
func (p *Profile) IsHomeNode(name string) bool {
	return match(p.home, name)
}

// IsExcluded 分组名是否命中排除关键字
func (p *Profile) IsExcluded(name string) bool {
	return match(p.exclude, name)
}

// PrefersChain AI 组且没有被降权时，链式选项放到最前面
func (p *Profile) PrefersChain(name string) bool {
	if !match(p.ai, name) {
		return false
	}
	return !match(p.normal, name)
}

// IsInfrastructure 判断分组是否为基础组
func (p *Profile) IsInfrastructure(name, relay string) bool {
	if p.opts.InfraExclusion == InfraRelayNameOnly {
		return name == relay
	}
	return slices.ContainsFunc(p.opts.RelayPriority, func(keyword string) bool {
		return keyword != "" && strings.Contains(name, keyword)
	})
}

// ChainRules 生成指向链式组的完整规则
func (p *Profile) ChainRules() []string {
	rules := make([]string, 0, len(p.opts.ChainRules))
	for _, prefix := range p.opts.ChainRules {
		rules = append(rules, prefix+","+p.opts.ChainGroupName)
	}
	return rules
}
