package chain

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// InfraExclusion 决定哪些 select 组被视为基础组（不注入链式选项）
type InfraExclusion string

const (
	// InfraKeywordList 名字包含任一中转优先级关键字的组都是基础组
	InfraKeywordList InfraExclusion = "keyword-list"
	// InfraRelayNameOnly 只有被选中的中转组本身是基础组
	InfraRelayNameOnly InfraExclusion = "relay-name-only"
)

// GroupOrdering 决定链式组在 proxy-groups 中的摆放方式
type GroupOrdering string

const (
	// OrderAnchorOnly 插在锚点组之后，不调整其他组
	OrderAnchorOnly GroupOrdering = "anchor-only"
	// OrderNormalizeManualAuto 先把自动组挪到手动组后面，再插入
	OrderNormalizeManualAuto GroupOrdering = "normalize-manual-auto"
)

var (
	ErrInvalidPolicy = errors.New("invalid policy")
	ErrEmptyName     = errors.New("name cannot be empty")
)

// Probe url-test 健康检查参数
type Probe struct {
	URL       string `yaml:"url"`
	Interval  int    `yaml:"interval"`
	Tolerance int    `yaml:"tolerance"`
	Lazy      bool   `yaml:"lazy"`
}

// RuleProvider 远程规则集描述
type RuleProvider struct {
	Type     string `yaml:"type"`
	Behavior string `yaml:"behavior"`
	Format   string `yaml:"format,omitempty"`
	URL      string `yaml:"url"`
	Path     string `yaml:"path"`
	Interval int    `yaml:"interval"`
}

func (rp RuleProvider) toMap() map[string]any {
	m := map[string]any{
		"type":     rp.Type,
		"behavior": rp.Behavior,
		"url":      rp.URL,
		"path":     rp.Path,
		"interval": rp.Interval,
	}
	if rp.Format != "" {
		m["format"] = rp.Format
	}
	return m
}

// Options 链式改写的全部可配置项
// 所有 pattern 都按大小写不敏感编译，关键字列表按子串匹配且区分大小写
type Options struct {
	// RelayPriority 中转组关键字，按顺序尝试
	RelayPriority []string `yaml:"relay-priority"`
	// DefaultRelay 没有任何组命中时使用的中转组名
	DefaultRelay string `yaml:"default-relay"`

	HomePattern           string `yaml:"home-pattern"`
	ChainGroupName        string `yaml:"chain-group-name"`
	AIPattern             string `yaml:"ai-pattern"`
	ExcludePattern        string `yaml:"exclude-pattern"`
	NormalPriorityPattern string `yaml:"normal-priority-pattern"`

	AutoKeywords   []string `yaml:"auto-keywords"`
	ManualKeywords []string `yaml:"manual-keywords"`

	Probe Probe `yaml:"probe"`

	RuleProviders map[string]RuleProvider `yaml:"rule-providers"`
	// ChainRules 不含目标的规则前缀，目标统一为链式组
	ChainRules []string `yaml:"chain-rules"`

	InfraExclusion InfraExclusion `yaml:"infra-exclusion"`
	GroupOrdering  GroupOrdering  `yaml:"group-ordering"`
}

const (
	ruleSetBase = "https://cdn.jsdelivr.net/gh/zuluion/Clash-Template-Config@master/Filter/"
	acl4ssrBase = "https://raw.githubusercontent.com/ACL4SSR/ACL4SSR/master/Clash/"
	oneDay      = 86400
)

// DefaultOptions 返回内置配置
func DefaultOptions() Options {
	return Options{
		RelayPriority:         []string{"手动选择", "Hand", "节点选择", "Proxy", "代理", "自动选择", "Auto"},
		DefaultRelay:          "自动选择",
		HomePattern:           `家宽|住宅|ISP|Residential|落地`,
		ChainGroupName:        "🔗 链式家宽",
		AIPattern:             `AI|GPT|Claude|Gemini|Copilot|LLM`,
		ExcludePattern:        `国内|China|CN|Direct|直连|哔哩|Bili|Game|Steam|Download|BT`,
		NormalPriorityPattern: `hentai`,
		AutoKeywords:          []string{"自动", "Auto"},
		ManualKeywords:        []string{"手动", "节点", "Hand", "Proxy"},
		Probe: Probe{
			URL:       "http://www.gstatic.com/generate_204",
			Interval:  300,
			Tolerance: 150,
			Lazy:      true,
		},
		RuleProviders: map[string]RuleProvider{
			"OpenAI": classicalProvider("OpenAI"),
			"Gemini": classicalProvider("Gemini"),
			"Claude": classicalProvider("Claude"),
			"ChinaDomain": {
				Type:     "http",
				Behavior: "domain",
				URL:      acl4ssrBase + "ChinaDomain.list",
				Path:     "./rules/ChinaDomain.list",
				Interval: oneDay,
			},
			"ChinaCompanyIp": {
				Type:     "http",
				Behavior: "ipcidr",
				URL:      acl4ssrBase + "ChinaCompanyIp.list",
				Path:     "./rules/ChinaCompanyIp.list",
				Interval: oneDay,
			},
		},
		ChainRules: []string{
			"PROCESS-NAME,ChatGPT.exe",
			"PROCESS-NAME,ChatGPT",
			"RULE-SET,OpenAI",
			"RULE-SET,Gemini",
			"RULE-SET,Claude",
			"DOMAIN-SUFFIX,oaistatic.com",
			"DOMAIN-SUFFIX,cdn.oaistatic.com",
			"DOMAIN-SUFFIX,gstatic.com",
		},
		InfraExclusion: InfraKeywordList,
		GroupOrdering:  OrderAnchorOnly,
	}
}

func classicalProvider(name string) RuleProvider {
	return RuleProvider{
		Type:     "http",
		Behavior: "classical",
		Format:   "yaml",
		URL:      ruleSetBase + name + ".yaml",
		Path:     "./rules/" + name + ".yaml",
		Interval: oneDay,
	}
}

// LoadOptions 读取 YAML 配置并覆盖到默认值上
// 列表字段整体替换，rule-providers 按 key 合并
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	content, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read profile: %w", err)
	}
	if err := yaml.Unmarshal(content, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return opts, nil
}

// Compile 校验并编译为不可变的 Profile
func (o Options) Compile() (*Profile, error) {
	if o.ChainGroupName == "" {
		return nil, fmt.Errorf("chain-group-name: %w", ErrEmptyName)
	}
	if o.DefaultRelay == "" {
		return nil, fmt.Errorf("default-relay: %w", ErrEmptyName)
	}
	switch o.InfraExclusion {
	case "":
		o.InfraExclusion = InfraKeywordList
	case InfraKeywordList, InfraRelayNameOnly:
	default:
		return nil, fmt.Errorf("%w: infra-exclusion %q", ErrInvalidPolicy, o.InfraExclusion)
	}
	switch o.GroupOrdering {
	case "":
		o.GroupOrdering = OrderAnchorOnly
	case OrderAnchorOnly, OrderNormalizeManualAuto:
	default:
		return nil, fmt.Errorf("%w: group-ordering %q", ErrInvalidPolicy, o.GroupOrdering)
	}

	p := &Profile{opts: o.clone()}
	var err error
	if p.home, err = compilePattern("home-pattern", o.HomePattern); err != nil {
		return nil, err
	}
	if p.ai, err = compilePattern("ai-pattern", o.AIPattern); err != nil {
		return nil, err
	}
	if p.exclude, err = compilePattern("exclude-pattern", o.ExcludePattern); err != nil {
		return nil, err
	}
	if p.normal, err = compilePattern("normal-priority-pattern", o.NormalPriorityPattern); err != nil {
		return nil, err
	}
	return p, nil
}

// compilePattern 空 pattern 返回 nil，表示永不匹配
func compilePattern(field, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", field, err)
	}
	return re, nil
}

func (o Options) clone() Options {
	c := o
	c.RelayPriority = slices.Clone(o.RelayPriority)
	c.AutoKeywords = slices.Clone(o.AutoKeywords)
	c.ManualKeywords = slices.Clone(o.ManualKeywords)
	c.ChainRules = slices.Clone(o.ChainRules)
	c.RuleProviders = make(map[string]RuleProvider, len(o.RuleProviders))
	for k, v := range o.RuleProviders {
		c.RuleProviders[k] = v
	}
	return c
}
