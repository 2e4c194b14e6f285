package chain

import (
	"github.com/kyson-dev/chain-helm/internal/document"
)

// Stage 改写流程中的一个阶段
// 各阶段按顺序作用在同一份文档上，通过 BuildContext 传递中间结果
type Stage interface {
	// Name 返回阶段名称，用于日志和调试
	Name() string
	// Apply 将阶段的改写应用到 doc 上
	Apply(doc *document.Document, ctx *BuildContext) error
}

// BuildContext 构建上下文，阶段间共享数据
type BuildContext struct {
	Profile *Profile

	// RelayGroup 链式节点的前置组
	RelayGroup string
	// ChainNodes 被改造的家宽节点，保持文档顺序
	ChainNodes []string
	// ChainGroup 新建的链式组，在 layout 阶段插入文档
	ChainGroup map[string]any

	Report *Report
}

// NewBuildContext 创建构建上下文
func NewBuildContext(p *Profile) *BuildContext {
	return &BuildContext{
		Profile:    p,
		ChainNodes: []string{},
		Report:     &Report{ChainGroupIndex: -1},
	}
}

func (c *BuildContext) chainSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.ChainNodes))
	for _, name := range c.ChainNodes {
		set[name] = struct{}{}
	}
	return set
}

// Report 一次改写的结果摘要
type Report struct {
	RelayGroup      string   `yaml:"relay-group"`
	RelayFallback   bool     `yaml:"relay-fallback"`
	ChainNodes      []string `yaml:"chain-nodes"`
	ChainGroupType  string   `yaml:"chain-group-type"`
	FrontInjected   []string `yaml:"front-injected"`
	BackInjected    []string `yaml:"back-injected"`
	AnchorGroup     string   `yaml:"anchor-group,omitempty"`
	ChainGroupIndex int      `yaml:"chain-group-index"`
	ProvidersMerged int      `yaml:"providers-merged"`
	RulesPrepended  int      `yaml:"rules-prepended"`
}
