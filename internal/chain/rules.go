package chain

import (
	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/samber/lo"
)

// RuleProviderStage 合并内置规则集，同名覆盖
type RuleProviderStage struct{}

func (s *RuleProviderStage) Name() string {
	return "rule-providers"
}

func (s *RuleProviderStage) Apply(doc *document.Document, ctx *BuildContext) error {
	for name, rp := range ctx.Profile.opts.RuleProviders {
		doc.RuleProviders[name] = rp.toMap()
	}
	ctx.Report.ProvidersMerged = len(ctx.Profile.opts.RuleProviders)
	return nil
}

// RuleStage 把指向链式组的规则插到最前面
type RuleStage struct{}

func (s *RuleStage) Name() string {
	return "rules"
}

func (s *RuleStage) Apply(doc *document.Document, ctx *BuildContext) error {
	block := ctx.Profile.ChainRules()

	// 去掉已有的同名规则，重复执行时规则块只出现一次
	existing := lo.Without(doc.Rules, block...)

	rules := make([]string, 0, len(block)+len(existing))
	rules = append(rules, block...)
	rules = append(rules, existing...)
	doc.Rules = rules

	ctx.Report.RulesPrepended = len(block)
	return nil
}
