package chain

import (
	"github.com/kyson-dev/chain-helm/internal/document"
)

// ChainGroupStage 用家宽节点组装链式组
// 没有家宽节点时退化为只包含中转组的 select
type ChainGroupStage struct{}

func (s *ChainGroupStage) Name() string {
	return "chain-group"
}

func (s *ChainGroupStage) Apply(doc *document.Document, ctx *BuildContext) error {
	opts := ctx.Profile.opts
	group := map[string]any{
		document.KeyName: opts.ChainGroupName,
	}

	if len(ctx.ChainNodes) > 0 {
		group[document.KeyType] = document.GroupURLTest
		group["url"] = opts.Probe.URL
		group["interval"] = opts.Probe.Interval
		group["tolerance"] = opts.Probe.Tolerance
		group["lazy"] = opts.Probe.Lazy
		group[document.KeyProxies] = append([]string(nil), ctx.ChainNodes...)
	} else {
		group[document.KeyType] = document.GroupSelect
		group[document.KeyProxies] = []string{ctx.RelayGroup}
	}

	ctx.ChainGroup = group
	ctx.Report.ChainGroupType = document.GroupType(group)
	return nil
}
