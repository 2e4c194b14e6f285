package chain

import (
	"strings"

	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/logger"
)

// RelayStage 按优先级定位中转组
type RelayStage struct{}

func (s *RelayStage) Name() string {
	return "relay"
}

func (s *RelayStage) Apply(doc *document.Document, ctx *BuildContext) error {
	opts := ctx.Profile.opts
	idx := findByKeywords(doc.ProxyGroups, opts.RelayPriority, opts.ChainGroupName)
	if idx < 0 {
		ctx.RelayGroup = opts.DefaultRelay
		ctx.Report.RelayFallback = true
		logger.Warn("No relay group matched, using default", "relay", ctx.RelayGroup)
	} else {
		ctx.RelayGroup = document.GroupName(doc.ProxyGroups[idx])
		logger.Debug("Relay group resolved", "relay", ctx.RelayGroup)
	}
	ctx.Report.RelayGroup = ctx.RelayGroup
	return nil
}

// findByKeywords 关键字优先：对每个关键字按文档顺序找第一个名字包含它的组
// skip 用于跳过链式组本身，返回 -1 表示没有命中
func findByKeywords(groups []map[string]any, keywords []string, skip string) int {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		for i, g := range groups {
			name := document.GroupName(g)
			if name == "" || name == skip {
				continue
			}
			if strings.Contains(name, keyword) {
				return i
			}
		}
	}
	return -1
}
