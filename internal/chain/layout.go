package chain

import (
	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/logger"
)

// LayoutStage 把链式组插到自动/手动选择组后面
type LayoutStage struct{}

func (s *LayoutStage) Name() string {
	return "layout"
}

func (s *LayoutStage) Apply(doc *document.Document, ctx *BuildContext) error {
	opts := ctx.Profile.opts
	chainName := opts.ChainGroupName

	// 重复执行时替换上一次生成的链式组
	for i := len(doc.ProxyGroups) - 1; i >= 0; i-- {
		if document.GroupName(doc.ProxyGroups[i]) == chainName {
			doc.RemoveGroup(i)
		}
	}

	if opts.GroupOrdering == OrderNormalizeManualAuto {
		normalizeManualAuto(doc, opts)
	}

	anchor := findByKeywords(doc.ProxyGroups, opts.AutoKeywords, chainName)
	if anchor < 0 {
		anchor = findByKeywords(doc.ProxyGroups, opts.ManualKeywords, chainName)
	}

	pos := 0
	if anchor >= 0 {
		pos = anchor + 1
		ctx.Report.AnchorGroup = document.GroupName(doc.ProxyGroups[anchor])
	}
	doc.InsertGroup(pos, ctx.ChainGroup)
	ctx.Report.ChainGroupIndex = pos

	logger.Debug("Chain group placed", "index", pos, "anchor", ctx.Report.AnchorGroup)
	return nil
}

// normalizeManualAuto 把自动选择组挪到手动选择组的正后方
func normalizeManualAuto(doc *document.Document, opts Options) {
	manual := findByKeywords(doc.ProxyGroups, opts.ManualKeywords, opts.ChainGroupName)
	auto := findByKeywords(doc.ProxyGroups, opts.AutoKeywords, opts.ChainGroupName)
	if manual < 0 || auto < 0 || manual == auto || auto == manual+1 {
		return
	}

	g := doc.RemoveGroup(auto)
	if auto < manual {
		manual--
	}
	doc.InsertGroup(manual+1, g)
}
