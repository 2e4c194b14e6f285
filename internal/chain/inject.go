package chain

import (
	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/logger"
	"github.com/samber/lo"
)

// InjectStage 清洗原始家宽节点引用，并把链式组注入合适的 select 组
type InjectStage struct{}

func (s *InjectStage) Name() string {
	return "inject"
}

func (s *InjectStage) Apply(doc *document.Document, ctx *BuildContext) error {
	p := ctx.Profile
	chainName := p.ChainGroupName()
	chained := ctx.chainSet()

	for i, group := range doc.ProxyGroups {
		name := document.GroupName(group)
		// 自己包含自己会形成环
		if name != "" && name == chainName {
			continue
		}
		members, ok := document.GroupProxies(group)
		if !ok {
			continue
		}

		// 家宽节点只能通过链式组访问，所有类型的组都要清洗，没有名字的也一样
		members = lo.Reject(members, func(member string, _ int) bool {
			_, hit := chained[member]
			return hit
		})
		document.SetGroupProxies(group, members)

		if name == "" {
			logger.Debug("Skipping injection into group without name", "index", i)
			continue
		}
		if document.GroupType(group) != document.GroupSelect {
			continue
		}
		if p.IsInfrastructure(name, ctx.RelayGroup) {
			logger.Debug("Skipping infrastructure group", "group", name)
			continue
		}
		if p.IsExcluded(name) {
			logger.Debug("Skipping excluded group", "group", name)
			continue
		}
		if lo.Contains(members, chainName) {
			continue
		}

		if p.PrefersChain(name) {
			members = append([]string{chainName}, members...)
			ctx.Report.FrontInjected = append(ctx.Report.FrontInjected, name)
		} else {
			members = append(members, chainName)
			ctx.Report.BackInjected = append(ctx.Report.BackInjected, name)
		}
		document.SetGroupProxies(group, members)
	}
	return nil
}
