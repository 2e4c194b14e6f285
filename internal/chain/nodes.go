package chain

import (
	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/logger"
)

// NodeStage 识别家宽节点并让它们经由中转组拨号
type NodeStage struct{}

func (s *NodeStage) Name() string {
	return "nodes"
}

func (s *NodeStage) Apply(doc *document.Document, ctx *BuildContext) error {
	for i, proxy := range doc.Proxies {
		name := document.ReadString(proxy, document.KeyName)
		if name == "" {
			logger.Debug("Skipping proxy without name", "index", i)
			continue
		}
		if !ctx.Profile.IsHomeNode(name) {
			continue
		}

		proxy[document.KeyDialerProxy] = ctx.RelayGroup
		proxy[document.KeySkipCertVerify] = true
		proxy[document.KeyUDP] = true
		ctx.ChainNodes = append(ctx.ChainNodes, name)
		logger.Debug("Chained home node", "name", name, "via", ctx.RelayGroup)
	}
	ctx.Report.ChainNodes = append([]string(nil), ctx.ChainNodes...)
	return nil
}
