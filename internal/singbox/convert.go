package singbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/logger"
	"github.com/sagernet/sing-box/include"
	"github.com/sagernet/sing-box/option"
	singboxjson "github.com/sagernet/sing/common/json"
	"github.com/samber/lo"
)

// Skipped 无法转换的条目
type Skipped struct {
	Name   string
	Reason string
}

// Result 转换结果，Outbounds 为 sing-box 出站的原始 map 形式
type Result struct {
	Outbounds []map[string]any
	Skipped   []Skipped
}

// Outbounds 把 Clash 文档的节点和分组转换成 sing-box 出站
// dialer-proxy 转为 detour，select 转为 selector，url-test/fallback/load-balance 转为 urltest
func Outbounds(doc *document.Document) Result {
	var res Result
	used := make(map[string]bool)
	// Clash 名字 -> sing-box tag
	tagMapping := make(map[string]string)

	type pending struct {
		name     string
		source   map[string]any
		outbound map[string]any
	}
	var nodes, groups []pending

	// Pass 1: 转换并分配 tag
	for _, proxy := range doc.Proxies {
		name := document.ReadString(proxy, document.KeyName)
		if name == "" {
			res.Skipped = append(res.Skipped, Skipped{Reason: "proxy without name"})
			continue
		}
		out, err := proxyToOutbound(proxy)
		if err != nil {
			logger.Debug("Skipping proxy node", "name", name, "error", err.Error())
			res.Skipped = append(res.Skipped, Skipped{Name: name, Reason: err.Error()})
			continue
		}
		tagMapping[name] = makeUniqueTag(name, used)
		nodes = append(nodes, pending{name: name, source: proxy, outbound: out})
	}

	for _, g := range doc.ProxyGroups {
		name := document.GroupName(g)
		if name == "" {
			res.Skipped = append(res.Skipped, Skipped{Reason: "group without name"})
			continue
		}
		out := groupToOutbound(g)
		if out == nil {
			reason := "unsupported group type " + document.GroupType(g)
			// relay 的逐跳链路在 sing-box 中需要用 detour 表达
			if document.GroupType(g) == document.GroupRelay {
				reason = "relay group has no sing-box equivalent, use dialer-proxy"
			}
			res.Skipped = append(res.Skipped, Skipped{Name: name, Reason: reason})
			continue
		}
		tagMapping[name] = makeUniqueTag(name, used)
		groups = append(groups, pending{name: name, source: g, outbound: out})
	}

	resolve := func(ref string) (string, bool) {
		if tag, ok := builtinTargets[ref]; ok {
			return tag, true
		}
		tag, ok := tagMapping[ref]
		return tag, ok
	}

	// Pass 2: 应用 tag 并修正 detour / outbounds 引用
	for _, n := range nodes {
		n.outbound["tag"] = tagMapping[n.name]
		if dialer := document.ReadString(n.source, document.KeyDialerProxy); dialer != "" {
			if tag, ok := resolve(dialer); ok {
				n.outbound["detour"] = tag
			} else {
				logger.Warn("Dropping unknown dialer-proxy", "node", n.name, "dialer", dialer)
			}
		}
		res.Outbounds = append(res.Outbounds, n.outbound)
	}

	for _, g := range groups {
		members, _ := document.GroupProxies(g.source)
		refs := make([]string, 0, len(members))
		for _, m := range members {
			if tag, ok := resolve(m); ok && tag != tagMapping[g.name] {
				refs = append(refs, tag)
			}
		}
		if len(refs) == 0 {
			logger.Warn("Group has no convertible members, falling back to direct", "group", g.name)
			refs = []string{TagDirect}
		}
		g.outbound["tag"] = tagMapping[g.name]
		g.outbound["outbounds"] = refs
		res.Outbounds = append(res.Outbounds, g.outbound)
	}

	res.Outbounds = append(res.Outbounds,
		map[string]any{"type": "direct", "tag": TagDirect},
		map[string]any{"type": "block", "tag": TagBlock},
	)
	return res
}

func groupToOutbound(g map[string]any) map[string]any {
	switch document.GroupType(g) {
	case document.GroupSelect:
		return map[string]any{"type": "selector"}
	case document.GroupURLTest, document.GroupFallback, document.GroupLoadBalance:
		out := map[string]any{"type": "urltest"}
		if url := document.ReadString(g, "url"); url != "" {
			out["url"] = url
		}
		if interval := document.ReadInt(g, "interval"); interval > 0 {
			out["interval"] = fmt.Sprintf("%ds", interval)
		}
		if tolerance := document.ReadInt(g, "tolerance"); tolerance > 0 {
			out["tolerance"] = tolerance
		}
		return out
	default:
		return nil
	}
}

// Convert 转换为 sing-box Options
// 解码失败的出站记入 Skipped，其余出站中对它的引用一并去掉
func Convert(doc *document.Document) (*option.Options, []Skipped, error) {
	res := Outbounds(doc)
	outbounds, skipped, err := decodeOutbounds(res.Outbounds)
	if err != nil {
		return nil, res.Skipped, err
	}
	return &option.Options{Outbounds: outbounds}, append(res.Skipped, skipped...), nil
}

func decodeOutbounds(maps []map[string]any) ([]option.Outbound, []Skipped, error) {
	var skipped []Skipped
	failed := make(map[string]bool)
	decoded := make([]option.Outbound, len(maps))
	for i, m := range maps {
		if err := applyMapToOutbound(&decoded[i], m); err != nil {
			tag, _ := m["tag"].(string)
			logger.Warn("Skipping outbound sing-box rejects", "tag", tag, "error", err.Error())
			skipped = append(skipped, Skipped{Name: tag, Reason: err.Error()})
			failed[tag] = true
		}
	}

	outbounds := make([]option.Outbound, 0, len(maps))
	for i, m := range maps {
		tag, _ := m["tag"].(string)
		if failed[tag] {
			continue
		}
		if len(failed) > 0 && pruneRefs(m, failed) {
			decoded[i] = option.Outbound{}
			if err := applyMapToOutbound(&decoded[i], m); err != nil {
				return nil, skipped, fmt.Errorf("failed to convert outbound %s: %w", tag, err)
			}
		}
		outbounds = append(outbounds, decoded[i])
	}
	return outbounds, skipped, nil
}

// pruneRefs 去掉指向 failed 的 detour 和组成员，返回是否有改动
func pruneRefs(m map[string]any, failed map[string]bool) bool {
	changed := false
	if detour, ok := m["detour"].(string); ok && failed[detour] {
		delete(m, "detour")
		changed = true
	}
	refs, ok := m["outbounds"].([]string)
	if !ok {
		return changed
	}
	kept := lo.Reject(refs, func(ref string, _ int) bool {
		return failed[ref]
	})
	if len(kept) == len(refs) {
		return changed
	}
	if len(kept) == 0 {
		kept = []string{TagDirect}
	}
	m["outbounds"] = kept
	return true
}

// Marshal 使用 sing-box 的 JSON 序列化并格式化输出
func Marshal(opts *option.Options) ([]byte, error) {
	data, err := singboxjson.Marshal(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var pretty any
	if err := json.Unmarshal(data, &pretty); err != nil {
		return nil, fmt.Errorf("failed to unmarshal for pretty print: %w", err)
	}
	data, err = json.MarshalIndent(pretty, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal indent: %w", err)
	}
	return data, nil
}

// applyMapToOutbound 将 map 配置应用到 Outbound 结构体
func applyMapToOutbound(out *option.Outbound, m map[string]any) error {
	data, err := singboxjson.Marshal(m)
	if err != nil {
		return err
	}
	// 使用 context 确保类型注册
	ctx := include.Context(context.Background())
	return singboxjson.UnmarshalContext(ctx, data, out)
}
