package document

// 分组类型
const (
	GroupSelect      = "select"
	GroupURLTest     = "url-test"
	GroupFallback    = "fallback"
	GroupLoadBalance = "load-balance"
	GroupRelay       = "relay"
)

// 节点与分组上会被改写的字段
const (
	KeyName           = "name"
	KeyType           = "type"
	KeyProxies        = "proxies"
	KeyDialerProxy    = "dialer-proxy"
	KeySkipCertVerify = "skip-cert-verify"
	KeyUDP            = "udp"
)

func GroupName(g map[string]any) string {
	return ReadString(g, KeyName)
}

func GroupType(g map[string]any) string {
	return ReadString(g, KeyType)
}

// GroupProxies 返回分组的成员列表
// ok 为 false 表示分组没有 proxies 字段或字段不是列表
func GroupProxies(g map[string]any) (members []string, ok bool) {
	raw, exists := g[KeyProxies]
	if !exists || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, isStr := item.(string); isStr {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func SetGroupProxies(g map[string]any, members []string) {
	g[KeyProxies] = members
}
