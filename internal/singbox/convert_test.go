package singbox

import (
	"encoding/json"
	"testing"

	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainedDocument() *document.Document {
	doc := document.New()
	doc.Proxies = []map[string]any{
		{"name": "HK-01", "type": "ss", "server": "1.2.3.4", "port": 8388, "cipher": "aes-128-gcm", "password": "pw"},
		{
			"name": "US 家宽", "type": "trojan", "server": "us.example.com", "port": 443, "password": "pw",
			"sni": "us.example.com", "dialer-proxy": "节点选择", "skip-cert-verify": true, "udp": true,
		},
		{"name": "broken", "type": "ss"},
		{"name": "wg", "type": "wireguard", "server": "5.6.7.8", "port": 51820},
	}
	doc.ProxyGroups = []map[string]any{
		{"name": "节点选择", "type": "select", "proxies": []string{"HK-01", "DIRECT"}},
		{"name": "🔗 链式家宽", "type": "url-test", "url": "http://www.gstatic.com/generate_204", "interval": 300, "tolerance": 150, "proxies": []string{"US 家宽"}},
		{"name": "Chain", "type": "relay", "proxies": []string{"HK-01"}},
		{"name": "Empty", "type": "select", "proxies": []string{"wg"}},
	}
	return doc
}

func byTag(outs []map[string]any) map[string]map[string]any {
	m := make(map[string]map[string]any, len(outs))
	for _, o := range outs {
		m[o["tag"].(string)] = o
	}
	return m
}

func TestOutbounds_ChainDetour(t *testing.T) {
	res := Outbounds(chainedDocument())
	outs := byTag(res.Outbounds)

	home := outs["US 家宽"]
	require.NotNil(t, home)
	assert.Equal(t, "trojan", home["type"])
	assert.Equal(t, "节点选择", home["detour"])
	tls := home["tls"].(map[string]any)
	assert.Equal(t, true, tls["enabled"])
	assert.Equal(t, true, tls["insecure"])
	assert.Equal(t, "us.example.com", tls["server_name"])

	chain := outs["🔗 链式家宽"]
	assert.Equal(t, "urltest", chain["type"])
	assert.Equal(t, "300s", chain["interval"])
	assert.Equal(t, 150, chain["tolerance"])
	assert.Equal(t, []string{"US 家宽"}, chain["outbounds"])

	assert.Equal(t, []string{"HK-01", TagDirect}, outs["节点选择"]["outbounds"])
	assert.Equal(t, []string{TagDirect}, outs["Empty"]["outbounds"])
	assert.Contains(t, outs, TagDirect)
	assert.Contains(t, outs, TagBlock)
	assert.NotContains(t, outs, "Chain")
}

func TestOutbounds_Skipped(t *testing.T) {
	res := Outbounds(chainedDocument())

	names := []string{}
	for _, s := range res.Skipped {
		names = append(names, s.Name)
	}
	assert.ElementsMatch(t, []string{"broken", "wg", "Chain"}, names)
}

func TestOutbounds_ReservedTagRenamed(t *testing.T) {
	doc := document.New()
	doc.Proxies = []map[string]any{
		{"name": "direct", "type": "http", "server": "1.1.1.1", "port": 80},
	}
	doc.ProxyGroups = []map[string]any{
		{"name": "Proxy", "type": "select", "proxies": []string{"direct"}},
	}

	outs := byTag(Outbounds(doc).Outbounds)

	assert.Equal(t, "http", outs["direct #2"]["type"])
	assert.Equal(t, []string{"direct #2"}, outs["Proxy"]["outbounds"])
	assert.Equal(t, "direct", outs[TagDirect]["type"])
}

func TestOutbounds_UnknownDialerDropped(t *testing.T) {
	doc := document.New()
	doc.Proxies = []map[string]any{
		{"name": "n", "type": "socks5", "server": "1.1.1.1", "port": 1080, "dialer-proxy": "missing", "udp": false},
	}

	outs := byTag(Outbounds(doc).Outbounds)

	assert.NotContains(t, outs["n"], "detour")
	assert.Equal(t, "tcp", outs["n"]["network"])
	assert.Equal(t, "socks", outs["n"]["type"])
}

func TestProxyToOutbound_Transport(t *testing.T) {
	out, err := proxyToOutbound(map[string]any{
		"type": "vmess", "server": "v.example.com", "port": 443, "uuid": "id",
		"tls": true, "network": "ws",
		"ws-opts": map[string]any{"path": "/ws", "headers": map[string]any{"Host": "cdn.example.com"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "auto", out["security"])
	transport := out["transport"].(map[string]any)
	assert.Equal(t, "ws", transport["type"])
	assert.Equal(t, "/ws", transport["path"])
	assert.Equal(t, map[string]string{"Host": "cdn.example.com"}, transport["headers"])
}

func TestConvert_Marshal(t *testing.T) {
	opts, skipped, err := Convert(chainedDocument())
	require.NoError(t, err)
	assert.Len(t, skipped, 3)

	data, err := Marshal(opts)
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))
	outbounds, ok := parsed["outbounds"].([]any)
	require.True(t, ok)
	assert.Len(t, outbounds, 7)
}

func TestConvert_HTTPWithoutUDP(t *testing.T) {
	doc := document.New()
	doc.Proxies = []map[string]any{
		{"name": "H", "type": "http", "server": "h.example.com", "port": 80, "udp": false},
		{"name": "S", "type": "socks5", "server": "s.example.com", "port": 1080, "udp": false},
	}
	doc.ProxyGroups = []map[string]any{
		{"name": "G", "type": "select", "proxies": []string{"H", "S"}},
	}

	outs := byTag(Outbounds(doc).Outbounds)
	assert.NotContains(t, outs["H"], "network")
	assert.Equal(t, "tcp", outs["S"]["network"])

	opts, skipped, err := Convert(doc)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Len(t, opts.Outbounds, 5)
}

func TestDecodeOutbounds_SkipsRejected(t *testing.T) {
	maps := []map[string]any{
		{"type": "http", "tag": "H", "server": "h.example.com", "server_port": 80, "network": "tcp"},
		{"type": "socks", "tag": "S", "server": "s.example.com", "server_port": 1080, "detour": "H"},
		{"type": "selector", "tag": "G", "outbounds": []string{"H", "S"}},
		{"type": "selector", "tag": "Only", "outbounds": []string{"H"}},
		{"type": "direct", "tag": TagDirect},
	}

	outbounds, skipped, err := decodeOutbounds(maps)
	require.NoError(t, err)

	require.Len(t, skipped, 1)
	assert.Equal(t, "H", skipped[0].Name)
	assert.Len(t, outbounds, 4)

	assert.NotContains(t, maps[1], "detour")
	assert.Equal(t, []string{"S"}, maps[2]["outbounds"])
	assert.Equal(t, []string{TagDirect}, maps[3]["outbounds"])
}

func TestOutbounds_RelayGroupReason(t *testing.T) {
	res := Outbounds(chainedDocument())

	var reason string
	for _, s := range res.Skipped {
		if s.Name == "Chain" {
			reason = s.Reason
		}
	}
	assert.Contains(t, reason, "dialer-proxy")
}
