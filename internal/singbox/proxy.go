package singbox

import (
	"fmt"
	"strings"

	"github.com/kyson-dev/chain-helm/internal/document"
)

// proxyToOutbound 把一个 Clash 节点转换成 sing-box 出站（不含 tag 和 detour）
func proxyToOutbound(m map[string]any) (map[string]any, error) {
	proxyType := strings.ToLower(document.ReadString(m, "type"))
	server := document.ReadString(m, "server")
	port := document.ReadInt(m, "port")
	if server == "" || port == 0 {
		return nil, fmt.Errorf("missing server or port")
	}

	outbound := map[string]any{
		"server":      server,
		"server_port": port,
	}

	switch proxyType {
	case "ss", "shadowsocks":
		outbound["type"] = "shadowsocks"
		outbound["method"] = document.ReadString(m, "cipher")
		outbound["password"] = document.ReadString(m, "password")
		if plugin := document.ReadString(m, "plugin"); plugin != "" {
			outbound["plugin"] = plugin
		}
	case "vmess":
		cipher := document.ReadString(m, "cipher", "security")
		if cipher == "" {
			cipher = "auto"
		}
		outbound["type"] = "vmess"
		outbound["uuid"] = document.ReadString(m, "uuid")
		outbound["security"] = cipher
		if alterID := document.ReadInt(m, "alterId", "alter-id"); alterID > 0 {
			outbound["alter_id"] = alterID
		}
	case "vless":
		outbound["type"] = "vless"
		outbound["uuid"] = document.ReadString(m, "uuid")
		if flow := document.ReadString(m, "flow"); flow != "" {
			outbound["flow"] = flow
		}
	case "trojan":
		outbound["type"] = "trojan"
		outbound["password"] = document.ReadString(m, "password")
		// trojan 在 Clash 中默认启用 TLS
		m = withDefault(m, "tls", true)
	case "hysteria2", "hy2":
		outbound["type"] = "hysteria2"
		outbound["password"] = document.ReadString(m, "password", "auth")
		if up := document.ReadInt(m, "up", "up-mbps"); up > 0 {
			outbound["up_mbps"] = up
		}
		if down := document.ReadInt(m, "down", "down-mbps"); down > 0 {
			outbound["down_mbps"] = down
		}
		m = withDefault(m, "tls", true)
	case "socks5":
		outbound["type"] = "socks"
		outbound["version"] = "5"
		applyAuth(outbound, m)
	case "http":
		outbound["type"] = "http"
		applyAuth(outbound, m)
	default:
		return nil, fmt.Errorf("unsupported proxy type: %s", proxyType)
	}

	switch proxyType {
	case "vmess", "vless", "trojan", "hysteria2", "hy2", "http":
		applyTLSOptions(outbound, m)
	}
	switch proxyType {
	case "vmess", "vless", "trojan":
		applyTransportOptions(outbound, m)
	}

	if document.ReadBool(m, document.KeySkipCertVerify) {
		if tls, ok := outbound["tls"].(map[string]any); ok {
			tls["insecure"] = true
		}
	}
	// http 出站没有 network 字段
	if v, ok := m[document.KeyUDP].(bool); ok && !v && outbound["type"] != "http" {
		outbound["network"] = "tcp"
	}

	return outbound, nil
}

func withDefault(m map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	if _, ok := out[key]; !ok {
		out[key] = value
	}
	return out
}

func applyAuth(outbound, m map[string]any) {
	if user := document.ReadString(m, "username"); user != "" {
		outbound["username"] = user
	}
	if pass := document.ReadString(m, "password"); pass != "" {
		outbound["password"] = pass
	}
}

func applyTLSOptions(outbound map[string]any, m map[string]any) {
	tlsEnabled := document.ReadBool(m, "tls")
	sni := document.ReadString(m, "sni", "servername")
	alpn := document.ReadStringList(m, "alpn")
	fingerprint := document.ReadString(m, "client-fingerprint")
	realityOpts := document.AsStringMap(m["reality-opts"])

	if !tlsEnabled && sni == "" && len(alpn) == 0 && realityOpts == nil && fingerprint == "" {
		return
	}

	tls := map[string]any{
		"enabled": true,
	}
	if sni != "" {
		tls["server_name"] = sni
	}
	if len(alpn) > 0 {
		tls["alpn"] = alpn
	}
	if fingerprint != "" {
		tls["utls"] = map[string]any{
			"enabled":     true,
			"fingerprint": fingerprint,
		}
	}
	if realityOpts != nil {
		reality := map[string]any{
			"enabled": true,
		}
		if publicKey := document.ReadString(realityOpts, "public-key"); publicKey != "" {
			reality["public_key"] = publicKey
		}
		if shortID := document.ReadString(realityOpts, "short-id"); shortID != "" {
			reality["short_id"] = shortID
		}
		tls["reality"] = reality
	}

	outbound["tls"] = tls
}

func applyTransportOptions(outbound map[string]any, m map[string]any) {
	switch strings.ToLower(document.ReadString(m, "network")) {
	case "ws", "websocket":
		transport := map[string]any{
			"type": "ws",
		}
		if wsOpts := document.AsStringMap(m["ws-opts"]); wsOpts != nil {
			if path := document.ReadString(wsOpts, "path"); path != "" {
				transport["path"] = path
			}
			if headers := document.AsStringMap(wsOpts["headers"]); len(headers) > 0 {
				normalized := make(map[string]string, len(headers))
				for k, v := range headers {
					normalized[k] = fmt.Sprint(v)
				}
				transport["headers"] = normalized
			}
		}
		outbound["transport"] = transport
	case "grpc":
		transport := map[string]any{
			"type": "grpc",
		}
		if grpcOpts := document.AsStringMap(m["grpc-opts"]); grpcOpts != nil {
			if service := document.ReadString(grpcOpts, "grpc-service-name", "service-name"); service != "" {
				transport["service_name"] = service
			}
		}
		outbound["transport"] = transport
	}
}
