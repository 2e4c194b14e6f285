package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/logger"
	"resty.dev/v3"
)

// UserAgent 订阅服务端根据 UA 决定返回格式，这里声明为 mihomo 以拿到 YAML
const UserAgent = "clash.meta/v1.19.14"

// IsRemote 判断输入是否为 http(s) 地址
func IsRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Load 读取并解析本地文件或远程订阅
func Load(ctx context.Context, location string) (*document.Document, error) {
	if !IsRemote(location) {
		return document.Load(location)
	}
	content, err := Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return document.Parse(content)
}

// Fetch 下载远程配置，失败时重试
func Fetch(ctx context.Context, url string) (body []byte, err error) {
	logger.Info("Fetching config", "url", url)

	client := resty.New().
		SetRetryCount(3).
		SetTimeout(20 * time.Second)
	defer func() {
		if closeErr := client.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	res, err := client.R().
		SetContext(ctx).
		SetHeader("User-Agent", UserAgent).
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", url, res.StatusCode())
	}
	return res.Bytes(), nil
}
