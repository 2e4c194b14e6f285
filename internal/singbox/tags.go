package singbox

import (
	"strconv"
	"strings"
)

const (
	TagDirect = "direct"
	TagBlock  = "block"
)

// builtinTargets Clash 内置策略到 sing-box 出站的映射
var builtinTargets = map[string]string{
	"DIRECT":      TagDirect,
	"REJECT":      TagBlock,
	"REJECT-DROP": TagBlock,
}

func isReservedTag(tag string) bool {
	return tag == TagDirect || tag == TagBlock
}

// makeUniqueTag 冲突时追加 #2, #3 ...
func makeUniqueTag(base string, used map[string]bool) string {
	base = strings.TrimSpace(base)
	if base == "" {
		base = "node"
	}
	tag := base
	if isReservedTag(tag) || used[tag] {
		for i := 2; ; i++ {
			candidate := base + " #" + strconv.Itoa(i)
			if !isReservedTag(candidate) && !used[candidate] {
				tag = candidate
				break
			}
		}
	}
	used[tag] = true
	return tag
}
