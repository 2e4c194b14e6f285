package document

import (
	"fmt"
	"strings"
)

// Rule 一条规则子句 KIND,MATCH,TARGET[,PARAMS...]
// MATCH 类规则只有 KIND,TARGET 两段
type Rule struct {
	Kind   string
	Match  string
	Target string
	Params []string
}

// RuleKinds Clash 规则类型集合
var RuleKinds = newSet(
	"DOMAIN", "DOMAIN-SUFFIX", "DOMAIN-KEYWORD", "DOMAIN-REGEX", "GEOSITE",
	"IP-CIDR", "IP-CIDR6", "IP-SUFFIX", "IP-ASN", "GEOIP", "SRC-GEOIP", "SRC-IP-ASN",
	"SRC-IP-CIDR", "SRC-IP-SUFFIX", "DST-PORT", "SRC-PORT", "IN-PORT", "IN-TYPE",
	"IN-USER", "IN-NAME", "PROCESS-PATH", "PROCESS-PATH-REGEX", "PROCESS-NAME",
	"PROCESS-NAME-REGEX", "UID", "NETWORK", "DSCP", "RULE-SET", "AND", "OR", "NOT",
	"SUB-RULE", "MATCH",
)

type set map[string]struct{}

func newSet(items ...string) set {
	s := make(set, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s set) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// ParseRule 解析规则字符串
// 逻辑规则 (AND/OR/NOT) 的 MATCH 段带括号和逗号，只拆出 KIND 和最后的 TARGET
func ParseRule(line string) (Rule, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Rule{}, fmt.Errorf("empty rule")
	}

	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	kind := strings.ToUpper(parts[0])

	switch kind {
	case "MATCH":
		if len(parts) < 2 {
			return Rule{}, fmt.Errorf("rule %q: missing target", line)
		}
		return Rule{Kind: kind, Target: parts[1], Params: parts[2:]}, nil
	case "AND", "OR", "NOT":
		end := strings.LastIndex(line, ")")
		if end < 0 || end+1 >= len(line) {
			return Rule{}, fmt.Errorf("rule %q: malformed logic rule", line)
		}
		rest := strings.Split(strings.TrimPrefix(line[end+1:], ","), ",")
		match := strings.TrimSpace(line[len(parts[0])+1 : end+1])
		return Rule{Kind: kind, Match: match, Target: strings.TrimSpace(rest[0]), Params: trimAll(rest[1:])}, nil
	}

	if len(parts) < 3 {
		return Rule{}, fmt.Errorf("rule %q: must have at least 3 components", line)
	}
	return Rule{Kind: kind, Match: parts[1], Target: parts[2], Params: parts[3:]}, nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (r Rule) String() string {
	parts := []string{r.Kind}
	if r.Kind != "MATCH" {
		parts = append(parts, r.Match)
	}
	parts = append(parts, r.Target)
	parts = append(parts, r.Params...)
	return strings.Join(parts, ",")
}

// Known 判断规则类型是否被识别
func (r Rule) Known() bool {
	return RuleKinds.Has(r.Kind)
}
