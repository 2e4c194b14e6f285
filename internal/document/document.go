package document

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Document 是一份 Clash/mihomo 配置
// 只对四个集合做结构化建模，其余顶层字段原样保留在 Extra 中
type Document struct {
	Proxies       []map[string]any          `yaml:"proxies"`
	ProxyGroups   []map[string]any          `yaml:"proxy-groups"`
	Rules         []string                  `yaml:"rules"`
	RuleProviders map[string]map[string]any `yaml:"rule-providers"`

	Extra map[string]any `yaml:",inline"`
}

// New 返回集合均已初始化的空文档
func New() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize 把缺失的集合初始化为空
func (d *Document) Normalize() {
	if d.Proxies == nil {
		d.Proxies = []map[string]any{}
	}
	if d.ProxyGroups == nil {
		d.ProxyGroups = []map[string]any{}
	}
	if d.Rules == nil {
		d.Rules = []string{}
	}
	if d.RuleProviders == nil {
		d.RuleProviders = map[string]map[string]any{}
	}
}

// Parse 解析 YAML 配置
func Parse(content []byte) (*Document, error) {
	var d Document
	if err := yaml.Unmarshal(content, &d); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	d.Normalize()
	return &d, nil
}

// Load 从文件加载配置
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(content)
}

// Marshal 序列化为 YAML
func (d *Document) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save 序列化并写入文件
func (d *Document) Save(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GroupIndex 按名字查找分组，返回文档顺序中的第一个，找不到返回 -1
func (d *Document) GroupIndex(name string) int {
	for i, g := range d.ProxyGroups {
		if GroupName(g) == name {
			return i
		}
	}
	return -1
}

// InsertGroup 在 index 处插入分组，index 越界时夹到合法范围
func (d *Document) InsertGroup(index int, group map[string]any) {
	if index < 0 {
		index = 0
	}
	if index > len(d.ProxyGroups) {
		index = len(d.ProxyGroups)
	}
	d.ProxyGroups = append(d.ProxyGroups, nil)
	copy(d.ProxyGroups[index+1:], d.ProxyGroups[index:])
	d.ProxyGroups[index] = group
}

// RemoveGroup 删除 index 处的分组并返回它
func (d *Document) RemoveGroup(index int) map[string]any {
	g := d.ProxyGroups[index]
	d.ProxyGroups = append(d.ProxyGroups[:index], d.ProxyGroups[index+1:]...)
	return g
}
