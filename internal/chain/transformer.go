package chain

import (
	"errors"
	"fmt"

	"github.com/kyson-dev/chain-helm/internal/document"
	"github.com/kyson-dev/chain-helm/internal/logger"
)

var ErrNilDocument = errors.New("document is nil")

// Transformer 链式改写器，按顺序执行完整的五段流程
type Transformer struct {
	profile *Profile
	stages  []Stage
}

// NewTransformer 创建改写器，profile 为 nil 时使用内置配置
func NewTransformer(p *Profile) *Transformer {
	if p == nil {
		p = DefaultProfile()
	}
	return &Transformer{
		profile: p,
		stages:  DefaultStages(),
	}
}

// Transform 在 doc 上原地执行全部阶段并返回它
// 调用期间 doc 归改写器独占，调用方不能并发修改
func (t *Transformer) Transform(doc *document.Document) (*document.Document, *Report, error) {
	if doc == nil {
		return nil, nil, ErrNilDocument
	}
	doc.Normalize()

	ctx := NewBuildContext(t.profile)
	for _, s := range t.stages {
		logger.Debug("Applying chain stage", "name", s.Name())
		if err := s.Apply(doc, ctx); err != nil {
			return nil, nil, fmt.Errorf("stage %s failed: %w", s.Name(), err)
		}
	}

	r := ctx.Report
	logger.Info("Chain rewrite finished",
		"relay", r.RelayGroup,
		"chain_nodes", len(r.ChainNodes),
		"front", len(r.FrontInjected),
		"back", len(r.BackInjected),
		"position", r.ChainGroupIndex,
	)
	return doc, r, nil
}

// Apply 使用内置配置改写 doc
func Apply(doc *document.Document) (*document.Document, error) {
	out, _, err := NewTransformer(nil).Transform(doc)
	return out, err
}

// DefaultStages 返回默认阶段组合
func DefaultStages() []Stage {
	return []Stage{
		&RelayStage{},
		&NodeStage{},
		&ChainGroupStage{},
		&InjectStage{},
		&LayoutStage{},
		&RuleProviderStage{},
		&RuleStage{},
	}
}
