package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrModelUnavailable 生成后端未初始化
var ErrModelUnavailable = errors.New("生成模型不可用")

// Generator 生成后端的统一入口
//
// 每次调用独立失败：上层按调用点自行降级，互不影响
type Generator interface {
	Generate(ctx context.Context, system string, user string, opts ...model.Option) (string, error)
}

type chatGenerator struct {
	cm      model.BaseChatModel
	timeout time.Duration
}

// NewGenerator 包装 Eino ChatModel，每次调用附带独立超时
func NewGenerator(cm model.BaseChatModel, timeout time.Duration) Generator {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &chatGenerator{cm: cm, timeout: timeout}
}

func (g *chatGenerator) Generate(ctx context.Context, system string, user string, opts ...model.Option) (string, error) {
	if g.cm == nil {
		return "", ErrModelUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	msgs := make([]*schema.Message, 0, 2)
	if system != "" {
		msgs = append(msgs, &schema.Message{Role: schema.System, Content: system})
	}
	msgs = append(msgs, &schema.Message{Role: schema.User, Content: user})

	resp, err := g.cm.Generate(ctx, msgs, opts...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Content), nil
}
