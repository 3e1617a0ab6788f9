package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/config"
	"github.com/fbvsig/opinion_radar/app/opinion_radar/pkg/logger"
)

// Analyzer 情感打分契约。实现必须自行吞掉所有失败并回退到 0.0，
// 打分失败永远不会中断整条流水线。
type Analyzer interface {
	Score(ctx context.Context, text string) float64
}

const scorePrompt = `请判断以下文字的情感倾向，给出 -1 到 1 之间的分数，
-1 表示极度负面，0 表示中性，1 表示极度正面。
请务必严格按照以下 JSON 格式返回，不要包含任何 markdown 标记：
{"score": 0.0}

文字内容：
%s`

// ModelAnalyzer 通过远程模型服务打分
type ModelAnalyzer struct {
	chatModel model.BaseChatModel
	limiter   *rate.Limiter
	timeout   time.Duration
}

var _ Analyzer = (*ModelAnalyzer)(nil)

// NewModelAnalyzer 创建模型打分器
func NewModelAnalyzer(ctx context.Context, cfg *config.Config) (*ModelAnalyzer, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limit := rate.Limit(float64(cfg.Limit.RPM) / 60.0)
	limiter := rate.NewLimiter(limit, cfg.Limit.QPS)

	return &ModelAnalyzer{
		chatModel: chatModel,
		limiter:   limiter,
		timeout:   time.Duration(cfg.LLM.Timeout) * time.Second,
	}, nil
}

// Score 对单段文字打分。空白文字直接返回 0.0，不消耗配额；
// 其余情况调用一次远程服务，任何失败记录日志并返回 0.0。
func (a *ModelAnalyzer) Score(ctx context.Context, text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	if err := a.limiter.Wait(ctx); err != nil {
		logger.Log.Warnf("情感分析限流等待被取消: %v", err)
		return 0.0
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := []*schema.Message{
		{Role: schema.System, Content: "你是一个 JSON 生成器。请只输出 JSON 字符串。"},
		{Role: schema.User, Content: fmt.Sprintf(scorePrompt, text)},
	}

	resp, err := a.chatModel.Generate(callCtx, messages)
	if err != nil {
		logger.Log.Warnf("情感分析服务错误: %v", err)
		return 0.0
	}

	score, err := parseScore(resp.Content)
	if err != nil {
		logger.Log.Warnf("情感分析结果解析失败: %v", err)
		return 0.0
	}
	return score
}

// parseScore 解析模型返回的 JSON，分数夹取到 [-1, 1] 并保留 6 位小数
func parseScore(content string) (float64, error) {
	clean := strings.TrimSpace(content)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")

	var result struct {
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return 0, fmt.Errorf("json unmarshal: %w", err)
	}

	score := result.Score
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return Round6(score), nil
}

// Round6 保留 6 位小数，与存储字段精度一致
func Round6(score float64) float64 {
	return math.Round(score*1e6) / 1e6
}
