package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"olist-chat-go/pkg/llm"
)

// SQLGenService 定义了自然语言到 SQL 的合成接口。
type SQLGenService interface {
	// Synthesize 根据问题和库表描述生成 (sql, explanation)。
	// SQL 与解释来自两次独立的生成调用：解释严格针对最终抽取出的 SQL，
	// 而不是模型未经过滤的第一次回答。
	Synthesize(ctx context.Context, question, schemaText string) (string, string, error)
}

type sqlGenService struct {
	llmClient llm.Client
}

// NewSQLGenService 创建一个新的 SQLGenService 实例。
func NewSQLGenService(llmClient llm.Client) SQLGenService {
	return &sqlGenService{llmClient: llmClient}
}

var (
	// 第一个以分号结尾的 SELECT 块
	selectWithSeparator = regexp.MustCompile(`(?is)(select.*?;)`)
	// 兜底：从第一个 SELECT 到文本末尾
	selectToEnd = regexp.MustCompile(`(?is)(select.*)`)
)

// extractFirstSelect 从模型输出中抽取第一段 SELECT 语句。
// 优先取到第一个分号为止；没有分号时取到文本末尾；
// 完全找不到 SELECT 时原样返回（交由后续安全校验拒绝）。
func extractFirstSelect(text string) string {
	if m := selectWithSeparator.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := selectToEnd.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// Synthesize 先请求生成单条 SELECT，再请求对抽取结果的通俗解释。
func (s *sqlGenService) Synthesize(ctx context.Context, question, schemaText string) (string, string, error) {
	sqlPrompt := fmt.Sprintf(`You are an assistant that receives a plain-English analytics question and MUST produce exactly one valid SQL SELECT statement
that can run on DuckDB using the schema below. Output ONLY the SQL; do NOT output any explanation or extra text.

Schema:
%s

Rules:
- Output a single SELECT statement (limit to at most one statement).
- Use explicit GROUP BY when aggregating.
- Use ISO dates like '2017-01-01' if filtering by year/month.
- Use table/view names exactly as given.
Question: %s
`, schemaText, question)

	generated, err := s.llmClient.Generate(ctx, sqlPrompt)
	if err != nil {
		return "", "", &SynthesisError{Err: err}
	}

	sqlText := extractFirstSelect(generated)
	if !strings.HasSuffix(sqlText, ";") {
		sqlText += ";"
	}

	explainPrompt := fmt.Sprintf("Explain the following SQL in 2-3 simple sentences for a non-technical user:\n\n%s", sqlText)
	explanation, err := s.llmClient.Generate(ctx, explainPrompt)
	if err != nil {
		return "", "", &SynthesisError{Err: err}
	}

	return sqlText, strings.TrimSpace(explanation), nil
}
