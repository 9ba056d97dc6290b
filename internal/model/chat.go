// Package model 包含了应用的数据模型定义。
package model

// ChatMessage 代表会话记录中的单条消息。
type ChatMessage struct {
	Role string `json:"role"` // "user" 或 "assistant"
	Text string `json:"text"`
}

// SessionTranscript 代表一个会话的完整消息记录，按 append 顺序排列。
type SessionTranscript struct {
	Messages []ChatMessage `json:"messages"`
}

// 响应类型取值。
const (
	ResponseTypeChitchat = "chitchat"
	ResponseTypeSQL      = "sql"
)

// ChatResponse 是 /chat 返回并写入指纹缓存的载荷。
// chitchat 类型只有 Type/AnswerText；sql 类型附带生成的 SQL、
// 解释、行数、样本行和列名。CacheHit 在返回时总是被显式设置。
type ChatResponse struct {
	Type        string           `json:"type"`
	AnswerText  string           `json:"answer_text"`
	SQL         string           `json:"sql,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
	RowCount    *int             `json:"row_count,omitempty"`
	Sample      []map[string]any `json:"sample,omitempty"`
	Columns     []string         `json:"columns,omitempty"`
	CacheHit    bool             `json:"cache_hit"`
}

// QueryResult 是分析查询完整物化后的结果。
type QueryResult struct {
	Columns []string
	Rows    []map[string]any
}

// RowCount 返回结果总行数。
func (r *QueryResult) RowCount() int {
	return len(r.Rows)
}

// Sample 返回最多 n 行样本，保证返回非 nil 切片以便序列化为 []。
func (r *QueryResult) Sample(n int) []map[string]any {
	if len(r.Rows) <= n {
		if r.Rows == nil {
			return []map[string]any{}
		}
		return r.Rows
	}
	return r.Rows[:n]
}
