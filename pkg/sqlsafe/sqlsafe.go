// Package sqlsafe 提供对候选 SQL 的安全校验：只允许单条只读查询执行。
//
// 默认模式是一个刻意保留的启发式检查，不是解析器：它不识别注释中隐藏的
// 语句、嵌套写操作或非 ASCII 同形字符。Strict 模式在此之上追加更严格的
// 词法检查，通过配置开关按需启用。
package sqlsafe

import (
	"strings"
)

// Guard 按配置的严格程度校验 SQL 文本。
type Guard struct {
	strict bool
}

// NewGuard 创建一个 Guard，strict 为 true 时启用严格模式。
func NewGuard(strict bool) *Guard {
	return &Guard{strict: strict}
}

// IsSafe 判断候选 SQL 是否允许执行。
// 规则：分号只能出现在末尾（防止语句串联），且去除空白后必须以只读
// 关键字 SELECT 开头（大小写不敏感）。
func (g *Guard) IsSafe(sqlText string) bool {
	s := strings.TrimSpace(sqlText)
	if s == "" {
		return false
	}

	// 分号出现在非末尾位置，视为多语句串联
	if i := strings.Index(s, ";"); i >= 0 && i != len(s)-1 {
		return false
	}

	if !strings.HasPrefix(strings.ToLower(s), "select") {
		return false
	}

	if g.strict {
		return strictCheck(s)
	}
	return true
}

// strictCheck 追加词法层面的限制：拒绝 SQL 注释，且首 token 必须是
// 独立的 SELECT 关键字。
func strictCheck(s string) bool {
	lower := strings.ToLower(s)
	if strings.Contains(lower, "--") || strings.Contains(lower, "/*") {
		return false
	}
	first := strings.Fields(lower)[0]
	// 允许 "select*" 这类紧凑写法按前缀拆出关键字
	if i := strings.IndexAny(first, "*("); i > 0 {
		first = first[:i]
	}
	return first == "select"
}

// StripTrailingSeparator 去除末尾的语句分隔符及其周围空白，
// 执行器要求传入的 SQL 不带结尾分号。
func StripTrailingSeparator(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
