// Package service 包含了应用的业务逻辑层。
package service

import "fmt"

// 错误分类：
//   - SynthesisError    上游生成能力失败，映射为 500
//   - GuardRejection    候选 SQL 未通过安全校验，映射为 400
//   - ExecutionError    分析库拒绝执行该语句，映射为 400，透传原始错误信息
//   - StoreUnavailable  缓存或会话存储不可达，请求级致命错误，映射为 500
//
// 核心流程不做任何自动重试，错误同步抛给调用方并保留底层消息。

// SynthesisError 表示文本生成能力调用失败或输出不可用。
type SynthesisError struct {
	Err error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("sql synthesis failed: %v", e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// GuardRejection 表示候选 SQL 未通过安全校验。
// Message 只概括被违反的规则，SQL 保留原文用于回显。
type GuardRejection struct {
	SQL     string
	Message string
}

func (e *GuardRejection) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.SQL)
}

// ExecutionError 表示分析库执行语句失败（语法、未知列、类型不匹配等）。
type ExecutionError struct {
	Err error
}

func (e *ExecutionError) Error() string {
	return e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// StoreUnavailable 表示缓存或会话存储不可达。
// 成功路径上的缓存/会话写入失败同样归入此类，而不是被静默忽略。
type StoreUnavailable struct {
	Err error
}

func (e *StoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable: %v", e.Err)
}

func (e *StoreUnavailable) Unwrap() error { return e.Err }
