package service

import (
	"context"
	"strings"

	"olist-chat-go/internal/model"
	"olist-chat-go/pkg/sqlsafe"
)

// GuardRejectionMessage 是安全校验拒绝时对外的统一描述，只概括规则本身。
const GuardRejectionMessage = "Only single SELECT queries are allowed"

// SQLService 定义了"校验 + 执行"的只读查询通道。
// /run_sql 直接使用它；问答流水线在合成 SQL 后也走同一通道。
type SQLService interface {
	// Run 校验候选 SQL，剥离末尾分隔符后执行，返回完整物化的结果。
	// 校验失败返回 GuardRejection，执行失败返回 ExecutionError。
	Run(ctx context.Context, sqlText string) (*model.QueryResult, error)
}

type sqlService struct {
	guard *sqlsafe.Guard
	exec  SQLExecService
}

// NewSQLService 创建一个新的 SQLService 实例。
func NewSQLService(guard *sqlsafe.Guard, exec SQLExecService) SQLService {
	return &sqlService{guard: guard, exec: exec}
}

// Run 实现校验、归一化并执行单条只读查询。
func (s *sqlService) Run(ctx context.Context, sqlText string) (*model.QueryResult, error) {
	trimmed := strings.TrimSpace(sqlText)
	if !s.guard.IsSafe(trimmed) {
		return nil, &GuardRejection{SQL: trimmed, Message: GuardRejectionMessage}
	}
	return s.exec.Execute(ctx, sqlsafe.StripTrailingSeparator(trimmed))
}
