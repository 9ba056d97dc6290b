package service

import (
	"context"
	"database/sql"
	"fmt"

	"olist-chat-go/internal/model"
	"olist-chat-go/pkg/database"
)

// SQLExecService 定义了只读分析查询的执行接口。
// 前置条件：SQL 已通过安全校验且末尾分隔符已被剥离。
type SQLExecService interface {
	// Execute 执行单条语句并把结果集完整物化为 QueryResult。
	// 执行失败（语法错误、未知列、类型不匹配）以 ExecutionError 透传库的原始消息。
	Execute(ctx context.Context, sqlText string) (*model.QueryResult, error)
}

type sqlExecService struct {
	// openDB 每次调用打开全新的库句柄，不做连接池。
	// 低并发下可接受，同时避免与批量导入互相持锁；测试中用 sqlmock 替换。
	openDB func() (*sql.DB, error)
}

// NewSQLExecService 创建一个执行指定 DuckDB 库文件的 SQLExecService。
func NewSQLExecService(dbPath string) SQLExecService {
	return &sqlExecService{
		openDB: func() (*sql.DB, error) {
			return database.OpenDuckDB(dbPath)
		},
	}
}

// Execute 打开库句柄、执行查询并物化全部行。
func (s *sqlExecService) Execute(ctx context.Context, sqlText string) (*model.QueryResult, error) {
	db, err := s.openDB()
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &ExecutionError{Err: err}
	}

	result := &model.QueryResult{
		Columns: columns,
		Rows:    []map[string]any{},
	}
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, &ExecutionError{Err: fmt.Errorf("failed to scan result row: %w", err)}
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// []byte 统一转为 string，保证 JSON 序列化为可读文本
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &ExecutionError{Err: err}
	}
	return result, nil
}
