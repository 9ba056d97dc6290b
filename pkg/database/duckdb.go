package database

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// OpenDuckDB 打开指定路径的 DuckDB 库文件。
// 执行器按请求打开独立句柄（由调用方 Close），批量导入则长期持有一个句柄。
func OpenDuckDB(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", path, err)
	}
	return db, nil
}
