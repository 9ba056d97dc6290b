package service

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockExecService(t *testing.T) (SQLExecService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	svc := &sqlExecService{
		openDB: func() (*sql.DB, error) { return db, nil },
	}
	return svc, mock
}

func TestExecuteMaterializesRows(t *testing.T) {
	svc, mock := newMockExecService(t)

	rows := sqlmock.NewRows([]string{"product_category_name", "revenue"}).
		AddRow("beleza_saude", 1258.3).
		AddRow("relogios_presentes", 987.1)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT product_category_name, sum(price) AS revenue FROM orders_full GROUP BY product_category_name")).
		WillReturnRows(rows)

	result, err := svc.Execute(context.Background(), "SELECT product_category_name, sum(price) AS revenue FROM orders_full GROUP BY product_category_name")
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if len(result.Columns) != 2 || result.Columns[0] != "product_category_name" || result.Columns[1] != "revenue" {
		t.Fatalf("unexpected columns: %v", result.Columns)
	}
	if result.RowCount() != 2 {
		t.Fatalf("expected 2 rows, got %d", result.RowCount())
	}
	if result.Rows[0]["product_category_name"] != "beleza_saude" {
		t.Fatalf("unexpected first row: %v", result.Rows[0])
	}
	if result.Rows[1]["revenue"] != 987.1 {
		t.Fatalf("unexpected second row: %v", result.Rows[1])
	}
}

func TestExecuteEmptyResult(t *testing.T) {
	svc, mock := newMockExecService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM orders")).
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}))

	result, err := svc.Execute(context.Background(), "SELECT count(*) FROM orders")
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.RowCount() != 0 {
		t.Fatalf("expected 0 rows, got %d", result.RowCount())
	}
	if len(result.Columns) != 1 || result.Columns[0] != "count(*)" {
		t.Fatalf("unexpected columns: %v", result.Columns)
	}
	// 空结果的样本必须是 []，序列化后不能是 null
	if sample := result.Sample(200); sample == nil || len(sample) != 0 {
		t.Fatalf("expected empty non-nil sample, got %v", sample)
	}
}

func TestExecuteConvertsBytesToString(t *testing.T) {
	svc, mock := newMockExecService(t)

	rows := sqlmock.NewRows([]string{"order_status"}).AddRow([]byte("delivered"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT order_status FROM orders")).WillReturnRows(rows)

	result, err := svc.Execute(context.Background(), "SELECT order_status FROM orders")
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if result.Rows[0]["order_status"] != "delivered" {
		t.Fatalf("expected []byte converted to string, got %#v", result.Rows[0]["order_status"])
	}
}

func TestExecuteWrapsStoreError(t *testing.T) {
	svc, mock := newMockExecService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT no_such_col FROM orders")).
		WillReturnError(errors.New(`Binder Error: Referenced column "no_such_col" not found`))

	_, err := svc.Execute(context.Background(), "SELECT no_such_col FROM orders")
	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %T: %v", err, err)
	}
	// 库的原始错误信息必须透传给调用方
	if execErr.Error() != `Binder Error: Referenced column "no_such_col" not found` {
		t.Fatalf("store message not preserved: %q", execErr.Error())
	}
}
