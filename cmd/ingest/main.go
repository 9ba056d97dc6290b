// Package main 是 Olist 数据集的导入工具：把 Kaggle CSV 批量装载进
// DuckDB，并创建分析用的 orders_full 视图。服务端把装载完成的库文件
// 视为前置条件，流水线本身不会调用本工具。
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"olist-chat-go/pkg/database"
	"olist-chat-go/pkg/log"
)

// tableFiles 是表名到 CSV 文件名的映射。
var tableFiles = map[string]string{
	"orders":                       "olist_orders_dataset.csv",
	"order_items":                  "olist_order_items_dataset.csv",
	"order_payments":               "olist_order_payments_dataset.csv",
	"order_reviews":                "olist_order_reviews_dataset.csv",
	"products":                     "olist_products_dataset.csv",
	"customers":                    "olist_customers_dataset.csv",
	"sellers":                      "olist_sellers_dataset.csv",
	"geolocation":                  "olist_geolocation_dataset.csv",
	"product_category_translation": "product_category_name_translation.csv",
}

const ordersFullView = `
CREATE OR REPLACE VIEW orders_full AS
SELECT o.order_id, o.customer_id, o.order_purchase_timestamp, o.order_approved_at, o.order_status,
       oi.order_item_id, oi.product_id, oi.seller_id, oi.price, oi.freight_value, oi.shipping_limit_date,
       p.product_category_name, p.product_name_lenght as product_name_length, p.product_description_lenght as product_description_length,
       c.customer_unique_id, c.customer_zip_code_prefix
FROM orders o
JOIN order_items oi USING(order_id)
LEFT JOIN products p USING(product_id)
LEFT JOIN customers c USING(customer_id)
`

func main() {
	dataDir := flag.String("data", "./data", "存放 Olist CSV 文件的目录")
	dbPath := flag.String("db", "./olist.duckdb", "输出的 DuckDB 库文件路径")
	flag.Parse()

	log.Init("info", "console", "")
	defer log.Sync()

	db, err := database.OpenDuckDB(*dbPath)
	if err != nil {
		log.Fatal("打开 DuckDB 失败", err)
	}
	defer db.Close()

	for table, fname := range tableFiles {
		fpath := filepath.Join(*dataDir, fname)
		if _, err := os.Stat(fpath); err != nil {
			log.Warnf("缺少 %s，请确认已下载 Kaggle 数据集并放入 %s", fpath, *dataDir)
			continue
		}
		log.Infof("装载 %s <- %s", table, fpath)
		// read_csv_auto 自动推断列类型；路径中的单引号转义后拼入语句
		stmt := fmt.Sprintf("CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s')", table, strings.ReplaceAll(fpath, "'", "''"))
		if _, err := db.Exec(stmt); err != nil {
			log.Fatal("装载表 "+table+" 失败", err)
		}
	}

	log.Info("创建视图 orders_full")
	if _, err := db.Exec(ordersFullView); err != nil {
		log.Fatal("创建 orders_full 视图失败", err)
	}
	log.Infof("导入完成，DuckDB 文件: %s", *dbPath)
}
