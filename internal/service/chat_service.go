package service

import (
	"context"
	"strings"

	"olist-chat-go/internal/model"
	"olist-chat-go/internal/repository"
	"olist-chat-go/pkg/log"
)

// SchemaText 是 SQL 生成提示词里使用的库表描述。
// 数据由独立的导入工具（cmd/ingest）预先写入 DuckDB。
const SchemaText = `
orders(order_id, customer_id, order_purchase_timestamp, order_approved_at, order_status)
order_items(order_id, order_item_id, product_id, seller_id, price, freight_value)
products(product_id, product_category_name, product_name_lenght, product_description_lenght)
customers(customer_id, customer_unique_id, customer_zip_code_prefix)
orders_full(view combining orders, order_items, products, customers; contains price and product_category_name)
`

// chatSampleLimit 是 /chat 载荷中样本行的上限。
const chatSampleLimit = 50

// 问候与能力两组固定短语，命中即走本地罐头回答，不经过 SQL 合成。
var (
	greetingPhrases = []string{"hello", "hi", "hey", "how are you", "good morning", "good afternoon"}
	metaPhrases     = []string{"what do you do", "overview", "what can you do", "who are you"}

	greetingAnswer = "Hello! I'm your Olist e-commerce assistant. Ask me questions about sales, revenue, orders, products, sellers and reviews. " +
		"I can produce SQL, run it on the dataset, explain the SQL, and show a visualization if applicable."
	metaAnswer = "I am an e-commerce assistant built on the Olist dataset. I accept natural-language analytics questions, " +
		"generate safe SQL to compute aggregates on the dataset, show the results, and provide a simple human-friendly explanation of the SQL."
)

// ChatService 是问答流水线的编排入口。
type ChatService interface {
	// Ask 处理一次 (session_id, question) 请求：
	// 查缓存 → 分类（问候/能力/分析）→ 分析类走合成、校验、执行 →
	// 成功后写穿缓存并追加会话记录。失败路径不写缓存、不追加会话。
	Ask(ctx context.Context, sessionID, question string) (*model.ChatResponse, error)
}

type chatService struct {
	cacheRepo   repository.QueryCacheRepository
	sessionRepo repository.SessionRepository
	sqlGen      SQLGenService
	sqlService  SQLService
}

// NewChatService 创建一个新的 ChatService 实例。
func NewChatService(
	cacheRepo repository.QueryCacheRepository,
	sessionRepo repository.SessionRepository,
	sqlGen SQLGenService,
	sqlService SQLService,
) ChatService {
	return &chatService{
		cacheRepo:   cacheRepo,
		sessionRepo: sessionRepo,
		sqlGen:      sqlGen,
		sqlService:  sqlService,
	}
}

// Ask 实现完整的问答流水线。
func (s *chatService) Ask(ctx context.Context, sessionID, question string) (*model.ChatResponse, error) {
	// 1. 查指纹缓存。存储不可达是请求级错误，不当作未命中。
	cached, hit, err := s.cacheRepo.Get(ctx, question)
	if err != nil {
		return nil, &StoreUnavailable{Err: err}
	}
	if hit {
		if err := s.appendExchange(ctx, sessionID, question, "[cached] "+cached.AnswerText); err != nil {
			return nil, err
		}
		cached.CacheHit = true
		return cached, nil
	}

	q := strings.TrimSpace(question)
	lower := strings.ToLower(q)

	// 2. 分类：问候 / 能力问题直接返回罐头回答，并与分析类回答一样写入缓存，
	// 下次重复同样的问候就是一次缓存命中。
	if matchesAny(lower, greetingPhrases) {
		return s.respondCanned(ctx, sessionID, question, q, greetingAnswer)
	}
	if matchesAny(lower, metaPhrases) {
		return s.respondCanned(ctx, sessionID, question, q, metaAnswer)
	}

	// 3. 分析类：合成 SQL 与解释。空问题不做特殊处理，同样走到这里。
	sqlText, explanation, err := s.sqlGen.Synthesize(ctx, q, SchemaText)
	if err != nil {
		return nil, err
	}

	// 4. 校验并执行。
	result, err := s.sqlService.Run(ctx, sqlText)
	if err != nil {
		return nil, err
	}

	rowCount := result.RowCount()
	resp := &model.ChatResponse{
		Type:        model.ResponseTypeSQL,
		AnswerText:  "Executed SQL and returned results.",
		SQL:         sqlText,
		Explanation: explanation,
		RowCount:    &rowCount,
		Sample:      result.Sample(chatSampleLimit),
		Columns:     result.Columns,
		CacheHit:    false,
	}

	// 5. 写穿缓存并落会话记录。
	if err := s.cacheRepo.Set(ctx, question, resp); err != nil {
		return nil, &StoreUnavailable{Err: err}
	}
	if err := s.appendExchange(ctx, sessionID, q, "Executed SQL: "+sqlText); err != nil {
		return nil, err
	}

	log.Infow("analytic question answered",
		"session_id", sessionID,
		"sql", sqlText,
		"row_count", rowCount,
	)
	return resp, nil
}

// respondCanned 处理问候/能力类问题：缓存罐头回答并追加会话记录。
func (s *chatService) respondCanned(ctx context.Context, sessionID, question, q, answer string) (*model.ChatResponse, error) {
	resp := &model.ChatResponse{
		Type:       model.ResponseTypeChitchat,
		AnswerText: answer,
		CacheHit:   false,
	}
	if err := s.cacheRepo.Set(ctx, question, resp); err != nil {
		return nil, &StoreUnavailable{Err: err}
	}
	if err := s.appendExchange(ctx, sessionID, q, answer); err != nil {
		return nil, err
	}
	return resp, nil
}

// appendExchange 把一问一答追加到会话记录。
func (s *chatService) appendExchange(ctx context.Context, sessionID, userText, assistantText string) error {
	if err := s.sessionRepo.AppendMessage(ctx, sessionID, "user", userText); err != nil {
		return &StoreUnavailable{Err: err}
	}
	if err := s.sessionRepo.AppendMessage(ctx, sessionID, "assistant", assistantText); err != nil {
		return &StoreUnavailable{Err: err}
	}
	return nil
}

// matchesAny 判断问题里是否包含任一固定短语（大小写不敏感的子串匹配）。
func matchesAny(lowerQuestion string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lowerQuestion, p) {
			return true
		}
	}
	return false
}
