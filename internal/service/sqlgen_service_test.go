package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// stubLLM 按调用顺序返回预置回复，并记录收到的 prompt。
type stubLLM struct {
	replies []string
	prompts []string
	err     error
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.prompts = append(s.prompts, prompt)
	if len(s.replies) == 0 {
		return "", errors.New("stub: no replies left")
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func TestExtractFirstSelect(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"bare statement with separator",
			"SELECT count(*) FROM orders;",
			"SELECT count(*) FROM orders;",
		},
		{
			"markdown fenced output",
			"```sql\nSELECT price FROM order_items;\n```",
			"SELECT price FROM order_items;",
		},
		{
			"prose before the statement",
			"Sure, here is the query:\nselect order_id from orders;",
			"select order_id from orders;",
		},
		{
			"no separator takes everything to the end",
			"Here you go: SELECT avg(price) FROM orders_full GROUP BY product_category_name",
			"SELECT avg(price) FROM orders_full GROUP BY product_category_name",
		},
		{
			"stops at the first separator",
			"SELECT 1; SELECT 2;",
			"SELECT 1;",
		},
		{
			"no select returns trimmed text as-is",
			"  I cannot answer that.  ",
			"I cannot answer that.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractFirstSelect(tt.in); got != tt.want {
				t.Fatalf("extractFirstSelect(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSynthesizeAppendsSeparator(t *testing.T) {
	stub := &stubLLM{replies: []string{
		"SELECT count(*) FROM orders",
		"This query counts all orders.",
	}}
	svc := NewSQLGenService(stub)

	sqlText, explanation, err := svc.Synthesize(context.Background(), "how many orders", SchemaText)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if sqlText != "SELECT count(*) FROM orders;" {
		t.Fatalf("unexpected sql: %q", sqlText)
	}
	if explanation != "This query counts all orders." {
		t.Fatalf("unexpected explanation: %q", explanation)
	}
}

func TestSynthesizeExplainsExtractedSQL(t *testing.T) {
	stub := &stubLLM{replies: []string{
		"Here is your query:\nSELECT 1; and some trailing chatter",
		"It selects the number one.",
	}}
	svc := NewSQLGenService(stub)

	sqlText, _, err := svc.Synthesize(context.Background(), "anything", SchemaText)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if sqlText != "SELECT 1;" {
		t.Fatalf("unexpected sql: %q", sqlText)
	}
	if len(stub.prompts) != 2 {
		t.Fatalf("expected 2 generation calls, got %d", len(stub.prompts))
	}
	// 解释提示词必须针对抽取后的 SQL，而不是模型的原始输出
	if !strings.Contains(stub.prompts[1], "SELECT 1;") {
		t.Fatalf("explanation prompt does not contain extracted sql: %q", stub.prompts[1])
	}
	if strings.Contains(stub.prompts[1], "trailing chatter") {
		t.Fatalf("explanation prompt leaked unfiltered model output: %q", stub.prompts[1])
	}
}

func TestSynthesizeWrapsGenerationError(t *testing.T) {
	stub := &stubLLM{err: errors.New("upstream down")}
	svc := NewSQLGenService(stub)

	_, _, err := svc.Synthesize(context.Background(), "question", SchemaText)
	var synthErr *SynthesisError
	if !errors.As(err, &synthErr) {
		t.Fatalf("expected SynthesisError, got %T: %v", err, err)
	}
}
