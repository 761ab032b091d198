package parser

import (
	"fmt"
	"testing"

	"github.com/atikulmunna/logbrowser/internal/model"
)

// BenchmarkJSONParser measures JSON log parsing throughput.
func BenchmarkJSONParser(b *testing.B) {
	p := NewJSONParser()
	l := model.Line{Text: `{"level":"error","message":"disk full","timestamp":"2026-02-17T12:00:00Z","service":"api","request_id":"abc-123"}`}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(l, "bench.log")
	}
}

// BenchmarkCLFParser measures CLF log parsing throughput.
func BenchmarkCLFParser(b *testing.B) {
	p := NewCLFParser()
	l := model.Line{Text: `127.0.0.1 - frank [17/Feb/2026:12:00:00 +0000] "GET /api/health HTTP/1.1" 500 1234`}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(l, "bench.log")
	}
}

// BenchmarkRegexParser measures custom regex parsing throughput.
func BenchmarkRegexParser(b *testing.B) {
	p, _ := NewRegexParser(`^(?P<timestamp>\S+) (?P<level>\w+) (?P<message>.+)$`)
	l := model.Line{Text: "2026-02-17T12:00:00Z ERROR something failed badly"}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(l, "bench.log")
	}
}

// BenchmarkAutoParser measures auto-detection parsing throughput.
func BenchmarkAutoParser(b *testing.B) {
	p := NewAutoParser()
	lines := []model.Line{
		{Text: `{"level":"error","message":"oom killed"}`},
		{Text: `127.0.0.1 - - [17/Feb/2026:12:00:00 +0000] "GET / HTTP/1.1" 200 5678`},
		{Text: `2026-02-17 12:00:00 WARN disk usage at 90%`},
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(lines[i%3], "bench.log")
	}
}

// BenchmarkParserThroughput measures classification of a large match set.
func BenchmarkParserThroughput(b *testing.B) {
	p := NewAutoParser()

	lines := make([]model.Line, 1000)
	for i := range lines {
		lines[i].Index = i
		switch i % 4 {
		case 0:
			lines[i].Text = fmt.Sprintf(`{"level":"info","message":"request %d completed","latency_ms":42}`, i)
		case 1:
			lines[i].Text = fmt.Sprintf(`127.0.0.1 - - [17/Feb/2026:12:00:00 +0000] "GET /page/%d HTTP/1.1" 200 5678`, i)
		case 2:
			lines[i].Text = fmt.Sprintf("2026-02-17T12:00:00Z ERROR failed to process item %d", i)
		case 3:
			lines[i].Text = fmt.Sprintf("2026-02-17T12:00:00Z WARN slow query detected: %dms", i*10)
		}
	}

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.Parse(lines[i%1000], "bench.log")
	}
}
