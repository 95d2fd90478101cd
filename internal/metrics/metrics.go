package metrics

import (
	"sync/atomic"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
)

// Store 는 정규화 결과 통계를 저장한다.
type Store struct {
	totalNormalized int64
	totalNeutral    int64
	totalFlagged    int64
	flaggedToxic    int64
	flaggedObscene  int64
	flaggedInsult   int64
	flaggedThreat   int64
	invalidSchema   int64
	inputErrors     int64
	upstreamErrors  int64
}

// NewStore 는 통계 저장소를 생성한다.
func NewStore() *Store {
	return &Store{}
}

// RecordResult 는 정규화 결과 하나를 기록한다.
func (s *Store) RecordResult(result classification.Result) {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.totalNormalized, 1)
	flagged := result.Flagged()
	if len(flagged) == 0 {
		atomic.AddInt64(&s.totalNeutral, 1)
		return
	}

	atomic.AddInt64(&s.totalFlagged, 1)
	for _, category := range flagged {
		if counter := s.categoryCounter(category); counter != nil {
			atomic.AddInt64(counter, 1)
		}
	}
}

// RecordInvalidSchema 는 알 수 없는 kind 요청을 기록한다.
func (s *Store) RecordInvalidSchema() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.invalidSchema, 1)
}

// RecordInputError 는 읽기/파싱 실패를 기록한다.
func (s *Store) RecordInputError() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.inputErrors, 1)
}

// RecordUpstreamError 는 상위 단계에서 실패를 보고한 항목을 기록한다.
func (s *Store) RecordUpstreamError() {
	if s == nil {
		return
	}
	atomic.AddInt64(&s.upstreamErrors, 1)
}

func (s *Store) categoryCounter(category classification.Category) *int64 {
	switch category {
	case classification.CategoryToxic:
		return &s.flaggedToxic
	case classification.CategoryObscene:
		return &s.flaggedObscene
	case classification.CategoryInsult:
		return &s.flaggedInsult
	case classification.CategoryThreat:
		return &s.flaggedThreat
	default:
		return nil
	}
}

// Snapshot 는 통계 스냅샷을 반환한다.
func (s *Store) Snapshot() map[string]float64 {
	if s == nil {
		return map[string]float64{}
	}
	total := atomic.LoadInt64(&s.totalNormalized)
	flagged := atomic.LoadInt64(&s.totalFlagged)

	flagRate := 0.0
	if total > 0 {
		flagRate = float64(flagged) / float64(total)
	}

	return map[string]float64{
		"total_normalized": float64(total),
		"total_neutral":    float64(atomic.LoadInt64(&s.totalNeutral)),
		"total_flagged":    float64(flagged),
		"flagged_toxic":    float64(atomic.LoadInt64(&s.flaggedToxic)),
		"flagged_obscene":  float64(atomic.LoadInt64(&s.flaggedObscene)),
		"flagged_insult":   float64(atomic.LoadInt64(&s.flaggedInsult)),
		"flagged_threat":   float64(atomic.LoadInt64(&s.flaggedThreat)),
		"invalid_schema":   float64(atomic.LoadInt64(&s.invalidSchema)),
		"input_errors":     float64(atomic.LoadInt64(&s.inputErrors)),
		"upstream_errors":  float64(atomic.LoadInt64(&s.upstreamErrors)),
		"flag_rate":        flagRate,
	}
}
