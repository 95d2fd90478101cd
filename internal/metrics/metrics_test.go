package metrics

import (
	"sync"
	"testing"

	"github.com/park285/llm-kakao-bots/toxicity-normalizer-go/internal/classification"
)

func normalize(t *testing.T, values ...any) classification.Result {
	t.Helper()
	result, err := classification.Normalize(classification.RawResponse{"prediction": values}, classification.KindFixedVector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return result
}

func TestStoreRecordsMetrics(t *testing.T) {
	store := NewStore()
	store.RecordResult(normalize(t, 0.9, 0.1, 0.6, 0.2))
	store.RecordResult(normalize(t, 0.1, 0.1, 0.1, 0.1))
	store.RecordResult(normalize(t, 0.1, 0.1, 0.1, 0.5))
	store.RecordInvalidSchema()
	store.RecordInputError()
	store.RecordUpstreamError()

	snapshot := store.Snapshot()
	if snapshot["total_normalized"] != 3 {
		t.Fatalf("expected total_normalized 3, got %v", snapshot["total_normalized"])
	}
	if snapshot["total_neutral"] != 1 || snapshot["total_flagged"] != 2 {
		t.Fatalf("unexpected neutral/flagged: %v/%v", snapshot["total_neutral"], snapshot["total_flagged"])
	}
	if snapshot["flagged_toxic"] != 1 || snapshot["flagged_insult"] != 1 || snapshot["flagged_threat"] != 1 {
		t.Fatalf("unexpected category counts: %+v", snapshot)
	}
	if snapshot["flagged_obscene"] != 0 {
		t.Fatalf("unexpected obscene count: %v", snapshot["flagged_obscene"])
	}
	if snapshot["invalid_schema"] != 1 || snapshot["input_errors"] != 1 || snapshot["upstream_errors"] != 1 {
		t.Fatalf("unexpected error counters: %+v", snapshot)
	}
	if rate := snapshot["flag_rate"]; rate < 0.66 || rate > 0.67 {
		t.Fatalf("unexpected flag_rate: %v", rate)
	}
}

func TestStoreConcurrentRecords(t *testing.T) {
	store := NewStore()
	result := normalize(t, 0.8)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.RecordResult(result)
		}()
	}
	wg.Wait()

	if got := store.Snapshot()["flagged_toxic"]; got != 50 {
		t.Fatalf("expected 50 toxic flags, got %v", got)
	}
}

func TestNilStoreIsSafe(t *testing.T) {
	var store *Store
	store.RecordResult(classification.Result{})
	store.RecordInputError()
	if len(store.Snapshot()) != 0 {
		t.Fatalf("expected empty snapshot for nil store")
	}
}
