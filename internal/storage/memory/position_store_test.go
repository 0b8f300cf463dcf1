package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"

	"solana-pool-sentinel/internal/domain"
	"solana-pool-sentinel/internal/storage"
)

func newOpenPosition(token string, entryTime int64) *domain.Position {
	return &domain.Position{
		TokenAddress:    token,
		InvestmentUSD:   decimal.NewFromInt(25),
		EntryTime:       entryTime,
		EntryPrice:      decimal.RequireFromString("0.002"),
		Status:          domain.PositionOpen,
		EntryMQS:        80,
		EntryConfidence: 78,
		Category:        domain.CategoryConfidence,
	}
}

func TestPositionStore_OpenRejectsSecondOpen(t *testing.T) {
	s := NewPositionStore()
	ctx := context.Background()

	if err := s.Open(ctx, newOpenPosition("TokenA", 1000)); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	second := newOpenPosition("TokenA", 2000)
	second.InvestmentUSD = decimal.NewFromInt(50)
	err := s.Open(ctx, second)
	if !errors.Is(err, storage.ErrPositionOpen) {
		t.Fatalf("Expected ErrPositionOpen, got %v", err)
	}

	got, _ := s.Get(ctx, "TokenA")
	if got.EntryTime != 1000 {
		t.Errorf("Open position was overwritten: entry_time=%d", got.EntryTime)
	}
}

func TestPositionStore_CloseThenReopen(t *testing.T) {
	s := NewPositionStore()
	ctx := context.Background()

	p := newOpenPosition("TokenA", 1000)
	if err := s.Open(ctx, p); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if err := p.Close(decimal.RequireFromString("0.005"), 5000, domain.ExitTakeProfit); err != nil {
		t.Fatalf("domain Close failed: %v", err)
	}
	if err := s.Close(ctx, p); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// A second close must not match a closed record.
	if err := s.Close(ctx, p); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second close, got %v", err)
	}

	open, _ := s.ListOpen(ctx)
	if len(open) != 0 {
		t.Errorf("Expected no open positions, got %d", len(open))
	}

	if err := s.Open(ctx, newOpenPosition("TokenA", 9000)); err != nil {
		t.Fatalf("Reopen after close failed: %v", err)
	}
	got, _ := s.Get(ctx, "TokenA")
	if !got.IsOpen() || got.EntryTime != 9000 {
		t.Errorf("Unexpected reopened position: %+v", got)
	}
}

func TestPositionStore_CopiesOnRead(t *testing.T) {
	s := NewPositionStore()
	ctx := context.Background()
	_ = s.Open(ctx, newOpenPosition("TokenA", 1000))

	got, _ := s.Get(ctx, "TokenA")
	got.Status = domain.PositionClosed

	again, _ := s.Get(ctx, "TokenA")
	if !again.IsOpen() {
		t.Error("External mutation leaked into the store")
	}
}

func TestPositionStore_ListOrdered(t *testing.T) {
	s := NewPositionStore()
	ctx := context.Background()

	_ = s.Open(ctx, newOpenPosition("TokenC", 3000))
	_ = s.Open(ctx, newOpenPosition("TokenA", 1000))
	_ = s.Open(ctx, newOpenPosition("TokenB", 2000))

	all, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	for i, want := range []string{"TokenA", "TokenB", "TokenC"} {
		if all[i].TokenAddress != want {
			t.Errorf("List[%d] = %s, want %s", i, all[i].TokenAddress, want)
		}
	}
}

func TestPositionStore_ConcurrentOpen(t *testing.T) {
	s := NewPositionStore()
	ctx := context.Background()

	var opened atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Open(ctx, newOpenPosition("TokenA", int64(i))); err == nil {
				opened.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if opened.Load() != 1 {
		t.Errorf("Expected exactly one successful open, got %d", opened.Load())
	}
}

func TestMarkStore_InsertAndGet(t *testing.T) {
	s := NewMarkStore()
	ctx := context.Background()

	_ = s.InsertMark(ctx, &domain.PositionMark{TokenAddress: "TokenA", ObservedAt: 2000, Price: 2, PnLPercent: 100})
	_ = s.InsertMark(ctx, &domain.PositionMark{TokenAddress: "TokenA", ObservedAt: 1000, Price: 1, PnLPercent: 0})

	marks, err := s.GetMarks(ctx, "TokenA")
	if err != nil {
		t.Fatalf("GetMarks failed: %v", err)
	}
	if len(marks) != 2 || marks[0].ObservedAt != 1000 {
		t.Errorf("Unexpected marks order: %+v", marks)
	}
}
