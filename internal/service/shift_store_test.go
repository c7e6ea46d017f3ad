package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shift-guard/internal/dto"
	"shift-guard/internal/shift"
)

func TestDayStore_Resolve(t *testing.T) {
	_, store, _ := setupTestShiftService()

	tests := []struct {
		name    string
		date    string
		wantKey string
		wantRef time.Time
	}{
		{"空串为今天", "", "2026-10-15", testNow},
		{"today 别名", "Today", "2026-10-15", testNow},
		{"今天的日期", "2026-10-15", "2026-10-15", testNow},
		{"过去取当日最后一秒", "2026-10-01", "2026-10-01", time.Date(2026, 10, 1, 23, 59, 59, 0, time.UTC)},
		{"未来取当日零点", "2026-12-24", "2026-12-24", time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, day, ref, err := store.resolve(tt.date)
			if err != nil {
				t.Fatalf("resolve 应成功: %v", err)
			}
			if key != tt.wantKey {
				t.Errorf("期望 %s，实际 %s", tt.wantKey, key)
			}
			if day.Hour() != 0 || day.Format(dateLayout) != tt.wantKey {
				t.Errorf("期望 %s 零点，实际 %v", tt.wantKey, day)
			}
			if !ref.Equal(tt.wantRef) {
				t.Errorf("期望参考时刻 %v，实际 %v", tt.wantRef, ref)
			}
		})
	}

	for _, bad := range []string{"2026-13-01", "10/15/2026", "tomorrow"} {
		if _, _, _, err := store.resolve(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("%q 期望 ErrInvalidDate，实际: %v", bad, err)
		}
	}
}

func TestDayStore_ResolveUsesStoreTimezone(t *testing.T) {
	_, store, _ := setupTestShiftService()
	loc := time.FixedZone("UTC-8", -8*3600)
	store.loc = loc
	// UTC 10-16 03:00 在 UTC-8 仍是 10-15
	store.now = func() time.Time { return time.Date(2026, 10, 16, 3, 0, 0, 0, time.UTC) }

	key, _, _, err := store.resolve("today")
	if err != nil {
		t.Fatalf("resolve 应成功: %v", err)
	}
	if key != "2026-10-15" {
		t.Errorf("期望按门店时区取日期 2026-10-15，实际=%s", key)
	}
}

func TestMemoryUndoStore(t *testing.T) {
	store := newMemoryUndoStore()
	ctx := context.Background()
	entries := []shift.UndoEntry{{ID: "u1", Kind: shift.UndoAddEmployee, Label: "Added Jane"}}

	if err := store.Save(ctx, testDate, entries); err != nil {
		t.Fatalf("Save 应成功: %v", err)
	}
	entries[0].Label = "mutated"

	got, _ := store.Load(ctx, testDate)
	if len(got) != 1 || got[0].Label != "Added Jane" {
		t.Errorf("期望保存副本，实际=%+v", got)
	}
	if other, _ := store.Load(ctx, "2026-10-16"); len(other) != 0 {
		t.Errorf("不同日期应隔离，实际=%+v", other)
	}

	_ = store.Save(ctx, testDate, nil)
	if got, _ := store.Load(ctx, testDate); len(got) != 0 {
		t.Errorf("保存空栈应清空，实际=%+v", got)
	}
}

func TestLocalDayLocker_SerializesSameDay(t *testing.T) {
	locker := newLocalDayLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, testDate)
			if err != nil {
				t.Errorf("Lock 应成功: %v", err)
				return
			}
			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("同一营业日应串行，实际最大并发=%d", maxSeen)
	}

	// 不同日期互不阻塞
	unlockA, _ := locker.Lock(ctx, "2026-10-15")
	defer unlockA()
	done := make(chan struct{})
	go func() {
		unlockB, _ := locker.Lock(ctx, "2026-10-16")
		unlockB()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("不同营业日不应互相阻塞")
	}
}

func TestShiftService_ConcurrentMutationsAllPersist(t *testing.T) {
	svc, _, m := setupTestShiftService()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.AddEmployee(context.Background(), testDate, &dto.AddShiftEmployeeRequest{
				Name:           "Emp " + string(rune('A'+i)),
				ScheduledStart: "09:00",
				ScheduledEnd:   "17:00",
			})
			if err != nil {
				t.Errorf("AddEmployee 应成功: %v", err)
			}
		}(i)
	}
	wg.Wait()

	m.shift.mu.Lock()
	defer m.shift.mu.Unlock()
	if got := len(m.shift.employees[testDate]); got != 10 {
		t.Errorf("并发加入后应有 10 人，实际=%d", got)
	}
}
