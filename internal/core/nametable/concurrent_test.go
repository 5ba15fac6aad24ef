package nametable

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/types"
)

// ============================================================================
// 并发测试
// ============================================================================

// TestConcurrent_PublishWithdraw 测试并发发布与撤销
func TestConcurrent_PublishWithdraw(t *testing.T) {
	tbl := newTestTable()

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			base := uint32(w * perWorker)
			for i := uint32(0); i < perWorker; i++ {
				inst := base + i
				key := inst + 1
				if p := tbl.Publish(1000, inst, inst, types.ScopeCluster, types.PortID(100+w), key); p == nil {
					t.Errorf("publish of instance %d rejected", inst)
					return
				}
				if !tbl.Withdraw(1000, inst, types.PortID(100+w), key) {
					t.Errorf("withdraw of instance %d failed", inst)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	if got := tbl.LocalPublicationCount(); got != 0 {
		t.Errorf("LocalPublicationCount = %d after balanced churn, want 0", got)
	}
	if got := tbl.Stats().Services; got != 0 {
		t.Errorf("Services = %d after balanced churn, want 0", got)
	}
}

// TestConcurrent_TranslateDuringChurn 测试翻译与表变更并发
func TestConcurrent_TranslateDuringChurn(t *testing.T) {
	tbl := newTestTable()

	// 稳定的绑定：读者始终应能命中
	tbl.Publish(1000, 5, 5, types.ScopeCluster, 999, 9999)

	var stop atomic.Bool
	var wg sync.WaitGroup

	// 写者：反复发布与撤销其他实例
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			inst := uint32(100 + w)
			key := uint32(w + 1)
			for i := 0; i < 200; i++ {
				tbl.Publish(1000, inst, inst, types.ScopeCluster, types.PortID(200+w), key)
				tbl.Withdraw(1000, inst, types.PortID(200+w), key)
			}
			stop.Store(true)
		}(w)
	}

	// 读者：稳定绑定必须一直可解析
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for !stop.Load() {
				if port, _ := tbl.Translate(1000, 5, types.NodeNone); port != 999 {
					t.Errorf("Translate(5) = %d during churn, want 999", port)
					return
				}
			}
		}()
	}

	wg.Wait()
}

// TestConcurrent_SubscribeChurn 测试订阅挂接/摘除与发布并发
func TestConcurrent_SubscribeChurn(t *testing.T) {
	tbl := newTestTable()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				sub := newRecordingSubscriber(types.NewServiceRange(2000, 0, 1000), types.FilterNoStatus)
				tbl.Subscribe(sub)
				tbl.Unsubscribe(sub)
				if refs := sub.refs.Load(); refs != 0 {
					t.Errorf("subscriber refs = %d after detach, want 0", refs)
					return
				}
			}
		}(w)
	}
	for w := 0; w < 2; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			key := uint32(w + 1)
			for i := 0; i < 100; i++ {
				tbl.Publish(2000, uint32(w), uint32(w), types.ScopeCluster, types.PortID(300+w), key)
				tbl.Withdraw(2000, uint32(w), types.PortID(300+w), key)
			}
		}(w)
	}
	wg.Wait()

	if got := tbl.Stats().Services; got != 0 {
		t.Errorf("Services = %d after churn, want 0", got)
	}
}

// TestConcurrent_DumpDuringChurn 测试枚举与表变更并发
//
// 页间一致性是尽力而为的：续传失效是合法结果，但枚举过程
// 不得崩溃或死锁。
func TestConcurrent_DumpDuringChurn(t *testing.T) {
	tbl := newTestTable()
	for i := uint32(0); i < 50; i++ {
		tbl.Publish(3000, i*10, i*10, types.ScopeCluster, 400, i+1)
	}

	var stop atomic.Bool
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			tbl.Publish(3001, uint32(i), uint32(i), types.ScopeCluster, 401, uint32(i+1))
			tbl.Withdraw(3001, uint32(i), 401, uint32(i+1))
		}
		stop.Store(true)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for !stop.Load() {
			var cursor interfaces.DumpCursor
			for {
				_, done, err := tbl.DumpPage(&cursor, 7)
				if err != nil {
					if !errors.Is(err, types.ErrResumeInvalid) {
						t.Errorf("DumpPage error: %v", err)
					}
					break
				}
				if done {
					break
				}
			}
		}
	}()

	wg.Wait()
}
