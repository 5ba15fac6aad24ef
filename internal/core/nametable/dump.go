// Package nametable 实现名字表核心
package nametable

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/types"
)

// DumpPage 分页枚举名字表
//
// cursor 为零值时从头开始；一页未能容纳全部内容时 cursor 被
// 更新为下一条待输出发布的位置，下次调用从该位置继续。页与页
// 之间名字表可以被修改，枚举是尽力而为的一致性：续传位置已不
// 存在时返回 ErrResumeInvalid。
//
// 返回值依次为本页内容、是否已枚举完毕、错误。
func (t *Table) DumpPage(cursor *interfaces.DumpCursor, max int) ([]types.Publication, bool, error) {
	if max <= 0 {
		max = 64
	}
	var page []types.Publication

	t.mu.RLock()
	defer t.mu.RUnlock()

	resume := cursor.LastType != 0
	startBucket := 0
	if resume {
		startBucket = int(t.hash(cursor.LastType))
	}

	for idx := startBucket; idx < len(t.buckets); idx++ {
		chain := t.buckets[idx]

		start := 0
		if resume {
			start = -1
			for i, s := range chain {
				if s.typ == cursor.LastType {
					start = i
					break
				}
			}
			if start < 0 {
				return page, false, types.ErrResumeInvalid
			}
		}

		for i := start; i < len(chain); i++ {
			full, err := t.dumpService(chain[i], cursor, &page, max, resume)
			resume = false
			if err != nil {
				return page, false, err
			}
			if full {
				return page, false, nil
			}
		}
		resume = false
	}

	*cursor = interfaces.DumpCursor{}
	return page, true, nil
}

// dumpService 输出一个服务序列的发布记录
//
// resume 为 true 时按 cursor 的区间/键级位置续传（含续传点本身）。
// 页满时把 cursor 指向下一条待输出的发布并返回 true。
func (t *Table) dumpService(s *service, cursor *interfaces.DumpCursor,
	page *[]types.Publication, max int, resume bool) (bool, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	startPos := 0
	if resume {
		pos, ok := s.findSubRange(cursor.LastLower)
		if !ok {
			return false, types.ErrResumeInvalid
		}
		startPos = pos
	}

	for pos := startPos; pos < len(s.ranges); pos++ {
		sr := &s.ranges[pos]

		e := sr.bindings.all.Front()
		if resume && pos == startPos && cursor.LastKey != 0 {
			for ; e != nil; e = e.Next() {
				if e.Value.(*publication).Key == cursor.LastKey {
					break
				}
			}
			if e == nil {
				return false, types.ErrResumeInvalid
			}
		}

		for ; e != nil; e = e.Next() {
			p := e.Value.(*publication)
			if len(*page) == max {
				*cursor = interfaces.DumpCursor{
					LastType:  s.typ,
					LastLower: sr.lower,
					LastKey:   p.Key,
				}
				return true, nil
			}
			*page = append(*page, p.Publication)
		}
	}
	return false, nil
}

// ============================================================================
//                              枚举会话
// ============================================================================

// DumpSessions 枚举会话注册表
//
// 为外部调用方保存进行中的枚举游标，按会话 ID 续传。会话数量
// 有上限，最久未使用的会话被 LRU 淘汰；被淘汰的会话再次续传时
// 得到 ErrResumeInvalid。
type DumpSessions struct {
	table    *Table
	sessions *lru.Cache[string, *interfaces.DumpCursor]
}

// NewDumpSessions 创建枚举会话注册表
func NewDumpSessions(t *Table, maxSessions int) (*DumpSessions, error) {
	if maxSessions <= 0 {
		maxSessions = 64
	}
	cache, err := lru.New[string, *interfaces.DumpCursor](maxSessions)
	if err != nil {
		return nil, err
	}
	return &DumpSessions{table: t, sessions: cache}, nil
}

// Begin 开启一个枚举会话，返回会话 ID
func (d *DumpSessions) Begin() string {
	id := uuid.NewString()
	d.sessions.Add(id, &interfaces.DumpCursor{})
	return id
}

// Next 输出会话的下一页
//
// 会话不存在（已结束或被淘汰）时返回 ErrResumeInvalid。
// 枚举完毕时会话自动结束。
func (d *DumpSessions) Next(id string, max int) ([]types.Publication, bool, error) {
	cursor, ok := d.sessions.Get(id)
	if !ok {
		return nil, false, types.ErrResumeInvalid
	}
	page, done, err := d.table.DumpPage(cursor, max)
	if err != nil || done {
		d.sessions.Remove(id)
	}
	return page, done, err
}

// End 提前结束会话
func (d *DumpSessions) End(id string) {
	d.sessions.Remove(id)
}
