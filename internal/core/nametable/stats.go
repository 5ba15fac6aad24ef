// Package nametable 实现名字表核心
package nametable

import (
	"sync/atomic"
)

// Stats 名字表统计计数器
//
// 使用原子操作实现并发安全的计数器，不参与名字表本身的锁。
type Stats struct {
	localPublications atomic.Int64
	totalPublications atomic.Int64
	services          atomic.Int64
	translateHits     atomic.Int64
	translateMisses   atomic.Int64
}

// StatsSnapshot 统计快照
type StatsSnapshot struct {
	// LocalPublications 当前本地发布数量
	LocalPublications int64

	// TotalPublications 当前发布总量（本地 + 远端）
	TotalPublications int64

	// Services 当前服务序列数量
	Services int64

	// TranslateHits 翻译命中次数
	TranslateHits int64

	// TranslateMisses 翻译未命中次数
	TranslateMisses int64
}

func (s *Stats) publicationAdded(local bool) {
	s.totalPublications.Add(1)
	if local {
		s.localPublications.Add(1)
	}
}

func (s *Stats) publicationRemoved(local bool) {
	s.totalPublications.Add(-1)
	if local {
		s.localPublications.Add(-1)
	}
}

func (s *Stats) serviceAdded() {
	s.services.Add(1)
}

func (s *Stats) serviceRemoved() {
	s.services.Add(-1)
}

func (s *Stats) translateHit() {
	s.translateHits.Add(1)
}

func (s *Stats) translateMiss() {
	s.translateMisses.Add(1)
}

// Snapshot 返回当前统计快照
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		LocalPublications: s.localPublications.Load(),
		TotalPublications: s.totalPublications.Load(),
		Services:          s.services.Load(),
		TranslateHits:     s.translateHits.Load(),
		TranslateMisses:   s.translateMisses.Load(),
	}
}
