// Package interfaces 定义 go-nametable 的公共接口
//
// 本文件定义订阅相关接口。
package interfaces

import (
	"github.com/dep2p/go-nametable/pkg/types"
)

// Subscriber 定义名字表回调的订阅接口
//
// 名字表在持有服务序列锁的状态下同步调用 ReportOverlap，
// 实现方不得在回调中再次调用名字表，也不应长时间阻塞。
//
// 订阅对象由外部订阅方与所属服务序列的订阅链表共享，
// 用 Hold/Release 维护引用计数：挂接时 Hold，摘除时 Release。
type Subscriber interface {
	// Range 返回订阅关心的服务区间
	Range() types.ServiceRange

	// Filter 返回订阅过滤标志
	Filter() types.FilterFlags

	// ReportOverlap 投递一次重叠事件
	//
	// foundLower/foundUpper 为触发事件的区间；不与订阅区间
	// 重叠的事件由实现方丢弃。
	ReportOverlap(foundLower, foundUpper uint32, event types.EventType, port types.PortID, node types.NodeID, scope types.Scope, mustReport bool)

	// Hold 增加引用计数
	Hold()

	// Release 减少引用计数，计数归零时释放订阅资源
	Release()
}

// TopologySubscription 定义外部订阅句柄
//
// 由拓扑服务返回给订阅方，封装事件通道与取消操作。
type TopologySubscription interface {
	// ID 返回订阅标识
	ID() string

	// Events 返回事件通道
	//
	// 投递采用非阻塞写，慢消费者会丢事件（带丢弃计数）。
	Events() <-chan types.TopologyEvent

	// Cancel 取消订阅
	//
	// 并发安全，可多次调用。
	Cancel()
}

// TopologyService 定义拓扑订阅服务接口
type TopologyService interface {
	// Subscribe 建立一个区间订阅
	//
	// timeoutMillis 为 0 表示不超时。
	Subscribe(rng types.ServiceRange, filter types.FilterFlags, timeoutMillis uint32) (TopologySubscription, error)

	// Close 关闭服务并取消所有订阅
	Close() error
}
