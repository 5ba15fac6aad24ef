package types

// ============================================================================
//                              拓扑事件
// ============================================================================

// EventType 拓扑事件类型
type EventType uint8

const (
	// EventPublished 区间内出现新的发布
	EventPublished EventType = iota + 1
	// EventWithdrawn 区间内的发布被撤销
	EventWithdrawn
	// EventTimeout 订阅超时
	EventTimeout
)

// String 返回可读形式
func (e EventType) String() string {
	switch e {
	case EventPublished:
		return "published"
	case EventWithdrawn:
		return "withdrawn"
	case EventTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// TopologyEvent 投递给订阅者的重叠事件
//
// Lower/Upper 为事件涉及的区间与订阅区间的相关范围，
// Port/Node/Scope 描述触发事件的那条发布记录。
type TopologyEvent struct {
	// Event 事件类型
	Event EventType

	// Type 服务类别
	Type ServiceType

	// Lower 事件区间下界
	Lower uint32

	// Upper 事件区间上界
	Upper uint32

	// Port 触发发布的端口
	Port PortID

	// Node 触发发布的节点
	Node NodeID

	// Scope 触发发布的可见性范围
	Scope Scope

	// MustReport 区间级转变标记
	//
	// 发布事件：该区间是本次调用新建的；
	// 撤销事件：该区间因本次调用被删除；
	// 订阅快照：每个重叠区间只有第一条发布置位。
	MustReport bool
}

// ============================================================================
//                              订阅过滤标志
// ============================================================================

// FilterFlags 订阅过滤标志位
type FilterFlags uint32

const (
	// FilterNoStatus 不投递已有状态快照，只投递后续变化
	FilterNoStatus FilterFlags = 1 << iota
	// FilterCancel 取消既有订阅
	FilterCancel
)

// NoStatus 检查是否抑制状态快照
func (f FilterFlags) NoStatus() bool {
	return f&FilterNoStatus != 0
}

// Cancel 检查是否为取消请求
func (f FilterFlags) Cancel() bool {
	return f&FilterCancel != 0
}
