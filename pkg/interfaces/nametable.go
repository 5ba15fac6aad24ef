// Package interfaces 定义 go-nametable 的公共接口
//
// 本文件定义 NameTable 接口，提供名字发布、撤销与翻译功能。
package interfaces

import (
	"github.com/dep2p/go-nametable/pkg/types"
)

// NameTable 定义名字表接口
//
// 名字表维护 (服务类别, 实例区间) 到 (节点, 端口) 绑定的映射，
// 支持精确、区间与组播三类查找，以及发布/撤销与订阅通知。
//
// 所有拒绝（区间冲突、重复发布、配额超限等）都以空结果返回给
// 直接调用方；表内不记录日志也不重试，由调用方决定缺失是否异常。
type NameTable interface {
	// Publish 发布本节点的名字绑定
	//
	// 经过本地发布配额检查后写入名字表，成功时通知分发层。
	// 区间非法、scope 非法、与既有区间部分重叠、重复发布或
	// 配额超限时返回 nil。
	Publish(typ types.ServiceType, lower, upper uint32, scope types.Scope, port types.PortID, key uint32) *types.Publication

	// Withdraw 撤销本节点的名字绑定
	//
	// 成功时通知分发层并返回 true；找不到对应发布时返回 false。
	Withdraw(typ types.ServiceType, lower uint32, port types.PortID, key uint32) bool

	// InsertPublication 写入任意节点的发布记录（分发层入口）
	//
	// 不经过本地配额检查，也不触发分发层回调。
	InsertPublication(typ types.ServiceType, lower, upper uint32, scope types.Scope, node types.NodeID, port types.PortID, key uint32) *types.Publication

	// RemovePublication 移除任意节点的发布记录（分发层入口）
	//
	// 远端撤销可能与一次从未被本节点接受的远端发布竞争，
	// 找不到记录是正常结果，返回 nil。
	RemovePublication(typ types.ServiceType, lower uint32, node types.NodeID, port types.PortID, key uint32) *types.Publication

	// Translate 单实例名字翻译
	//
	// destNode 为 0 时执行就近优先选择，否则按指定目的节点选择。
	// 返回选中的端口与发布节点；无匹配时返回 (0, 0)。
	Translate(typ types.ServiceType, instance uint32, destNode types.NodeID) (types.PortID, types.NodeID)

	// Lookup 按 scope 精确匹配收集目的地集合
	//
	// all 为 false 时只取第一个可接受的匹配并轮转；
	// excludePort 配合本节点地址实现自排除。
	// 返回集合是否非空。
	Lookup(typ types.ServiceType, instance uint32, scope types.Scope, excludePort types.PortID, all bool, dsts *types.DestinationList) bool

	// MulticastLookup 区间（组播）查找本地端口
	//
	// exact 为 true 时要求 scope 精确相等，否则包含更粗的 scope。
	MulticastLookup(typ types.ServiceType, lower, upper uint32, scope types.Scope, exact bool) []types.PortID

	// DestinationNodes 收集区间内所有发布节点（广播规划）
	DestinationNodes(typ types.ServiceType, lower, upper uint32) []types.NodeID

	// BuildGroup 按 scope 收集组成员到外部结构
	BuildGroup(grp GroupSink, typ types.ServiceType, scope types.Scope)

	// Subscribe 挂接订阅（必要时惰性创建服务序列）
	Subscribe(sub Subscriber)

	// Unsubscribe 摘除订阅并回收空序列
	Unsubscribe(sub Subscriber)

	// DumpPage 分页枚举名字表
	//
	// cursor 记录续传位置；记住的位置已不存在时返回 ErrResumeInvalid。
	DumpPage(cursor *DumpCursor, max int) ([]types.Publication, bool, error)

	// Stop 清空名字表，撤销所有残留发布并投递撤销事件
	Stop()
}

// GroupSink 组成员收集目标
//
// BuildGroup 遍历名字表时通过该接口把成员写入外部的组结构。
type GroupSink interface {
	// AddMember 追加一个组成员
	AddMember(node types.NodeID, port types.PortID, instance uint32)
}

// DumpCursor 名字表枚举的续传位置
//
// 零值表示从头开始。一页结束后由 DumpPage 更新；
// 页与页之间名字表可以被修改，枚举是尽力而为的一致性。
type DumpCursor struct {
	// LastType 上一页最后的服务类别
	LastType types.ServiceType

	// LastLower 上一页最后的区间下界
	LastLower uint32

	// LastKey 上一页最后一条发布的 Key
	LastKey uint32
}
