// Package types 定义 go-nametable 的公共值类型。
//
// 包含服务地址（ServiceType/ServiceRange）、节点与端口标识
// （NodeID/PortID/Scope）、发布记录（Publication）、拓扑事件
// （TopologyEvent）以及查找结果集合（DestinationList）。
//
// 本包只有纯数据类型和少量辅助方法，不依赖其他内部包，
// 可以被任何层引用而不引入循环依赖。
package types
