// Package nametable 提供并发安全的内存服务名字解析表
//
// go-nametable 把符号化的服务地址 (类别, 实例区间) 映射到一个
// 或多个 (节点, 端口) 绑定，支持精确、区间与组播三类查找、
// 发布/撤销变更，以及绑定存在性变化的实时订阅通知。
//
// # 快速开始
//
//	sys, err := nametable.New(nametable.WithOwnAddr(0x01001001))
//	if err != nil {
//	    panic(err)
//	}
//	defer sys.Close()
//
//	tbl := sys.NameTable()
//	tbl.Publish(1000, 5, 10, types.ScopeCluster, 100, 1)
//	port, node := tbl.Translate(1000, 7, 0)
//
// # 订阅
//
//	sub, err := sys.Topology().Subscribe(
//	    types.NewServiceRange(1000, 0, 100), 0, 0)
//	for ev := range sub.Events() {
//	    // PUBLISHED / WITHDRAWN / TIMEOUT
//	}
//
// # 架构
//
// 系统由两个核心组件装配而成：
//
//  1. internal/core/nametable - 名字表本体：目录哈希、有序区间
//     数组、绑定集合与选择策略（就近优先、轮询）
//  2. internal/core/topology - 拓扑订阅服务：订阅生命周期、
//     事件通道与超时
//
// 组件通过 go.uber.org/fx 装配；外部只依赖 pkg/types 与
// pkg/interfaces 中的类型和接口。
//
// # 范围
//
// 表是进程生命期的易失状态，不做持久化；跨节点的一致性由外部
// 分发层负责，本模块只通过 interfaces.Distributor 回调向其通报
// 本地变更。
package nametable
