// Package nametable 实现名字表核心。
//
// 名字表把符号化的服务地址 (类别, 实例区间) 映射到一个或多个
// (节点, 端口) 绑定，是名字解析与拓扑订阅的基础设施。
//
// # 核心结构
//
// 1. 目录 (Table): 固定大小的哈希桶，按类别散列服务序列；
// 目录读写锁保护桶链结构与本地发布配额计数
//
// 2. 服务序列 (service): 一个类别的全部发布状态，有序互不相交
// 的区间数组（容量倍增、删除压缩）加订阅链表，自带互斥锁
//
// 3. 绑定集合 (bindingSet): local/all 两条成员链表，选中即轮转
// 到尾部，实现重复查找的轮询公平
//
// # 选择策略
//
// Translate 在目的节点未定时就近优先（本地绑定优先于远端），
// 其余情况在对应链表内轮询。Lookup/MulticastLookup 支持按
// scope 收集目的地集合与区间级组播端口。
//
// # 使用示例
//
//	tbl := nametable.New(nametable.Options{OwnAddr: own})
//	defer tbl.Stop()
//
//	p := tbl.Publish(1000, 5, 10, types.ScopeCluster, 100, 1)
//	port, node := tbl.Translate(1000, 7, 0)
//
// # 并发模型
//
// 读路径（翻译/查找/枚举）短暂持有目录读锁定位序列，随后只持
// 有该序列的锁；写路径（发布/撤销/订阅）全程持有目录写锁。
// 订阅事件在序列锁内同步投递，回调观察到的永远是更新完毕的
// 一致状态。
package nametable
