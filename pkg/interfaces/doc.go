// Package interfaces 定义 go-nametable 的公共接口
//
// 接口按协作方向组织：
//   - nametable.go   - NameTable 名字表接口（查找与发布入口）
//   - topology.go    - Subscriber 订阅回调接口、TopologySubscription 订阅句柄
//   - distributor.go - Distributor 分发层回调接口
//
// 实现位于 internal/core 下的对应组件；外部调用方只依赖本包
// 与 pkg/types，不直接依赖内部实现。
package interfaces
