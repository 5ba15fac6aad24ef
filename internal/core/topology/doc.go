// Package topology 实现名字表拓扑订阅服务。
//
// 订阅方对一个 (类别, 区间) 登记持续兴趣；区间内绑定的存在性
// 发生变化时收到重叠事件。建立订阅时先投递一份确定性的既有
// 状态快照（除非被 FilterNoStatus 抑制），之后的事件与名字表
// 的发布/撤销严格同序——事件在修改调用内、序列锁释放之前同步
// 产生。
//
// # 使用示例
//
//	svc := topology.NewService(tbl)
//	defer svc.Close()
//
//	sub, err := svc.Subscribe(types.NewServiceRange(1000, 0, 100), 0, 0)
//	for ev := range sub.Events() {
//	    // 处理 PUBLISHED / WITHDRAWN / TIMEOUT
//	}
//
// # 生命周期
//
// 订阅对象被外部订阅方与名字表共享，引用计数维护归属；
// Cancel、超时与服务关闭都会拆除订阅并最终关闭事件通道。
// 超时由注入的时钟驱动，测试可以用 mock 时钟快进。
package topology
