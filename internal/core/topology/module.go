// Package topology 实现名字表拓扑订阅服务
package topology

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-nametable/config"
	"github.com/dep2p/go-nametable/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Config    *config.Config
	NameTable interfaces.NameTable
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Service  *Service
	Topology interfaces.TopologyService
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("topology",
		fx.Provide(ProvideTopology),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideTopology 提供拓扑订阅服务实例
func ProvideTopology(p Params) Result {
	svc := NewService(p.NameTable,
		WithEventBuffer(p.Config.Topology.EventBuffer),
		WithMaxSubscriptions(p.Config.Topology.MaxSubscriptions),
	)
	return Result{
		Service:  svc,
		Topology: svc,
	}
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC      fx.Lifecycle
	Service *Service
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// 拓扑服务无需特殊启动逻辑
			return nil
		},
		OnStop: func(_ context.Context) error {
			if err := input.Service.Close(); err != nil && err != ErrClosed {
				return err
			}
			return nil
		},
	})
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "topology"
	// Description 模块描述
	Description = "拓扑订阅模块，提供名字区间的订阅与事件通知"
)
