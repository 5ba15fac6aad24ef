// Package nametable 实现名字表核心
package nametable

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-nametable/config"
	"github.com/dep2p/go-nametable/pkg/interfaces"
	"github.com/dep2p/go-nametable/pkg/types"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Config      *config.Config
	Distributor interfaces.Distributor `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Table     *Table
	NameTable interfaces.NameTable
	Sessions  *DumpSessions
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("nametable",
		fx.Provide(ProvideNameTable),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideNameTable 提供名字表实例
func ProvideNameTable(p Params) (Result, error) {
	tbl := New(Options{
		OwnAddr:         types.NodeID(p.Config.Node.OwnAddr),
		HashBuckets:     p.Config.Table.HashBuckets,
		MaxPublications: p.Config.Table.MaxPublications,
		Distributor:     p.Distributor,
	})
	sessions, err := NewDumpSessions(tbl, p.Config.Topology.MaxDumpSessions)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Table:     tbl,
		NameTable: tbl,
		Sessions:  sessions,
	}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In

	LC    fx.Lifecycle
	Table *Table
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			// 名字表无需特殊启动逻辑
			return nil
		},
		OnStop: func(_ context.Context) error {
			input.Table.Stop()
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
	Name = "nametable"
	// Description 模块描述
	Description = "名字表模块，提供服务名字的发布、撤销、翻译与枚举"
)
