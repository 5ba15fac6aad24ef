package nametable

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/multierr"

	core "github.com/dep2p/go-nametable/internal/core/nametable"
	"github.com/dep2p/go-nametable/internal/core/topology"
	"github.com/dep2p/go-nametable/pkg/interfaces"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "go-nametable " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ════════════════════════════════════════════════════════════════════════════
//                              System - 组件门面
// ════════════════════════════════════════════════════════════════════════════

// System 名字表系统门面
//
// 组合名字表核心与拓扑订阅服务，通过 Fx 完成装配与生命周期
// 管理。单机内嵌使用时这是唯一需要接触的入口。
type System struct {
	app *fx.App

	table    *core.Table
	sessions *core.DumpSessions
	topo     *topology.Service
}

// NameTable 返回名字表接口
func (s *System) NameTable() interfaces.NameTable {
	return s.table
}

// Table 返回底层名字表（统计等高级用法）
func (s *System) Table() *core.Table {
	return s.table
}

// Topology 返回拓扑订阅服务接口
func (s *System) Topology() interfaces.TopologyService {
	return s.topo
}

// DumpSessions 返回枚举会话注册表
func (s *System) DumpSessions() *core.DumpSessions {
	return s.sessions
}

// Close 关闭系统
//
// 先取消所有订阅，再清空名字表。
func (s *System) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs error
	if err := s.topo.Close(); err != nil && err != topology.ErrClosed {
		errs = multierr.Append(errs, err)
	}
	if err := s.app.Stop(ctx); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}
