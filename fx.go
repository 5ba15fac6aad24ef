package nametable

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-nametable/config"
	core "github.com/dep2p/go-nametable/internal/core/nametable"
	"github.com/dep2p/go-nametable/internal/core/topology"
	"github.com/dep2p/go-nametable/pkg/interfaces"
)

// ════════════════════════════════════════════════════════════════════════════
//                              构造选项
// ════════════════════════════════════════════════════════════════════════════

// Option 系统构造选项
type Option func(*settings) error

// settings 构造期配置
type settings struct {
	config      *config.Config
	distributor interfaces.Distributor
	fxOptions   []fx.Option
}

// WithConfig 使用完整配置
func WithConfig(cfg *config.Config) Option {
	return func(s *settings) error {
		if cfg == nil {
			return fmt.Errorf("config is nil")
		}
		s.config = cfg
		return nil
	}
}

// WithOwnAddr 设置本节点地址
func WithOwnAddr(addr uint32) Option {
	return func(s *settings) error {
		s.config.Node.OwnAddr = addr
		return nil
	}
}

// WithDistributor 设置分发层回调
func WithDistributor(d interfaces.Distributor) Option {
	return func(s *settings) error {
		s.distributor = d
		return nil
	}
}

// WithFxOptions 追加额外的 Fx 选项（高级用法）
func WithFxOptions(opts ...fx.Option) Option {
	return func(s *settings) error {
		s.fxOptions = append(s.fxOptions, opts...)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              系统装配
// ════════════════════════════════════════════════════════════════════════════

// New 创建并启动名字表系统
func New(opts ...Option) (*System, error) {
	s := &settings{
		config: config.NewConfig(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	sys := &System{}

	modules := []fx.Option{
		fx.Supply(s.config),
	}
	if s.distributor != nil {
		modules = append(modules, fx.Supply(
			fx.Annotate(s.distributor, fx.As(new(interfaces.Distributor))),
		))
	}
	modules = append(modules,
		core.Module(),
		topology.Module(),
		fx.Populate(&sys.table, &sys.sessions, &sys.topo),
	)
	if len(s.fxOptions) > 0 {
		modules = append(modules, s.fxOptions...)
	}
	modules = append(modules,
		// 禁用 Fx 日志输出（避免干扰用户日志）
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("failed to assemble system: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start system: %w", err)
	}

	sys.app = app
	return sys, nil
}
