// Package interfaces 定义 go-nametable 的公共接口
//
// 本文件定义分发层回调接口。
package interfaces

import (
	"github.com/dep2p/go-nametable/pkg/types"
)

// Distributor 定义名字分发层回调接口
//
// 本地发布/撤销成功后由名字表调用，把变化传播到网络上的
// 其他节点。具体的分发协议不在本模块范围内。
//
// 回调在名字表的目录锁内执行，实现方应当只做入队等轻量操作。
type Distributor interface {
	// PublicationAdded 本地发布成功
	PublicationAdded(p *types.Publication)

	// PublicationRemoved 本地撤销成功
	PublicationRemoved(p *types.Publication)
}

// NopDistributor 空分发层实现
//
// 单机使用名字表时的默认分发层。
type NopDistributor struct{}

// PublicationAdded 实现 Distributor 接口
func (NopDistributor) PublicationAdded(_ *types.Publication) {}

// PublicationRemoved 实现 Distributor 接口
func (NopDistributor) PublicationRemoved(_ *types.Publication) {}

// 确保实现了接口
var _ Distributor = NopDistributor{}
