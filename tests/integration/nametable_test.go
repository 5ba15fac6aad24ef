// Package integration 提供名字表系统的端到端集成测试
//
// 通过根门面装配完整系统，覆盖以下场景：
//   - 发布 / 翻译 / 撤销的完整周期
//   - 拓扑订阅的快照与实时事件
//   - 分发层回调
//   - 枚举会话分页
//   - 系统关闭后的清扫语义
package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nametable "github.com/dep2p/go-nametable"
	"github.com/dep2p/go-nametable/config"
	"github.com/dep2p/go-nametable/pkg/types"
)

const ownAddr = uint32(0x01001001)

// ============================================================================
//                              测试场景 1: 发布与翻译
// ============================================================================

// TestPublishTranslateWithdraw 测试发布-翻译-撤销的完整周期
//
// 场景：服务方发布一个名字绑定，调用方翻译后服务方撤销
// 预期：翻译在发布后命中，撤销后落空
func TestPublishTranslateWithdraw(t *testing.T) {
	sys, err := nametable.New(nametable.WithOwnAddr(ownAddr))
	require.NoError(t, err)
	defer sys.Close()

	nt := sys.NameTable()
	p := nt.Publish(1000, 100, 200, types.ScopeCluster, 5001, 1)
	require.NotNil(t, p, "发布应该成功")

	port, node := nt.Translate(1000, 150, types.NodeNone)
	assert.Equal(t, types.PortID(5001), port)
	assert.Equal(t, types.NodeID(ownAddr), node)

	require.True(t, nt.Withdraw(1000, 100, 5001, 1))
	port, node = nt.Translate(1000, 150, types.NodeNone)
	assert.Equal(t, types.PortNone, port)
	assert.Equal(t, types.NodeNone, node)
}

// ============================================================================
//                              测试场景 2: 拓扑订阅
// ============================================================================

// TestTopologySubscription 测试订阅的快照与实时事件
//
// 场景：先发布一个绑定再订阅，之后继续发布与撤销
// 预期：订阅先收到既有状态快照，再按顺序收到实时事件
func TestTopologySubscription(t *testing.T) {
	sys, err := nametable.New(nametable.WithOwnAddr(ownAddr))
	require.NoError(t, err)
	defer sys.Close()

	nt := sys.NameTable()
	nt.Publish(2000, 10, 20, types.ScopeCluster, 6001, 1)

	sub, err := sys.Topology().Subscribe(types.NewServiceRange(2000, 0, 100), 0, 0)
	require.NoError(t, err)

	// 快照：既有绑定产生一个 PUBLISHED 事件
	ev := <-sub.Events()
	assert.Equal(t, types.EventPublished, ev.Event)
	assert.True(t, ev.MustReport)
	assert.Equal(t, types.PortID(6001), ev.Port)

	// 实时：发布与撤销各产生一个事件
	nt.Publish(2000, 30, 40, types.ScopeCluster, 6002, 2)
	ev = <-sub.Events()
	assert.Equal(t, types.EventPublished, ev.Event)
	assert.Equal(t, uint32(30), ev.Lower)

	nt.Withdraw(2000, 30, 6002, 2)
	ev = <-sub.Events()
	assert.Equal(t, types.EventWithdrawn, ev.Event)

	sub.Cancel()
	_, open := <-sub.Events()
	assert.False(t, open, "取消后事件通道应关闭")
}

// ============================================================================
//                              测试场景 3: 分发层回调
// ============================================================================

// recordingDistributor 记录分发层回调
type recordingDistributor struct {
	added   []types.Publication
	removed []types.Publication
}

func (d *recordingDistributor) PublicationAdded(p *types.Publication) {
	d.added = append(d.added, *p)
}

func (d *recordingDistributor) PublicationRemoved(p *types.Publication) {
	d.removed = append(d.removed, *p)
}

// TestDistributorCallbacks 测试本地操作触发分发层回调
//
// 场景：注入分发层后执行本地发布与撤销、远端写入
// 预期：只有本地操作触发回调
func TestDistributorCallbacks(t *testing.T) {
	dist := &recordingDistributor{}
	sys, err := nametable.New(
		nametable.WithOwnAddr(ownAddr),
		nametable.WithDistributor(dist),
	)
	require.NoError(t, err)
	defer sys.Close()

	nt := sys.NameTable()
	nt.Publish(3000, 1, 1, types.ScopeNode, 7001, 1)
	nt.InsertPublication(3000, 2, 2, types.ScopeCluster, 0x02002002, 7002, 2)
	nt.Withdraw(3000, 1, 7001, 1)

	require.Len(t, dist.added, 1)
	assert.Equal(t, types.PortID(7001), dist.added[0].Port)
	require.Len(t, dist.removed, 1)
}

// ============================================================================
//                              测试场景 4: 枚举会话
// ============================================================================

// TestDumpSessionPaging 测试跨页枚举会话
//
// 场景：发布多条绑定后通过会话分页枚举
// 预期：所有绑定不重不漏，枚举完毕会话自动结束
func TestDumpSessionPaging(t *testing.T) {
	sys, err := nametable.New(nametable.WithOwnAddr(ownAddr))
	require.NoError(t, err)
	defer sys.Close()

	nt := sys.NameTable()
	for i := uint32(1); i <= 10; i++ {
		require.NotNil(t, nt.Publish(4000+types.ServiceType(i%3), i*10, i*10,
			types.ScopeCluster, types.PortID(8000+i), i))
	}

	sessions := sys.DumpSessions()
	id := sessions.Begin()

	seen := make(map[uint32]struct{})
	for {
		page, done, err := sessions.Next(id, 3)
		require.NoError(t, err)
		for _, p := range page {
			_, dup := seen[p.Key]
			assert.False(t, dup, "键 %d 重复出现", p.Key)
			seen[p.Key] = struct{}{}
		}
		if done {
			break
		}
	}
	assert.Len(t, seen, 10)

	// 枚举完毕后会话已结束
	_, _, err = sessions.Next(id, 3)
	assert.ErrorIs(t, err, types.ErrResumeInvalid)
}

// ============================================================================
//                              测试场景 5: 系统关闭
// ============================================================================

// TestSystemClose 测试系统关闭的清扫语义
//
// 场景：持有发布与订阅的系统执行关闭
// 预期：订阅收到残留发布的撤销事件，通道随后关闭
func TestSystemClose(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Node.OwnAddr = ownAddr
	sys, err := nametable.New(nametable.WithConfig(cfg))
	require.NoError(t, err)

	nt := sys.NameTable()
	nt.Publish(5000, 10, 10, types.ScopeNode, 9001, 1)

	sub, err := sys.Topology().Subscribe(
		types.NewServiceRange(5000, 0, 100), types.FilterNoStatus, 0)
	require.NoError(t, err)

	require.NoError(t, sys.Close())

	// 关闭顺序：先取消订阅，再清空名字表；通道关闭，
	// 清扫期间产生的撤销事件不再投递给已取消的订阅
	for ev := range sub.Events() {
		assert.NotEqual(t, types.EventPublished, ev.Event)
	}

	// 关闭后名字表拒绝新发布
	assert.Nil(t, nt.Publish(5000, 20, 20, types.ScopeNode, 9002, 2))
}

// TestInvalidConfig 测试无效配置被拒绝
func TestInvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Table.HashBuckets = 1000 // 不是 2 的幂

	_, err := nametable.New(nametable.WithConfig(cfg))
	assert.Error(t, err)
}
