// Package nametable 实现名字表核心
package nametable

import (
	"sync/atomic"

	"github.com/dep2p/go-nametable/pkg/types"
)

// recordedEvent 测试用的事件记录
type recordedEvent struct {
	event      types.EventType
	lower      uint32
	upper      uint32
	port       types.PortID
	node       types.NodeID
	scope      types.Scope
	mustReport bool
}

// recordingSubscriber 测试用的订阅实现
//
// 同步记录收到的全部事件，并跟踪引用计数。
type recordingSubscriber struct {
	rng    types.ServiceRange
	filter types.FilterFlags
	events []recordedEvent
	refs   atomic.Int32
}

func newRecordingSubscriber(rng types.ServiceRange, filter types.FilterFlags) *recordingSubscriber {
	return &recordingSubscriber{rng: rng, filter: filter}
}

func (r *recordingSubscriber) Range() types.ServiceRange { return r.rng }
func (r *recordingSubscriber) Filter() types.FilterFlags { return r.filter }
func (r *recordingSubscriber) Hold()                     { r.refs.Add(1) }
func (r *recordingSubscriber) Release()                  { r.refs.Add(-1) }

func (r *recordingSubscriber) ReportOverlap(lower, upper uint32, event types.EventType,
	port types.PortID, node types.NodeID, scope types.Scope, mustReport bool) {
	if !r.rng.Overlaps(lower, upper) {
		return
	}
	r.events = append(r.events, recordedEvent{
		event:      event,
		lower:      lower,
		upper:      upper,
		port:       port,
		node:       node,
		scope:      scope,
		mustReport: mustReport,
	})
}

// recordingGroup 测试用的组成员收集实现
type recordingGroup struct {
	members []groupMember
}

type groupMember struct {
	node     types.NodeID
	port     types.PortID
	instance uint32
}

func (g *recordingGroup) AddMember(node types.NodeID, port types.PortID, instance uint32) {
	g.members = append(g.members, groupMember{node: node, port: port, instance: instance})
}

// countingDistributor 测试用的分发层实现
type countingDistributor struct {
	added   []types.Publication
	removed []types.Publication
}

func (d *countingDistributor) PublicationAdded(p *types.Publication) {
	d.added = append(d.added, *p)
}

func (d *countingDistributor) PublicationRemoved(p *types.Publication) {
	d.removed = append(d.removed, *p)
}
