// Package nametable 实现名字表核心
package nametable

import (
	"container/list"

	"github.com/dep2p/go-nametable/pkg/types"
)

// publication 名字表内部的发布记录
//
// 除公开字段外持有自身在两条成员链表中的位置，
// 摘链和轮转都是 O(1) 操作。
type publication struct {
	types.Publication

	// allElem 在 all 链表中的位置
	allElem *list.Element

	// localElem 在 local 链表中的位置，非本地发布为 nil
	localElem *list.Element
}

// bindingSet 一个区间的绑定集合
//
// local 只含本节点的发布，all 含全部发布。两条链表都维护
// 轮转顺序：被选中的记录移到尾部，实现重复查找的轮询公平。
type bindingSet struct {
	local *list.List
	all   *list.List
}

// newBindingSet 创建空绑定集合
func newBindingSet() *bindingSet {
	return &bindingSet{
		local: list.New(),
		all:   list.New(),
	}
}

// attach 把发布记录挂入集合
//
// 新记录插在链表头部；isLocal 指明是否同时挂入 local 链表。
func (b *bindingSet) attach(p *publication, isLocal bool) {
	p.allElem = b.all.PushFront(p)
	if isLocal {
		p.localElem = b.local.PushFront(p)
	}
}

// detach 把发布记录摘出集合
func (b *bindingSet) detach(p *publication) {
	if p.allElem != nil {
		b.all.Remove(p.allElem)
		p.allElem = nil
	}
	if p.localElem != nil {
		b.local.Remove(p.localElem)
		p.localElem = nil
	}
}

// empty 检查集合是否已无任何发布
func (b *bindingSet) empty() bool {
	return b.all.Len() == 0
}

// firstLocal 返回 local 链表头部记录，空链表返回 nil
func (b *bindingSet) firstLocal() *publication {
	if e := b.local.Front(); e != nil {
		return e.Value.(*publication)
	}
	return nil
}

// firstAll 返回 all 链表头部记录，空链表返回 nil
func (b *bindingSet) firstAll() *publication {
	if e := b.all.Front(); e != nil {
		return e.Value.(*publication)
	}
	return nil
}

// rotateLocal 把记录移到 local 链表尾部
func (b *bindingSet) rotateLocal(p *publication) {
	if p.localElem != nil {
		b.local.MoveToBack(p.localElem)
	}
}

// rotateAll 把记录移到 all 链表尾部
func (b *bindingSet) rotateAll(p *publication) {
	if p.allElem != nil {
		b.all.MoveToBack(p.allElem)
	}
}

// forEachAll 按当前轮转顺序遍历 all 链表
//
// fn 返回 false 时终止遍历。遍历中不得增删链表成员。
func (b *bindingSet) forEachAll(fn func(p *publication) bool) {
	for e := b.all.Front(); e != nil; e = e.Next() {
		if !fn(e.Value.(*publication)) {
			return
		}
	}
}

// forEachLocal 按当前轮转顺序遍历 local 链表
func (b *bindingSet) forEachLocal(fn func(p *publication) bool) {
	for e := b.local.Front(); e != nil; e = e.Next() {
		if !fn(e.Value.(*publication)) {
			return
		}
	}
}

// findAll 在 all 链表中查找匹配 (key, port, node 通配) 的记录
func (b *bindingSet) findAll(node types.NodeID, port types.PortID, key uint32) *publication {
	for e := b.all.Front(); e != nil; e = e.Next() {
		p := e.Value.(*publication)
		if p.Key == key && p.Port == port && p.Node.Matches(node) {
			return p
		}
	}
	return nil
}
