package config

import (
	"errors"
	"fmt"
)

// ============================================================================
//                              Node 配置
// ============================================================================

// NodeConfig 本节点标识配置
type NodeConfig struct {
	// OwnAddr 本节点地址
	//
	// 名字表用它区分本地发布与远端发布。0 在加入网络前合法，
	// 此时所有发布都按远端处理。
	OwnAddr uint32 `json:"own_addr"`
}

// DefaultNodeConfig 返回默认的节点配置
func DefaultNodeConfig() NodeConfig {
	return NodeConfig{
		OwnAddr: 0,
	}
}

// Validate 验证节点配置的有效性
func (c *NodeConfig) Validate() error {
	// 任意 32 位地址都合法
	return nil
}

// ============================================================================
//                              Table 配置
// ============================================================================

// TableConfig 名字表结构参数
type TableConfig struct {
	// HashBuckets 服务序列哈希桶数量，必须是 2 的幂
	HashBuckets int `json:"hash_buckets"`

	// MaxPublications 本地发布数量上限
	MaxPublications uint32 `json:"max_publications"`
}

// DefaultTableConfig 返回默认的名字表配置
func DefaultTableConfig() TableConfig {
	return TableConfig{
		HashBuckets:     1024,
		MaxPublications: 65535,
	}
}

// Validate 验证名字表配置的有效性
func (c *TableConfig) Validate() error {
	if c.HashBuckets <= 0 {
		return errors.New("table: hash_buckets must be positive")
	}
	if c.HashBuckets&(c.HashBuckets-1) != 0 {
		return fmt.Errorf("table: hash_buckets must be a power of two, got %d", c.HashBuckets)
	}
	if c.MaxPublications == 0 {
		return errors.New("table: max_publications must be positive")
	}
	return nil
}

// ============================================================================
//                              Topology 配置
// ============================================================================

// TopologyConfig 拓扑订阅服务参数
type TopologyConfig struct {
	// EventBuffer 每个订阅的事件通道缓冲大小
	EventBuffer int `json:"event_buffer"`

	// MaxSubscriptions 订阅数量上限
	MaxSubscriptions int `json:"max_subscriptions"`

	// MaxDumpSessions 并发枚举会话上限（LRU 淘汰最久未用的会话）
	MaxDumpSessions int `json:"max_dump_sessions"`
}

// DefaultTopologyConfig 返回默认的拓扑服务配置
func DefaultTopologyConfig() TopologyConfig {
	return TopologyConfig{
		EventBuffer:      64,
		MaxSubscriptions: 65535,
		MaxDumpSessions:  64,
	}
}

// Validate 验证拓扑服务配置的有效性
func (c *TopologyConfig) Validate() error {
	if c.EventBuffer <= 0 {
		return errors.New("topology: event_buffer must be positive")
	}
	if c.MaxSubscriptions <= 0 {
		return errors.New("topology: max_subscriptions must be positive")
	}
	if c.MaxDumpSessions <= 0 {
		return errors.New("topology: max_dump_sessions must be positive")
	}
	return nil
}
