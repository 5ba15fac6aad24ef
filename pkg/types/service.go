package types

import "fmt"

// ============================================================================
//                              ServiceRange - 服务地址范围
// ============================================================================

// ServiceType 服务类别标识
type ServiceType uint32

// ServiceRange 一个服务类别下的实例区间
//
// 区间为闭区间 [Lower, Upper]，单实例地址用 Lower == Upper 表示。
type ServiceRange struct {
	// Type 服务类别
	Type ServiceType

	// Lower 区间下界
	Lower uint32

	// Upper 区间上界
	Upper uint32
}

// NewServiceRange 创建 ServiceRange
func NewServiceRange(typ ServiceType, lower, upper uint32) ServiceRange {
	return ServiceRange{Type: typ, Lower: lower, Upper: upper}
}

// NewServiceInstance 创建单实例地址
func NewServiceInstance(typ ServiceType, instance uint32) ServiceRange {
	return ServiceRange{Type: typ, Lower: instance, Upper: instance}
}

// Valid 检查区间是否合法（Lower <= Upper）
func (r ServiceRange) Valid() bool {
	return r.Lower <= r.Upper
}

// Contains 检查实例是否落在区间内
func (r ServiceRange) Contains(instance uint32) bool {
	return instance >= r.Lower && instance <= r.Upper
}

// Overlaps 检查两个闭区间是否相交
func (r ServiceRange) Overlaps(lower, upper uint32) bool {
	if !r.Valid() || lower > upper {
		return false
	}
	max := r.Lower
	if lower > max {
		max = lower
	}
	min := r.Upper
	if upper < min {
		min = upper
	}
	return max <= min
}

// String 返回可读形式
func (r ServiceRange) String() string {
	if r.Lower == r.Upper {
		return fmt.Sprintf("{%d,%d}", uint32(r.Type), r.Lower)
	}
	return fmt.Sprintf("{%d,%d,%d}", uint32(r.Type), r.Lower, r.Upper)
}
