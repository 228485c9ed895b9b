package chain

import "github.com/ethereum/go-ethereum/common"

// addressSet 插入序去重集合：链上实现用定容数组+线性扫描省 gas，
// 链下无此约束，这里用 map+slice 保持完全相同的成员与顺序语义。
type addressSet struct {
	index map[common.Address]int
	order []common.Address
}

func newAddressSet(capacityHint int) *addressSet {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &addressSet{
		index: make(map[common.Address]int, capacityHint),
		order: make([]common.Address, 0, capacityHint),
	}
}

// add 首次加入返回 true，已存在返回 false
func (s *addressSet) add(addr common.Address) bool {
	if _, ok := s.index[addr]; ok {
		return false
	}
	s.index[addr] = len(s.order)
	s.order = append(s.order, addr)
	return true
}

func (s *addressSet) contains(addr common.Address) bool {
	_, ok := s.index[addr]
	return ok
}

func (s *addressSet) len() int {
	return len(s.order)
}

// addresses 按首次出现顺序返回全部地址（返回内部切片的副本）
func (s *addressSet) addresses() []common.Address {
	out := make([]common.Address, len(s.order))
	copy(out, s.order)
	return out
}
