package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestAddressSet_InsertionOrder(t *testing.T) {
	s := newAddressSet(0)
	a := common.HexToAddress("0x01")
	b := common.HexToAddress("0x02")
	c := common.HexToAddress("0x03")

	assert.True(t, s.add(b))
	assert.True(t, s.add(a))
	assert.False(t, s.add(b)) // 重复加入不改变顺序
	assert.True(t, s.add(c))
	assert.False(t, s.add(a))

	assert.Equal(t, 3, s.len())
	assert.True(t, s.contains(a))
	assert.False(t, s.contains(common.HexToAddress("0x04")))
	assert.Equal(t, []common.Address{b, a, c}, s.addresses())
}

func TestAddressSet_AddressesReturnsCopy(t *testing.T) {
	s := newAddressSet(1)
	a := common.HexToAddress("0x01")
	s.add(a)

	out := s.addresses()
	out[0] = common.HexToAddress("0xff")
	assert.Equal(t, []common.Address{a}, s.addresses())
}

func TestAddressSet_NegativeHint(t *testing.T) {
	s := newAddressSet(-5)
	assert.Equal(t, 0, s.len())
	assert.True(t, s.add(common.HexToAddress("0x01")))
}
