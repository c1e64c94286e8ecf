// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/stakepool/lvldb"
	"github.com/vechain/stakepool/state"
	"github.com/vechain/stakepool/test/datagen"
	"github.com/vechain/stakepool/thor"
)

type TestStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  thor.Address
}

func newTestContext() *Context {
	db, _ := lvldb.NewMem()
	return NewContext(datagen.RandAddress(), state.New(db, 0))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext()
	m := NewMapping[thor.Address, *TestStruct](ctx, thor.BytesToBytes32([]byte("structs")))

	key := datagen.RandAddress()

	// absent key yields an empty struct, never nil
	v, err := m.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(0), v.Field1)

	val := &TestStruct{Field1: 1, Field2: big.NewInt(2), Addr1: datagen.RandAddress()}
	require.NoError(t, m.Set(key, val))

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, val.Field1, got.Field1)
	assert.Equal(t, 0, val.Field2.Cmp(got.Field2))
	assert.Equal(t, val.Addr1, got.Addr1)

	// other keys are untouched
	other, err := m.Get(datagen.RandAddress())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), other.Field1)

	m.Delete(key)
	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), got.Field1)
}

func TestMappingSeparateBase(t *testing.T) {
	ctx := newTestContext()
	m1 := NewMapping[thor.Address, uint64](ctx, thor.BytesToBytes32([]byte("m1")))
	m2 := NewMapping[thor.Address, uint64](ctx, thor.BytesToBytes32([]byte("m2")))

	key := datagen.RandAddress()
	require.NoError(t, m1.Set(key, 7))

	v, err := m2.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	v, err = m1.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), v)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext()
	u := NewUint256(ctx, thor.BytesToBytes32([]byte("total")))

	v, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, v.Sign())

	require.NoError(t, u.Add(big.NewInt(10)))
	require.NoError(t, u.Add(big.NewInt(5)))
	v, _ = u.Get()
	assert.Equal(t, big.NewInt(15), v)

	require.NoError(t, u.Sub(big.NewInt(15)))
	v, _ = u.Get()
	assert.Equal(t, 0, v.Sign())

	assert.Error(t, u.Sub(big.NewInt(1)))
	assert.Error(t, u.Set(big.NewInt(-1)))
}

func TestRawAndFlags(t *testing.T) {
	ctx := newTestContext()

	raw := NewRaw[uint64](ctx, thor.BytesToBytes32([]byte("raw")))
	v, err := raw.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
	require.NoError(t, raw.Upsert(99))
	v, _ = raw.Get()
	assert.Equal(t, uint64(99), v)

	flag := NewBool(ctx, thor.BytesToBytes32([]byte("flag")))
	b, err := flag.Get()
	require.NoError(t, err)
	assert.False(t, b)
	require.NoError(t, flag.Set(true))
	b, _ = flag.Get()
	assert.True(t, b)
	require.NoError(t, flag.Set(false))
	b, _ = flag.Get()
	assert.False(t, b)

	addr := NewAddress(ctx, thor.BytesToBytes32([]byte("addr")))
	a, err := addr.Get()
	require.NoError(t, err)
	assert.True(t, a.IsZero())
	expected := datagen.RandAddress()
	require.NoError(t, addr.Set(&expected))
	a, _ = addr.Get()
	assert.Equal(t, expected, a)
}
