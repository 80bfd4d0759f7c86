package router

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MussinaLin/protocolink-go/contracts"
	"github.com/MussinaLin/protocolink-go/types"
)

func TestExecuteCalldataRoundTrip(t *testing.T) {
	t.Parallel()

	logics := []Logic{
		{
			To:   types.StringToAddress("0x11"),
			Data: []byte{0xa9, 0x05, 0x9c, 0xbb, 0x00, 0x01},
			Inputs: []Input{
				{
					Token:      types.StringToAddress("0xaa"),
					BalanceBps: BpsNotUsed,
					Amount:     big.NewInt(12345),
					Offset:     OffsetNotUsed,
				},
				{
					Token:      types.StringToAddress("0xbb"),
					BalanceBps: 5000,
					Offset:     32,
				},
				{
					Token:      contracts.NativeToken,
					BalanceBps: BpsBase,
					Offset:     OffsetNotUsed,
				},
			},
			WrapMode:  WrapBefore,
			ApproveTo: types.StringToAddress("0x22"),
			Callback:  types.StringToAddress("0x33"),
		},
		{
			To:       types.StringToAddress("0x44"),
			Data:     nil,
			WrapMode: WrapModeNone,
		},
	}
	tokensReturn := []types.Address{
		types.StringToAddress("0xaa"),
		contracts.NativeToken,
	}

	calldata, err := EncodeExecute(logics, tokensReturn, true)
	require.NoError(t, err)
	require.True(t, bytes.Equal(calldata[:selectorSize], executeMethod.ID()))

	gotLogics, gotTokens, gotFee, err := decodeExecute(calldata)
	require.NoError(t, err)

	assert.True(t, gotFee)
	assert.Equal(t, tokensReturn, gotTokens)
	require.Len(t, gotLogics, len(logics))

	first := gotLogics[0]
	assert.Equal(t, logics[0].To, first.To)
	assert.Equal(t, logics[0].Data, first.Data)
	assert.Equal(t, logics[0].WrapMode, first.WrapMode)
	assert.Equal(t, logics[0].ApproveTo, first.ApproveTo)
	assert.Equal(t, logics[0].Callback, first.Callback)

	require.Len(t, first.Inputs, 3)

	literal := first.Inputs[0]
	assert.Equal(t, BpsNotUsed, literal.BalanceBps)
	assert.Zero(t, literal.Amount.Cmp(big.NewInt(12345)))
	assert.Equal(t, OffsetNotUsed, literal.Offset)

	patched := first.Inputs[1]
	assert.Equal(t, 5000, patched.BalanceBps)
	assert.Equal(t, 32, patched.Offset)

	unpatched := first.Inputs[2]
	assert.Equal(t, BpsBase, unpatched.BalanceBps)
	assert.Equal(t, OffsetNotUsed, unpatched.Offset)
	assert.Equal(t, contracts.NativeToken, unpatched.Token)

	second := gotLogics[1]
	assert.Equal(t, logics[1].To, second.To)
	assert.Empty(t, second.Data)
	assert.Empty(t, second.Inputs)
	assert.Equal(t, types.ZeroAddress, second.Callback)
}

func TestEncodeExecuteRejectsNegativeValues(t *testing.T) {
	t.Parallel()

	_, err := EncodeExecute([]Logic{
		{
			To:     types.StringToAddress("0x1"),
			Inputs: []Input{{BalanceBps: -2}},
		},
	}, nil, false)
	assert.ErrorIs(t, err, ErrInvalidBps)

	_, err = EncodeExecute([]Logic{
		{
			To:     types.StringToAddress("0x1"),
			Inputs: []Input{{BalanceBps: 100, Offset: -2}},
		},
	}, nil, false)
	assert.ErrorIs(t, err, ErrInvalidOffset)
}

func TestDecodeExecuteRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, _, _, err := decodeExecute(append(append([]byte{}, executeMethod.ID()...), 0xde, 0xad))
	assert.Error(t, err)
}
