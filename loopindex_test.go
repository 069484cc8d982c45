package spectmorph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeLoopFrameIndexForward(t *testing.T) {
	a := &Audio{LoopType: LoopFrameForward, LoopStart: 10, LoopEnd: 14}
	assert.Equal(t, 5, a.computeLoopFrameIndex(5))
	assert.Equal(t, 10, a.computeLoopFrameIndex(10))
	assert.Equal(t, 11, a.computeLoopFrameIndex(11))
	assert.Equal(t, 10, a.computeLoopFrameIndex(15))
	assert.Equal(t, 14, a.computeLoopFrameIndex(19))
	assert.Equal(t, 10, a.computeLoopFrameIndex(20))
}

func TestComputeLoopFrameIndexPingPong(t *testing.T) {
	a := &Audio{LoopType: LoopFramePingPong, LoopStart: 10, LoopEnd: 14}
	// loop_len = 4, ping_pong_len = 8
	assert.Equal(t, 10, a.computeLoopFrameIndex(10))
	assert.Equal(t, 12, a.computeLoopFrameIndex(12))
	assert.Equal(t, 14, a.computeLoopFrameIndex(14))
	assert.Equal(t, 13, a.computeLoopFrameIndex(15))
	assert.Equal(t, 10, a.computeLoopFrameIndex(18))
	assert.Equal(t, 12, a.computeLoopFrameIndex(20))
}

func TestComputeLoopFrameIndexZeroLengthPingPong(t *testing.T) {
	a := &Audio{LoopType: LoopFramePingPong, LoopStart: 10, LoopEnd: 10}
	assert.Equal(t, 10, a.computeLoopFrameIndex(50))
}

func TestComputeLoopFrameIndexNoneIsIdentity(t *testing.T) {
	a := &Audio{LoopType: LoopNone, LoopStart: 10, LoopEnd: 14}
	assert.Equal(t, 50, a.computeLoopFrameIndex(50))
}
