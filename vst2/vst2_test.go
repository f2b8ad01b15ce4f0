package vst2_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dudk/pedal/vst2"
)

func TestCacheScan(t *testing.T) {
	testPath := t.TempDir()
	cache := vst2.NewCache(testPath)
	assert.NotNil(t, cache.Libs[testPath])
	assert.Equal(t, 0, len(cache.Libs[testPath]))

	_, err := cache.LoadPlugin(testPath, "Krush")
	assert.Error(t, err)

	cache.Close()
}

func TestPluginOptions(t *testing.T) {
	p := vst2.NewPlugin(
		"Krush",
		nil,
		vst2.WithLatency(64),
		vst2.WithBlockSize(512),
		vst2.WithSampleRate(44100),
	)
	assert.Equal(t, "Krush", p.Name())
	assert.Equal(t, 64, p.Latency())
	assert.Equal(t, 512, p.BlockSize())
	assert.Equal(t, 44100, p.SampleRate())
}
