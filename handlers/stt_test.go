package handlers

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWaveHeader(format, channels, bits uint16, sampleRate uint32) []byte {
	h := waveHeader{
		FileSize:      36,
		FmtSize:       16,
		AudioFormat:   format,
		NumChannels:   channels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(channels) * uint32(bits) / 8,
		BlockAlign:    channels * bits / 8,
		BitsPerSample: bits,
	}
	copy(h.RiffTag[:], "RIFF")
	copy(h.WaveTag[:], "WAVE")
	copy(h.FmtTag[:], "fmt ")
	copy(h.DataTag[:], "data")

	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, &h)
	return buf.Bytes()
}

func TestParseWaveHeader(t *testing.T) {
	data := buildWaveHeader(1, 1, 16, 16000)

	h, err := parseWaveHeader(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), h.AudioFormat)
	assert.Equal(t, uint16(1), h.NumChannels)
	assert.Equal(t, uint16(16), h.BitsPerSample)
	assert.Equal(t, uint32(16000), h.SampleRate)
}

func TestParseWaveHeaderRejectsShortInput(t *testing.T) {
	_, err := parseWaveHeader([]byte("RIFF"))
	assert.Error(t, err)
}

func TestParseWaveHeaderRejectsNonWave(t *testing.T) {
	data := buildWaveHeader(1, 1, 16, 16000)
	copy(data[8:12], "AVI ")

	_, err := parseWaveHeader(data)
	assert.Error(t, err)
}
