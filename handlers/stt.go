package handlers

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"screenqa/config"
	"screenqa/models"

	speech "cloud.google.com/go/speech/apiv1"
	"github.com/gin-gonic/gin"
	"google.golang.org/api/option"
	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
)

const (
	MaxFileSize      = 5 * 1024 * 1024 // 5MB (conservative buffer)
	AllowedExtension = ".wav"
)

type waveHeader struct {
	RiffTag       [4]byte
	FileSize      uint32
	WaveTag       [4]byte
	FmtTag        [4]byte
	FmtSize       uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataTag       [4]byte
	DataSize      uint32
}

func parseWaveHeader(data []byte) (*waveHeader, error) {
	if len(data) < 44 {
		return nil, errors.New("invalid WAV header length")
	}
	var header waveHeader
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if string(header.RiffTag[:]) != "RIFF" || string(header.WaveTag[:]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}
	return &header, nil
}

// STTHandler transcribes an uploaded WAV clip with Google Cloud Speech and
// runs the transcript through the agent, so a spoken question gets the same
// answer a typed one would.
func (h *AgentHandler) STTHandler(c *gin.Context) {
	// 1. Get language parameter (default to en-US)
	language := c.DefaultPostForm("language", "en-US")
	sessionID := c.DefaultPostForm("session_id", c.ClientIP())

	// 2. Get audio file from multipart form
	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "audio file is required",
			"details": err.Error(),
		})
		return
	}
	defer file.Close()

	// 3. Validate file extension
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != AllowedExtension {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid file type",
			"details": fmt.Sprintf("expected %s, got %s", AllowedExtension, ext),
		})
		return
	}

	// 4. Read and validate audio data
	audioData, err := io.ReadAll(io.LimitReader(file, MaxFileSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to read audio file",
			"details": err.Error(),
		})
		return
	}
	wav, err := parseWaveHeader(audioData)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid WAV file",
			"details": err.Error(),
		})
		return
	}
	if wav.AudioFormat != 1 || wav.NumChannels != 1 || wav.BitsPerSample != 16 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "unsupported audio format",
			"details": "expected 16-bit mono PCM",
		})
		return
	}

	// 5. Initialize Google STT client
	ctx := c.Request.Context()
	client, err := speech.NewClient(ctx, option.WithAPIKey(config.AppConfig.GoogleAPIKey))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to initialize speech client",
			"details": err.Error(),
		})
		return
	}
	defer client.Close()

	// 6. Process with Google STT
	resp, err := client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   int32(wav.SampleRate),
			LanguageCode:      language,
			AudioChannelCount: 1, // Mono
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{
				Content: audioData,
			},
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "speech recognition failed",
			"details": err.Error(),
		})
		return
	}

	// 7. Collect the transcript
	var transcript strings.Builder
	for _, result := range resp.Results {
		for _, alt := range result.Alternatives {
			transcript.WriteString(alt.Transcript + " ")
		}
	}
	question := strings.TrimSpace(transcript.String())
	if question == "" {
		c.JSON(http.StatusOK, gin.H{"transcription": "", "response": nil})
		return
	}

	// 8. Answer through the same pipeline a typed question takes
	answer, err := h.Svc.ProcessUserInput(ctx, models.AgentRequest{
		SessionID: sessionID,
		Text:      question,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error":         "agent failed to answer",
			"transcription": question,
			"details":       err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transcription": question,
		"response":      answer,
	})
}
