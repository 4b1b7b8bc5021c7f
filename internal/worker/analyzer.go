package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// ErrNoSamples is returned for an audio stream that decodes to nothing.
var ErrNoSamples = errors.New("worker: audio contains no samples")

// maxAnalysedBytes caps how much decoded PCM is read per track; roughly 30s
// of 44.1kHz stereo.
const maxAnalysedBytes = 30 * 44100 * 4

// Analyzer measures the loudness energy of an MP3 stream.
type Analyzer struct {
	client *http.Client
}

func NewAnalyzer(client *http.Client) *Analyzer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Analyzer{client: client}
}

// Analyze downloads url and returns its RMS energy in [0,1].
func (a *Analyzer) Analyze(ctx context.Context, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("worker: build audio request: %w", err)
	}
	// #nosec G107 -- URL comes from the catalogue response
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("worker: audio fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("worker: audio fetch status %d", resp.StatusCode)
	}
	return MeasureEnergy(resp.Body)
}

// MeasureEnergy decodes r as MP3 and returns the RMS of its 16-bit samples,
// normalised to [0,1].
func MeasureEnergy(r io.Reader) (float64, error) {
	decoder, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, fmt.Errorf("worker: audio decode failed: %w", err)
	}
	return rmsEnergy(io.LimitReader(decoder, maxAnalysedBytes))
}

// rmsEnergy reads little-endian signed 16-bit PCM.
func rmsEnergy(pcm io.Reader) (float64, error) {
	buf := make([]byte, 4096)
	var sumSquares, count float64
	var carry []byte

	for {
		n, err := pcm.Read(buf)
		if n > 0 {
			chunk := append(carry, buf[:n]...)
			i := 0
			for ; i+1 < len(chunk); i += 2 {
				sample := float64(int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8))
				sumSquares += sample * sample
				count++
			}
			carry = append(carry[:0], chunk[i:]...)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("worker: audio read failed: %w", err)
		}
	}

	if count == 0 {
		return 0, ErrNoSamples
	}
	energy := math.Sqrt(sumSquares/count) / 32768.0
	return math.Min(math.Max(energy, 0), 1), nil
}
