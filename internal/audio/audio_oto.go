//go:build !headless

package audio

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
)

// Player plays the tone through the system audio output.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
	wave   *squareWave
}

func newPlayer() (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-ready

	wave := newSquareWave()
	player := ctx.NewPlayer(wave)
	player.Play()

	return &Player{
		ctx:    ctx,
		player: player,
		wave:   wave,
	}, nil
}

// SetActive implements runner.Sound.
func (p *Player) SetActive(active bool) {
	p.wave.active.Store(active)
}

// Close stops the playback.
func (p *Player) Close() error {
	p.wave.active.Store(false)
	if err := p.player.Close(); err != nil {
		return fmt.Errorf("closing audio player: %w", err)
	}
	return nil
}
