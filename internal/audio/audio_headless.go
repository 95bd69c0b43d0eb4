//go:build headless

package audio

func newPlayer() (Device, error) {
	return nil, ErrUnavailable
}
