package by8301

import "fmt"

// Jukebox is the part of the Player used by the trigger policy
type Jukebox interface {
	PlayState() (State, error)
	RandomPlay() (uint16, error)
}

// PlayIfIdle starts a random track unless the module is already producing sound.
// played is false when playback was skipped or failed.
func PlayIfIdle(jb Jukebox) (played bool, err error) {
	state, err := jb.PlayState()
	if err != nil {
		return false, fmt.Errorf("failed to get play state: %w", err)
	}
	if state.Busy() {
		return false, nil
	}
	_, err = jb.RandomPlay()
	if err != nil {
		return false, err
	}
	return true, nil
}
