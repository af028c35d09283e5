package weapon

// Cue names the audio or animation clip a host should play after a weapon
// operation. The values are the clip names the animator and audio banks use.
type Cue string

const (
	CueNone        Cue = ""
	CueFire        Cue = "Fire"
	CueFireEmpty   Cue = "Fire Empty"
	CueReload      Cue = "Reload"
	CueReloadEmpty Cue = "Reload Empty"
	CueHolster     Cue = "Holster"
	CueUnholster   Cue = "Unholster"
)

func (c Cue) String() string {
	if c == CueNone {
		return "none"
	}
	return string(c)
}
