package validate

import "strings"

// Profile lists the indices a dictionary must contain.
type Profile struct {
	Name      string
	Mandatory []uint16
}

// Communication profile indices every node implements.
const (
	IndexDeviceType     uint16 = 0x1000
	IndexErrorRegister  uint16 = 0x1001
	IndexIdentityObject uint16 = 0x1018
)

// BaseProfile is the communication profile mandatory set.
var BaseProfile = Profile{
	Name:      "DS-301",
	Mandatory: []uint16{IndexDeviceType, IndexErrorRegister, IndexIdentityObject},
}

var profiles = map[string]Profile{
	BaseProfile.Name: BaseProfile,
}

// LookupProfile returns the profile registered under name. Empty, "None"
// and unknown names resolve to BaseProfile.
func LookupProfile(name string) Profile {
	if p, ok := profiles[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return p
	}
	return BaseProfile
}
